package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	institutionrepofakes "github.com/jrsteele09/clinic-gateway/institutions/repofakes"
	"github.com/jrsteele09/clinic-gateway/internal/config"
	"github.com/jrsteele09/clinic-gateway/server"
	fakeuserrepo "github.com/jrsteele09/clinic-gateway/users/repofake"
	"github.com/rs/zerolog/log"
)

func serveDev(ctx context.Context, cfg config.Config) error {
	displayAppname(cfg.GetAppName())

	s, err := server.New(cfg, fakeuserrepo.NewFakeUserRepo(), institutionrepofakes.NewFakeInstitutionRepo())
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.GetDevPort(), Handler: s}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("dev server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server.ListenAndServe %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(httpServer)
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("dev server stopped")
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
