package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jrsteele09/clinic-gateway/auth"
	"github.com/jrsteele09/clinic-gateway/directory"
	"github.com/jrsteele09/clinic-gateway/gateway"
	"github.com/jrsteele09/clinic-gateway/internal/config"
	"github.com/jrsteele09/clinic-gateway/sessions"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type app struct {
	baseURL   string
	store     sessions.Store
	gateway   *gateway.Gateway
	reader    *jwt.Reader
	auth      *auth.Service
	directory *directory.Client
	out       io.Writer
	closeFn   func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	store, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gw := gateway.New(store, gateway.WithLogger(log.Logger))
	reader := jwt.NewReader(store, jwt.WithReaderLogger(log.Logger))
	return &app{
		baseURL:   cfg.GetAPIBaseURL(),
		store:     store,
		gateway:   gw,
		reader:    reader,
		auth:      auth.NewService(gw, store, cfg.GetAPIBaseURL()),
		directory: directory.NewClient(reader, gw, cfg.GetAPIBaseURL()),
		out:       os.Stdout,
		closeFn:   closeFn,
	}, nil
}

func openStore(ctx context.Context, cfg config.SessionConfig) (sessions.Store, func() error, error) {
	switch cfg.GetSessionBackend() {
	case config.SessionBackendRedis:
		store, err := sessions.NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		}, cfg.GetRedisKeyPrefix(), cfg.GetSessionName())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.SessionBackendFile:
		return sessions.NewFileStore(cfg.GetSessionFile()), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.GetSessionBackend())
	}
}

func (a *app) close() {
	if err := a.closeFn(); err != nil {
		log.Warn().Err(err).Msg("closing session store")
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	claims, err := a.auth.Login(ctx, auth.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	return a.print(claims)
}

func (a *app) logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

type identity struct {
	LoggedIn      bool     `json:"loggedIn"`
	Expired       bool     `json:"expired"`
	InstitutionID *int64   `json:"institutionId"`
	UserID        *int64   `json:"userId"`
	Role          jwt.Role `json:"role,omitempty"`
}

func (a *app) whoami(ctx context.Context) error {
	id := identity{
		LoggedIn: sessions.HasToken(ctx, a.store),
		Expired:  a.reader.IsExpired(ctx),
	}
	if v, ok := a.reader.InstitutionID(ctx); ok {
		id.InstitutionID = &v
	}
	if v, ok := a.reader.UserID(ctx); ok {
		id.UserID = &v
	}
	if v, ok := a.reader.Role(ctx); ok {
		id.Role = v
	}
	return a.print(id)
}

type headerFlags map[string]string

func (h headerFlags) String() string {
	return fmt.Sprint(map[string]string(h))
}

func (h headerFlags) Set(value string) error {
	name, v, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("header %q must be Name: value", value)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(v)
	return nil
}

func (a *app) request(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	method := fs.String("method", http.MethodGet, "HTTP method")
	body := fs.String("body", "", "JSON request body")
	headers := headerFlags{}
	fs.Var(headers, "H", "extra header, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("request takes exactly one url")
	}

	target := fs.Arg(0)
	if strings.HasPrefix(target, "/") {
		target = a.baseURL + target
	}

	req := gateway.Request{URL: target, Method: strings.ToUpper(*method), Headers: headers}
	if *body != "" {
		req.Body = body
	}

	result, err := a.gateway.Do(ctx, req)
	if err != nil {
		return err
	}
	return a.print(result)
}
