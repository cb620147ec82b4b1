package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/jrsteele09/clinic-gateway/internal/config"
	"github.com/jrsteele09/clinic-gateway/internal/logging"
	"github.com/rs/zerolog/log"
)

const usage = `usage: clinicctl <command> [flags]

commands:
  login -email <email> -password <password>
  logout
  whoami
  request [-method GET] [-body <json>] [-H "Name: value"]... <url or path>
  staff list [-role <role>]
  staff get <id>
  staff me
  staff create -name <name> -email <email> -role <role> [-phone] [-department] [-password]
  staff update <id> [-name] [-email] [-phone] [-department]
  staff delete <id>
  serve-dev
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Error().Err(err).Msg("clinicctl failed")
		os.Exit(1)
	}
}

func run(command string, args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.Load()
	logging.Init(cfg.GetLogLevel(), cfg.GetLogFormat())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if command == "serve-dev" {
		return serveDev(ctx, cfg)
	}

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	switch command {
	case "login":
		return app.login(ctx, args)
	case "logout":
		return app.logout(ctx)
	case "whoami":
		return app.whoami(ctx)
	case "request":
		return app.request(ctx, args)
	case "staff":
		return app.staff(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
