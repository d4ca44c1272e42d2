// Command cashier is a terminal front end for the payment wizard. It talks
// to a running API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"cashierku_backend/internals/configs"
	"cashierku_backend/internals/features/finance/wizard"

	"github.com/charmbracelet/log"
)

func main() {
	configs.LoadEnv()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "cashier",
	})
	if configs.GetEnvBool("CASHIER_DEBUG", false) {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := wizard.NewAPIClient(configs.GetEnv("CASHIER_API_URL", "http://localhost:3000/api"), configs.GetEnv("CASHIER_TOKEN"))
	if api.Token == "" {
		email, password := configs.GetEnv("CASHIER_EMAIL"), configs.GetEnv("CASHIER_PASSWORD")
		if email == "" || password == "" {
			logger.Fatal("set CASHIER_TOKEN, or CASHIER_EMAIL and CASHIER_PASSWORD")
		}
		if _, err := api.Login(ctx, email, password); err != nil {
			logger.Fatal("login failed", "email", email, "err", err)
		}
		logger.Info("logged in", "email", email)
	}

	debounce := time.Duration(configs.GetEnvInt("CASHIER_DEBOUNCE_MS", int(wizard.DefaultDebounce/time.Millisecond))) * time.Millisecond
	s := newSession(api, os.Stdout, logger, debounce)
	if err := s.run(ctx, os.Stdin); err != nil {
		logger.Fatal("session ended", "err", err)
	}
}
