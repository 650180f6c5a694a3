package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bankrates/deploy/config"
	app "bankrates/internal/rates_bot/app"
)

func main() {
	cfg := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())

	application := app.NewBotApp(cfg)

	done := application.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	cancel()

	// The scheduler saves subscriptions before done closes.
	<-done
}
