package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkuiper/rclink/internal/config"
	"github.com/mkuiper/rclink/internal/diag"
	"github.com/mkuiper/rclink/internal/observability"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
	"github.com/mkuiper/rclink/internal/receiver"
)

func main() {
	configPath := flag.String("config", "rxnode.toml", "path to the receiver config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "rxnode: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadRxConfig(configPath)
	if err != nil {
		return err
	}
	logger := observability.InitLogger(cfg.Name)

	driver, err := openDriver(cfg.Radio)
	if err != nil {
		return err
	}
	defer driver.Close()

	// Servo, ESC, lights and horn attach behind the Outputs interfaces;
	// the host build logs and serves diagnostics only.
	rx := receiver.New(receiver.Config{
		Driver:      driver,
		Logger:      logger,
		LinkTimeout: time.Duration(cfg.LinkTimeoutMS) * time.Millisecond,
	})

	srv := diag.New(cfg.Name, cfg.Diag.CorsOrigins, func() map[string]any {
		snap := rx.Snapshot()
		return map[string]any{
			"mode":      snap.Mode,
			"connected": snap.Connected,
			"packet":    fmt.Sprintf("%+v", snap.Active),
		}
	})
	go func() {
		if err := srv.Run(cfg.Diag.Addr); err != nil {
			logger.Error().Err(err).Msg("diag server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("transport", cfg.Radio.Transport).
		Hex("pipe", protocol.PipeControl[:]).
		Msg("receiver up")
	if err := rx.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func openDriver(cfg config.RadioConfig) (radio.Driver, error) {
	switch cfg.Transport {
	case "serial":
		return radio.OpenSerial(cfg.Device, cfg.Baud)
	case "loopback":
		a, _ := radio.NewLoopbackPair()
		return a, nil
	default:
		return nil, fmt.Errorf("unknown transport: %s", cfg.Transport)
	}
}
