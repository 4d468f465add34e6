package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkuiper/rclink/internal/config"
	"github.com/mkuiper/rclink/internal/diag"
	"github.com/mkuiper/rclink/internal/input"
	"github.com/mkuiper/rclink/internal/observability"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
	"github.com/mkuiper/rclink/internal/settings"
	"github.com/mkuiper/rclink/internal/transmitter"
)

func main() {
	configPath := flag.String("config", "txnode.toml", "path to the transmitter config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "txnode: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadTxConfig(configPath)
	if err != nil {
		return err
	}
	logger := observability.InitLogger(cfg.Name)

	driver, err := openDriver(cfg.Radio)
	if err != nil {
		return err
	}
	defer driver.Close()

	store, err := settings.OpenBolt(cfg.SettingsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// Hardware sticks and the panel display attach behind input.Source
	// and display.Display; the host build runs with neutral inputs.
	tx := transmitter.New(transmitter.Config{
		Source: input.NewScriptSource(),
		Store:  store,
		Driver: driver,
		Logger: logger,
	})

	srv := diag.New(cfg.Name, cfg.Diag.CorsOrigins, func() map[string]any {
		snap := tx.Snapshot()
		return map[string]any{
			"mode":          snap.Mode,
			"editing":       snap.Editing,
			"steer_sens":    snap.SteerSensitivity,
			"throttle_sens": snap.ThrottleSensitivity,
			"packet":        fmt.Sprintf("%+v", snap.Packet),
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
		Msg("transmitter up")
	if err := tx.Run(ctx); err != nil && ctx.Err() == nil {
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
