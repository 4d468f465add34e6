package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type RadioConfig struct {
	Transport string `toml:"transport"`
	Device    string `toml:"device"`
	Baud      int    `toml:"baud"`
}

type DiagConfig struct {
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

type TxConfig struct {
	Name         string      `toml:"name"`
	SettingsPath string      `toml:"settings_path"`
	Radio        RadioConfig `toml:"radio"`
	Diag         DiagConfig  `toml:"diag"`
}

type RxConfig struct {
	Name          string      `toml:"name"`
	LinkTimeoutMS int         `toml:"link_timeout_ms"`
	Radio         RadioConfig `toml:"radio"`
	Diag          DiagConfig  `toml:"diag"`
}

func LoadTxConfig(path string) (TxConfig, error) {
	var cfg TxConfig
	if err := loadToml(path, &cfg); err != nil {
		return TxConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "txnode"
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = "txnode.db"
	}
	applyRadioDefaults(&cfg.Radio)
	if cfg.Diag.Addr == "" {
		cfg.Diag.Addr = ":9300"
	}
	if err := ValidateTxConfig(cfg); err != nil {
		return TxConfig{}, err
	}
	return cfg, nil
}

func LoadRxConfig(path string) (RxConfig, error) {
	var cfg RxConfig
	if err := loadToml(path, &cfg); err != nil {
		return RxConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "rxnode"
	}
	if cfg.LinkTimeoutMS == 0 {
		cfg.LinkTimeoutMS = 3000
	}
	applyRadioDefaults(&cfg.Radio)
	if cfg.Diag.Addr == "" {
		cfg.Diag.Addr = ":9400"
	}
	if err := ValidateRxConfig(cfg); err != nil {
		return RxConfig{}, err
	}
	return cfg, nil
}

func applyRadioDefaults(r *RadioConfig) {
	if r.Transport == "" {
		r.Transport = "serial"
	}
	if r.Device == "" {
		r.Device = "/dev/ttyUSB0"
	}
	if r.Baud == 0 {
		r.Baud = 115200
	}
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateTxConfig(cfg TxConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("tx config missing name")
	}
	if strings.TrimSpace(cfg.SettingsPath) == "" {
		return fmt.Errorf("tx config missing settings_path")
	}
	if err := validateRadio(cfg.Radio); err != nil {
		return fmt.Errorf("tx radio invalid: %w", err)
	}
	if strings.TrimSpace(cfg.Diag.Addr) == "" {
		return fmt.Errorf("tx config missing diag addr")
	}
	return nil
}

func ValidateRxConfig(cfg RxConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("rx config missing name")
	}
	if cfg.LinkTimeoutMS < 0 {
		return fmt.Errorf("rx config link_timeout_ms must not be negative")
	}
	if err := validateRadio(cfg.Radio); err != nil {
		return fmt.Errorf("rx radio invalid: %w", err)
	}
	if strings.TrimSpace(cfg.Diag.Addr) == "" {
		return fmt.Errorf("rx config missing diag addr")
	}
	return nil
}

func validateRadio(r RadioConfig) error {
	switch r.Transport {
	case "serial":
		if strings.TrimSpace(r.Device) == "" {
			return fmt.Errorf("serial transport missing device")
		}
		if r.Baud <= 0 {
			return fmt.Errorf("serial transport baud must be positive")
		}
	case "loopback":
	default:
		return fmt.Errorf("unknown transport: %s", r.Transport)
	}
	return nil
}
