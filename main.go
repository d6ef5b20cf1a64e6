package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ucsd-cubesat/LoRa-Development/sx1278"
	"gopkg.in/yaml.v3"
)

// Defaults applied when config.yaml is absent or leaves fields unset.
const (
	DefaultSPIDevice = "/dev/spidev0.0"
	DefaultSPISpeed  = 122000 // Hz, conservative while the wiring is on jumpers
	DefaultGPIOChip  = "gpiochip0"
	DefaultResetPin  = 17
	DefaultSettleMs  = 250
)

type Config struct {
	SPI struct {
		Device string `yaml:"device"`
		Speed  uint32 `yaml:"speed"`
	} `yaml:"spi"`
	GPIO struct {
		Chip     string `yaml:"chip"`
		ResetPin int    `yaml:"reset_pin"`
	} `yaml:"gpio"`
	Radio struct {
		TxSettleMs   int  `yaml:"tx_settle_ms"`
		ResetOnStart bool `yaml:"reset_on_start"`
	} `yaml:"radio"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig("config.yaml")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Bring-up failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	slog.Info("Opening SX1278",
		"spi_device", cfg.SPI.Device,
		"spi_speed", cfg.SPI.Speed,
		"gpio_chip", cfg.GPIO.Chip,
		"reset_pin", cfg.GPIO.ResetPin,
		"tx_settle_ms", cfg.Radio.TxSettleMs)

	ctrl, err := sx1278.New(
		cfg.SPI.Device,
		cfg.SPI.Speed,
		cfg.GPIO.Chip,
		cfg.GPIO.ResetPin,
		time.Duration(cfg.Radio.TxSettleMs)*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	slog.Info("Hardware opened", "info", ctrl.Info())

	if cfg.Radio.ResetOnStart {
		if err := ctrl.Reset(); err != nil {
			return fmt.Errorf("hardware reset failed: %w", err)
		}
		slog.Info("Hardware reset pulsed")
	}

	boot, err := ctrl.EnterStandby()
	if err != nil {
		return err
	}
	slog.Info("Device has entered LoRa standby",
		"boot_mode", fmt.Sprintf("0x%02X", boot),
		"boot_mode_name", sx1278.ModeString(boot))

	dump, err := ctrl.DumpRegisters()
	if err != nil {
		return err
	}
	for _, rv := range dump {
		desc := sx1278.RegisterDescriptions[rv.Addr]
		if desc == "" {
			desc = "Unknown register"
		}
		slog.Info("Register",
			"address", fmt.Sprintf("0x%02X", rv.Addr),
			"value", fmt.Sprintf("0x%02X", rv.Value),
			"description", desc)
	}

	report, err := ctrl.TransmitTest(sx1278.TestPayload)
	if err != nil {
		return err
	}
	slog.Info("Transmit test complete",
		"payload", fmt.Sprintf("0x%02X", sx1278.TestPayload),
		"fifo_ptr_before", fmt.Sprintf("0x%02X", report.FifoPtrBefore),
		"irq_flags", sx1278.IrqFlagsString(report.IrqFlags),
		"mode", fmt.Sprintf("0x%02X", report.OpMode),
		"mode_name", sx1278.ModeString(report.OpMode),
		"tx_done", report.IrqFlags&sx1278.IrqTxDone != 0)

	return nil
}

// loadConfig reads config.yaml when present and fills in defaults for
// anything unset. A missing file is not an error so the tool can run bare.
func loadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	} else {
		slog.Info("No config file found, using defaults", "path", path)
	}

	if cfg.SPI.Device == "" {
		cfg.SPI.Device = DefaultSPIDevice
	}
	if cfg.SPI.Speed == 0 {
		cfg.SPI.Speed = DefaultSPISpeed
	}
	if cfg.GPIO.Chip == "" {
		cfg.GPIO.Chip = DefaultGPIOChip
	}
	if cfg.GPIO.ResetPin == 0 {
		cfg.GPIO.ResetPin = DefaultResetPin
	}
	if cfg.Radio.TxSettleMs == 0 {
		cfg.Radio.TxSettleMs = DefaultSettleMs
	}

	return cfg, nil
}
