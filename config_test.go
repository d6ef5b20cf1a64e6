package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SPI.Device != DefaultSPIDevice {
		t.Errorf("SPI.Device = %q, want %q", cfg.SPI.Device, DefaultSPIDevice)
	}
	if cfg.SPI.Speed != DefaultSPISpeed {
		t.Errorf("SPI.Speed = %d, want %d", cfg.SPI.Speed, DefaultSPISpeed)
	}
	if cfg.GPIO.Chip != DefaultGPIOChip {
		t.Errorf("GPIO.Chip = %q, want %q", cfg.GPIO.Chip, DefaultGPIOChip)
	}
	if cfg.GPIO.ResetPin != DefaultResetPin {
		t.Errorf("GPIO.ResetPin = %d, want %d", cfg.GPIO.ResetPin, DefaultResetPin)
	}
	if cfg.Radio.TxSettleMs != DefaultSettleMs {
		t.Errorf("Radio.TxSettleMs = %d, want %d", cfg.Radio.TxSettleMs, DefaultSettleMs)
	}
	if cfg.Radio.ResetOnStart {
		t.Error("Radio.ResetOnStart defaulted to true")
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("spi:\n  device: /dev/spidev1.2\nradio:\n  tx_settle_ms: 500\n  reset_on_start: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SPI.Device != "/dev/spidev1.2" {
		t.Errorf("SPI.Device = %q, want /dev/spidev1.2", cfg.SPI.Device)
	}
	if cfg.SPI.Speed != DefaultSPISpeed {
		t.Errorf("SPI.Speed = %d, want default %d", cfg.SPI.Speed, DefaultSPISpeed)
	}
	if cfg.Radio.TxSettleMs != 500 {
		t.Errorf("Radio.TxSettleMs = %d, want 500", cfg.Radio.TxSettleMs)
	}
	if !cfg.Radio.ResetOnStart {
		t.Error("Radio.ResetOnStart not parsed")
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("spi: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Error("loadConfig accepted malformed YAML")
	}
}
