package sx1278

import (
	"fmt"
	"time"
)

// RegisterBus is the register access surface the controller drives. It is
// satisfied by *SPIDevice; tests substitute a fake.
type RegisterBus interface {
	ReadRegister(addr uint8) (uint8, error)
	WriteRegister(addr, value uint8) (uint8, error)
}

// Controller sequences the SX1278 through bring-up, diagnostics and the
// transmit test. All device state lives in the chip; the controller holds
// only the bus, the reset line and the configured TX settle delay.
type Controller struct {
	bus    RegisterBus
	spi    *SPIDevice
	gpio   *GPIOController
	settle time.Duration

	// sleep is swapped out by tests to observe the settle ordering.
	sleep func(time.Duration)
}

// RegisterValue is one entry of a diagnostic dump.
type RegisterValue struct {
	Addr  uint8
	Value uint8
}

// TransmitReport holds the register values observed by the transmit test.
type TransmitReport struct {
	FifoPtrBefore uint8 // FIFO pointer before it is moved to the TX base
	IrqFlags      uint8
	OpMode        uint8
}

// New opens the SPI port and the reset GPIO and returns a ready controller.
// The reset line is driven high by the GPIO controller so the chip is held
// out of reset for the whole session.
func New(spiDevice string, spiSpeed uint32, gpioChip string, resetPin int, settle time.Duration) (*Controller, error) {
	spi, err := NewSPIDevice(spiDevice, spiSpeed)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SPI: %w", err)
	}

	gpio, err := NewGPIOController(gpioChip, resetPin)
	if err != nil {
		spi.Close()
		return nil, fmt.Errorf("failed to initialize GPIO: %w", err)
	}

	return &Controller{
		bus:    spi,
		spi:    spi,
		gpio:   gpio,
		settle: settle,
		sleep:  time.Sleep,
	}, nil
}

// Close releases the GPIO and SPI resources.
func (c *Controller) Close() error {
	var errs []error

	if c.gpio != nil {
		if err := c.gpio.Close(); err != nil {
			errs = append(errs, fmt.Errorf("GPIO close error: %w", err))
		}
	}

	if c.spi != nil {
		if err := c.spi.Close(); err != nil {
			errs = append(errs, fmt.Errorf("SPI close error: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}

// Reset pulses the hardware reset line.
func (c *Controller) Reset() error {
	if c.gpio == nil {
		return fmt.Errorf("GPIO not initialized")
	}
	return c.gpio.Reset()
}

// ReadRegister reads a single register.
func (c *Controller) ReadRegister(addr uint8) (uint8, error) {
	return c.bus.ReadRegister(addr)
}

// WriteRegister writes a single register, returning its prior value.
func (c *Controller) WriteRegister(addr, value uint8) (uint8, error) {
	return c.bus.WriteRegister(addr, value)
}

// EnterStandby forces the chip into LoRa standby and verifies it got there.
//
// The chip boots in the FSK/OOK modulation family (RegOpMode bit 7 clear)
// and only honors a family switch while asleep. If the boot mode is still
// FSK/OOK, a transitional FSK sleep is written first; that write is
// best-effort and not itself verified. Then LoRa sleep and LoRa standby are
// written in order, and the mode register is read back: anything other than
// the standby encoding is a terminal error.
func (c *Controller) EnterStandby() (uint8, error) {
	boot, err := c.bus.ReadRegister(RegOpMode)
	if err != nil {
		return 0, fmt.Errorf("failed to read boot mode: %w", err)
	}

	if boot&longRangeModeBit == 0 {
		if _, err := c.bus.WriteRegister(RegOpMode, ModeFSKSleep); err != nil {
			return boot, fmt.Errorf("failed to enter FSK sleep: %w", err)
		}
	}

	if _, err := c.bus.WriteRegister(RegOpMode, ModeLoRaSleep); err != nil {
		return boot, fmt.Errorf("failed to enter LoRa sleep: %w", err)
	}
	if _, err := c.bus.WriteRegister(RegOpMode, ModeLoRaStandby); err != nil {
		return boot, fmt.Errorf("failed to enter LoRa standby: %w", err)
	}

	mode, err := c.bus.ReadRegister(RegOpMode)
	if err != nil {
		return boot, fmt.Errorf("failed to read back mode: %w", err)
	}
	if mode != ModeLoRaStandby {
		return boot, fmt.Errorf("failed to enter LoRa standby: mode register reads 0x%02X, want 0x%02X", mode, ModeLoRaStandby)
	}

	return boot, nil
}

// DumpRegisters reads every named register except the FIFO data register in
// address order. The FIFO register is skipped because reading it advances
// the chip's internal address pointer; everything else is pointer-neutral.
func (c *Controller) DumpRegisters() ([]RegisterValue, error) {
	dump := make([]RegisterValue, 0, len(diagnosticRegisters))

	for _, addr := range diagnosticRegisters {
		value, err := c.bus.ReadRegister(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to read register 0x%02X: %w", addr, err)
		}
		dump = append(dump, RegisterValue{Addr: addr, Value: value})
	}

	return dump, nil
}

// TransmitTest stages one payload byte in the FIFO and commands a
// transmission, then reads back the IRQ flags and operating mode.
//
// The SPI clock is orders of magnitude slower than the host, so the chip
// finishes the transmission asynchronously long after the mode write
// returns. The settle delay must elapse strictly between the TX mode write
// and the status reads, otherwise the reads race the hardware and observe
// stale values. The returned values are reported, not validated.
func (c *Controller) TransmitTest(payload uint8) (TransmitReport, error) {
	var report TransmitReport

	// The pointer initializes to the RX base (0x00); read it first so the
	// operator can confirm that.
	ptr, err := c.bus.ReadRegister(RegFifoAddrPtr)
	if err != nil {
		return report, fmt.Errorf("failed to read FIFO pointer: %w", err)
	}
	report.FifoPtrBefore = ptr

	if _, err := c.bus.WriteRegister(RegFifoAddrPtr, FifoTxBase); err != nil {
		return report, fmt.Errorf("failed to set FIFO pointer: %w", err)
	}
	if _, err := c.bus.WriteRegister(RegFifo, payload); err != nil {
		return report, fmt.Errorf("failed to stage payload: %w", err)
	}
	if _, err := c.bus.WriteRegister(RegOpMode, ModeLoRaTx); err != nil {
		return report, fmt.Errorf("failed to enter TX mode: %w", err)
	}

	c.sleep(c.settle)

	irq, err := c.bus.ReadRegister(RegIrqFlags)
	if err != nil {
		return report, fmt.Errorf("failed to read IRQ flags: %w", err)
	}
	report.IrqFlags = irq

	mode, err := c.bus.ReadRegister(RegOpMode)
	if err != nil {
		return report, fmt.Errorf("failed to read back mode: %w", err)
	}
	report.OpMode = mode

	return report, nil
}

// Info returns a summary of the controller's hardware handles.
func (c *Controller) Info() string {
	info := ""
	if c.spi != nil {
		info += c.spi.DeviceInfo()
	}
	if c.gpio != nil {
		if info != "" {
			info += "; "
		}
		info += c.gpio.Info()
	}
	return info
}
