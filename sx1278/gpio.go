package sx1278

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOController manages the SX1278 reset line.
//
// NRESET is active-low; the line is requested as an output driven high and
// held there for the life of the process so the chip stays out of reset
// while the bus is in use.
type GPIOController struct {
	chip      *gpiocdev.Chip
	resetLine *gpiocdev.Line
	chipPath  string
	resetPin  int
}

// NewGPIOController opens the GPIO chip and claims the reset pin, driving
// it high immediately.
func NewGPIOController(chipPath string, resetPin int) (*GPIOController, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", chipPath, err)
	}

	resetLine, err := chip.RequestLine(
		resetPin,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer("sx1278-reset"),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("failed to request reset pin %d: %w", resetPin, err)
	}

	return &GPIOController{
		chip:      chip,
		resetLine: resetLine,
		chipPath:  chipPath,
		resetPin:  resetPin,
	}, nil
}

// Close releases the reset line and the GPIO chip.
func (g *GPIOController) Close() error {
	var errs []error

	if g.resetLine != nil {
		if err := g.resetLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close reset line: %w", err))
		}
		g.resetLine = nil
	}

	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close GPIO chip: %w", err))
		}
		g.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing GPIO: %v", errs)
	}

	return nil
}

// Reset performs a hardware reset of the SX1278: pull NRESET low for at
// least 100us, release, then wait 5ms for the chip to come up (datasheet
// section 7.2.2). The line is left high.
func (g *GPIOController) Reset() error {
	if g.resetLine == nil {
		return fmt.Errorf("reset line not initialized")
	}

	if err := g.resetLine.SetValue(0); err != nil {
		return fmt.Errorf("failed to pull reset pin LOW: %w", err)
	}

	time.Sleep(100 * time.Microsecond)

	if err := g.resetLine.SetValue(1); err != nil {
		return fmt.Errorf("failed to release reset pin: %w", err)
	}

	time.Sleep(5 * time.Millisecond)

	return nil
}

// Info returns information about the GPIO controller.
func (g *GPIOController) Info() string {
	if g.chip == nil {
		return fmt.Sprintf("GPIO: %s (closed)", g.chipPath)
	}

	return fmt.Sprintf("GPIO: %s (%s, %s), Reset Pin: %d",
		g.chipPath, g.chip.Name, g.chip.Label, g.resetPin)
}
