package sx1278

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SPIDevice wraps the SPI port the SX1278 hangs off and implements its
// two-byte register access protocol using periph.io.
type SPIDevice struct {
	conn   spi.Conn
	port   spi.PortCloser
	device string
	speed  physic.Frequency
}

// NewSPIDevice opens the named SPI port and configures it for the SX1278:
// mode 0 (CPOL=0, CPHA=0), 8-bit words, MSB first, chip select active-low
// for the duration of each frame. All of that is periph's default Tx
// behavior once the port is connected in Mode0.
func NewSPIDevice(device string, speed uint32) (*SPIDevice, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}

	port, err := spireg.Open(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI device %s: %w", device, err)
	}

	conn, err := port.Connect(physic.Frequency(speed)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect to SPI device: %w", err)
	}

	return &SPIDevice{
		conn:   conn,
		port:   port,
		device: device,
		speed:  physic.Frequency(speed) * physic.Hertz,
	}, nil
}

// Close closes the SPI port.
func (s *SPIDevice) Close() error {
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}

// Transfer performs one full-duplex transfer: tx is shifted out while rx
// captures what the chip shifts back, both buffers the same length.
func (s *SPIDevice) Transfer(tx, rx []byte) error {
	if len(tx) != len(rx) {
		return fmt.Errorf("tx and rx buffers must be the same length")
	}

	if s.conn == nil {
		return fmt.Errorf("SPI device not open")
	}

	if err := s.conn.Tx(tx, rx); err != nil {
		return fmt.Errorf("SPI transfer failed: %w", err)
	}

	return nil
}

// ReadRegister reads one SX1278 register.
//
// The frame is {addr, 0x00}: the chip cannot answer until the address byte
// has fully clocked in, so the first received byte is always garbage and the
// register's value arrives in the second. The dummy second tx byte exists
// only to keep the clock running while the value shifts back.
func (s *SPIDevice) ReadRegister(addr uint8) (uint8, error) {
	tx := []byte{addr & 0x7F, 0x00}
	rx := make([]byte, 2)

	if err := s.Transfer(tx, rx); err != nil {
		return 0, fmt.Errorf("failed to read register 0x%02X: %w", addr, err)
	}

	return rx[1], nil
}

// WriteRegister writes one SX1278 register. The frame is {addr|0x80, value};
// the second received byte is the value the register held immediately before
// the write, returned for verification.
func (s *SPIDevice) WriteRegister(addr uint8, value uint8) (uint8, error) {
	tx := []byte{addr | spiWriteFlag, value}
	rx := make([]byte, 2)

	if err := s.Transfer(tx, rx); err != nil {
		return 0, fmt.Errorf("failed to write register 0x%02X: %w", addr, err)
	}

	return rx[1], nil
}

// BurstWrite writes values to consecutive registers with a single frame.
// The SX1278 auto-increments the register address after each data byte, so
// pointing this at RegFifo stages a multi-byte payload.
func (s *SPIDevice) BurstWrite(startAddr uint8, values []uint8) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to write")
	}

	tx := make([]byte, len(values)+1)
	tx[0] = startAddr | spiWriteFlag
	copy(tx[1:], values)

	rx := make([]byte, len(tx))

	if err := s.Transfer(tx, rx); err != nil {
		return fmt.Errorf("failed to burst write starting at 0x%02X: %w", startAddr, err)
	}

	return nil
}

// BurstRead reads count consecutive registers with a single frame.
func (s *SPIDevice) BurstRead(startAddr uint8, count int) ([]uint8, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid count: %d", count)
	}

	tx := make([]byte, count+1)
	tx[0] = startAddr & 0x7F

	rx := make([]byte, len(tx))

	if err := s.Transfer(tx, rx); err != nil {
		return nil, fmt.Errorf("failed to burst read starting at 0x%02X: %w", startAddr, err)
	}

	return rx[1:], nil
}

// DeviceInfo provides information about the SPI device.
func (s *SPIDevice) DeviceInfo() string {
	if s.conn == nil {
		return fmt.Sprintf("Device: %s (closed)", s.device)
	}
	return fmt.Sprintf("Device: %s, Speed: %s", s.device, s.speed)
}
