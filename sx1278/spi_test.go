package sx1278

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
)

// fakeConn is an in-memory spi.Conn that records every transmitted frame
// and answers from a canned response.
type fakeConn struct {
	frames   [][]byte
	response []byte
	err      error
}

func (f *fakeConn) String() string      { return "fake" }
func (f *fakeConn) Duplex() conn.Duplex { return conn.Full }

func (f *fakeConn) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	frame := make([]byte, len(w))
	copy(frame, w)
	f.frames = append(f.frames, frame)
	for i := range r {
		if i < len(f.response) {
			r[i] = f.response[i]
		}
	}
	return nil
}

func (f *fakeConn) TxPackets(p []spi.Packet) error {
	for i := range p {
		if err := f.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

func newFakeDevice(response []byte) (*SPIDevice, *fakeConn) {
	fc := &fakeConn{response: response}
	return &SPIDevice{conn: fc, device: "fake"}, fc
}

func TestReadRegisterFrame(t *testing.T) {
	for addr := uint8(0); addr <= 0x7F; addr++ {
		dev, fc := newFakeDevice([]byte{0x00, 0x42})
		got, err := dev.ReadRegister(addr)
		if err != nil {
			t.Fatalf("ReadRegister(0x%02X): %v", addr, err)
		}
		if len(fc.frames) != 1 {
			t.Fatalf("ReadRegister(0x%02X) issued %d transfers, want 1", addr, len(fc.frames))
		}
		frame := fc.frames[0]
		if len(frame) != 2 {
			t.Fatalf("ReadRegister(0x%02X) frame length %d, want 2", addr, len(frame))
		}
		if frame[0] != addr {
			t.Errorf("ReadRegister(0x%02X) first byte 0x%02X, want 0x%02X", addr, frame[0], addr)
		}
		if frame[0]&0x80 != 0 {
			t.Errorf("ReadRegister(0x%02X) set the write flag", addr)
		}
		if got != 0x42 {
			t.Errorf("ReadRegister(0x%02X) = 0x%02X, want the second received byte 0x42", addr, got)
		}
	}
}

func TestWriteRegisterFrame(t *testing.T) {
	cases := []struct {
		addr, data uint8
	}{
		{0x00, 0x00},
		{0x01, 0x89},
		{0x0D, 0x80},
		{0x39, 0x12},
		{0x7F, 0xFF},
	}
	for _, tc := range cases {
		dev, fc := newFakeDevice([]byte{0x00, 0x0F})
		prior, err := dev.WriteRegister(tc.addr, tc.data)
		if err != nil {
			t.Fatalf("WriteRegister(0x%02X, 0x%02X): %v", tc.addr, tc.data, err)
		}
		if len(fc.frames) != 1 {
			t.Fatalf("WriteRegister issued %d transfers, want 1", len(fc.frames))
		}
		want := []byte{tc.addr | 0x80, tc.data}
		if !bytes.Equal(fc.frames[0], want) {
			t.Errorf("WriteRegister(0x%02X, 0x%02X) frame %#v, want %#v", tc.addr, tc.data, fc.frames[0], want)
		}
		if prior != 0x0F {
			t.Errorf("WriteRegister returned 0x%02X, want prior value 0x0F", prior)
		}
	}
}

func TestTransferLengthMismatch(t *testing.T) {
	dev, _ := newFakeDevice(nil)
	if err := dev.Transfer([]byte{1, 2}, make([]byte, 3)); err == nil {
		t.Error("Transfer accepted mismatched buffer lengths")
	}
}

func TestBurstWriteFrame(t *testing.T) {
	dev, fc := newFakeDevice(make([]byte, 4))
	if err := dev.BurstWrite(RegFifo, []uint8{0xCC, 0xDD, 0xEE}); err != nil {
		t.Fatalf("BurstWrite: %v", err)
	}
	want := []byte{RegFifo | 0x80, 0xCC, 0xDD, 0xEE}
	if !bytes.Equal(fc.frames[0], want) {
		t.Errorf("BurstWrite frame %#v, want %#v", fc.frames[0], want)
	}

	if err := dev.BurstWrite(RegFifo, nil); err == nil {
		t.Error("BurstWrite accepted an empty payload")
	}
}

func TestBurstReadFrame(t *testing.T) {
	dev, fc := newFakeDevice([]byte{0x00, 0x11, 0x22, 0x33})
	got, err := dev.BurstRead(RegFrfMsb, 3)
	if err != nil {
		t.Fatalf("BurstRead: %v", err)
	}
	if fc.frames[0][0] != RegFrfMsb {
		t.Errorf("BurstRead address byte 0x%02X, want 0x%02X", fc.frames[0][0], RegFrfMsb)
	}
	if len(fc.frames[0]) != 4 {
		t.Errorf("BurstRead frame length %d, want 4", len(fc.frames[0]))
	}
	if !bytes.Equal(got, []byte{0x11, 0x22, 0x33}) {
		t.Errorf("BurstRead = %#v, want bytes after the address slot", got)
	}

	if _, err := dev.BurstRead(RegFrfMsb, 0); err == nil {
		t.Error("BurstRead accepted count 0")
	}
}
