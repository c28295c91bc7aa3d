// spi/spi_test.go
package spi_test

import (
	"bytes"
	"errors"
	"testing"

	"spihal-go/spi"
	"spihal-go/spi/spitest"
)

var errWire = errors.New("wire fault")

func TestReadFillsWholeBuffer(t *testing.T) {
	bus := spi.New(&spitest.Echo{Pattern: []byte{0xDE, 0xAD}})

	buf := make([]byte, 4)
	if err := bus.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := []byte{0xDE, 0xAD, 0xDE, 0xAD}; !bytes.Equal(buf, want) {
		t.Fatalf("read buffer = %x, want %x", buf, want)
	}
}

func TestWriteSendsEveryByteUnaltered(t *testing.T) {
	echo := &spitest.Echo{}
	bus := spi.New(echo)

	buf := []byte{0x01, 0x02, 0x03}
	if err := bus.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(echo.Written) != 1 || !bytes.Equal(echo.Written[0], []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("transport saw %x", echo.Written)
	}
	if !bytes.Equal(buf, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("write mutated caller buffer: %x", buf)
	}
}

func TestTransferCorrelatesByPosition(t *testing.T) {
	bus := spi.New(&spitest.Echo{})

	tx := []byte{0x10, 0x20, 0x30}
	rx := make([]byte, 3)
	if err := bus.Transfer(rx, tx); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !bytes.Equal(rx, tx) {
		t.Fatalf("rx = %x, want %x", rx, tx)
	}
}

func TestTransferSizeMismatchIsTransportFailure(t *testing.T) {
	bus := spi.New(&spitest.Echo{})

	err := bus.Transfer(make([]byte, 2), make([]byte, 3))
	if !errors.Is(err, spitest.ErrLengthMismatch) {
		t.Fatalf("err = %v, want length mismatch", err)
	}
	var be *spi.BusError
	if !errors.As(err, &be) || be.Op != spi.OpTransfer {
		t.Fatalf("err = %#v, want BusError op %q", err, spi.OpTransfer)
	}
}

// The in-place path must behave exactly like the two-buffer path over an
// echoing transport: the buffer comes back with its original contents.
func TestTransferInPlaceRoundTrip(t *testing.T) {
	bus := spi.New(&spitest.Echo{})

	buf := []byte{0x01, 0x02, 0x03}
	if err := bus.TransferInPlace(buf); err != nil {
		t.Fatalf("transfer in place: %v", err)
	}
	if want := []byte{0x01, 0x02, 0x03}; !bytes.Equal(buf, want) {
		t.Fatalf("buf = %x, want %x", buf, want)
	}
}

func TestTransferInPlaceDoesNotAliasWriteSide(t *testing.T) {
	tr := &spitest.Transport{
		TransferFunc: func(rx, tx []byte) error {
			if len(rx) > 0 && &rx[0] == &tx[0] {
				return errors.New("aliased buffers")
			}
			// Clobber the read side, then check the write side survived.
			for i := range rx {
				rx[i] = 0xFF
			}
			if !bytes.Equal(tx, []byte{0x0A, 0x0B}) {
				return errors.New("write side corrupted")
			}
			return nil
		},
	}
	bus := spi.New(tr)

	buf := []byte{0x0A, 0x0B}
	if err := bus.TransferInPlace(buf); err != nil {
		t.Fatalf("transfer in place: %v", err)
	}
	if !bytes.Equal(buf, []byte{0xFF, 0xFF}) {
		t.Fatalf("buf = %x, want received bytes", buf)
	}
}

func TestFlushIsNoOp(t *testing.T) {
	tr := &spitest.Transport{}
	bus := spi.New(tr)

	if err := bus.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(tr.Calls) != 0 {
		t.Fatalf("flush touched the transport: %v", tr.Calls)
	}
}

func TestBlockOpsWrapTransportFailure(t *testing.T) {
	tr := &spitest.Transport{
		ReadFunc:  func([]byte) error { return errWire },
		WriteFunc: func([]byte) error { return errWire },
	}
	bus := spi.New(tr)

	for _, tc := range []struct {
		op  string
		err error
	}{
		{spi.OpRead, bus.Read(make([]byte, 1))},
		{spi.OpWrite, bus.Write(make([]byte, 1))},
	} {
		if !errors.Is(tc.err, errWire) {
			t.Fatalf("%s: err = %v, want wrapped wire fault", tc.op, tc.err)
		}
		var be *spi.BusError
		if !errors.As(tc.err, &be) {
			t.Fatalf("%s: err = %#v, want *BusError", tc.op, tc.err)
		}
		if be.Op != tc.op {
			t.Fatalf("op = %q, want %q", be.Op, tc.op)
		}
		if be.Kind() != spi.KindOther {
			t.Fatalf("kind = %v, want other", be.Kind())
		}
	}
}

func TestReadByteBeforeWriteWouldBlock(t *testing.T) {
	bus := spi.New(&spitest.Transport{})

	if _, err := bus.ReadByte(); !errors.Is(err, spi.ErrWouldBlock) {
		t.Fatalf("err = %v, want ErrWouldBlock", err)
	}
}

func TestWriteByteBuffersReceivedByte(t *testing.T) {
	tr := &spitest.Transport{
		TransferFunc: func(rx, tx []byte) error {
			rx[0] = tx[0] ^ 0xFF
			return nil
		},
	}
	bus := spi.New(tr)

	if err := bus.WriteByte(0x0F); err != nil {
		t.Fatalf("write byte: %v", err)
	}
	got, err := bus.ReadByte()
	if err != nil {
		t.Fatalf("read byte: %v", err)
	}
	if got != 0xF0 {
		t.Fatalf("read byte = %#x, want 0xF0", got)
	}
	// Slot is now empty again.
	if _, err := bus.ReadByte(); !errors.Is(err, spi.ErrWouldBlock) {
		t.Fatalf("second read err = %v, want ErrWouldBlock", err)
	}
}

func TestWriteByteOverwritesSingleSlot(t *testing.T) {
	bus := spi.New(&spitest.Echo{})

	if err := bus.WriteByte(0x11); err != nil {
		t.Fatalf("first write byte: %v", err)
	}
	if err := bus.WriteByte(0x22); err != nil {
		t.Fatalf("second write byte: %v", err)
	}
	got, err := bus.ReadByte()
	if err != nil {
		t.Fatalf("read byte: %v", err)
	}
	if got != 0x22 {
		t.Fatalf("read byte = %#x, want only the second byte", got)
	}
	if _, err := bus.ReadByte(); !errors.Is(err, spi.ErrWouldBlock) {
		t.Fatalf("slot should hold one byte, got err = %v", err)
	}
}

func TestWriteByteFailureLeavesSlotEmpty(t *testing.T) {
	tr := &spitest.Transport{
		TransferFunc: func(rx, tx []byte) error { return errWire },
	}
	bus := spi.New(tr)

	if err := bus.WriteByte(0x55); !errors.Is(err, errWire) {
		t.Fatalf("err = %v, want wire fault", err)
	}
	if _, err := bus.ReadByte(); !errors.Is(err, spi.ErrWouldBlock) {
		t.Fatalf("failed write must not buffer a byte, err = %v", err)
	}
}
