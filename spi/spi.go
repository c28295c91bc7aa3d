// spi/spi.go
//
// Package spi adapts a block-oriented SPI bus primitive to the bus surfaces
// driver code is written against: whole-buffer read/write/transfer, a legacy
// in-place transfer generation, a poll-style single-byte full-duplex pair,
// and a device-level transaction executor.
//
// A Bus is exclusively owned: no internal locking, one caller at a time.
package spi

// Transport is the bus primitive this package adapts. All three calls are
// block-synchronous and all-or-fail: either the whole buffer moved or the
// call errored. Slave-select is managed at this level, not above it.
type Transport interface {
	Read(p []byte) error
	Write(p []byte) error

	// Transfer clocks tx out while filling rx, positionally correlated:
	// byte i of tx corresponds to byte i of rx. rx and tx must not alias;
	// length rules are the transport's own.
	Transfer(rx, tx []byte) error
}

// Bus owns a Transport for the lifetime of all operations issued through it.
// Its only mutable state is the single-slot duplex buffer used by
// ReadByte/WriteByte: occupied iff a WriteByte result has not yet been
// consumed.
type Bus struct {
	t Transport

	lastRead byte
	hasLast  bool
}

// New wraps t in a Bus. The transport must already be configured (mode,
// clock rate, select line); this layer adds no bus setup of its own.
func New(t Transport) *Bus {
	return &Bus{t: t}
}

// Read fills p entirely from the bus. There is no partial fill: on error
// the contents of p are unspecified.
func (b *Bus) Read(p []byte) error {
	if err := b.t.Read(p); err != nil {
		return &BusError{Op: OpRead, Err: err}
	}
	return nil
}

// Write transmits all of p. p is never modified or read back.
func (b *Bus) Write(p []byte) error {
	if err := b.t.Write(p); err != nil {
		return &BusError{Op: OpWrite, Err: err}
	}
	return nil
}

// Transfer performs a full-duplex block transfer: tx is clocked out while rx
// fills, byte i of rx received in the same clock cycles that sent byte i of
// tx. Size mismatches are the transport's failure to report.
func (b *Bus) Transfer(rx, tx []byte) error {
	if err := b.t.Transfer(rx, tx); err != nil {
		return &BusError{Op: OpTransfer, Err: err}
	}
	return nil
}

// TransferInPlace transfers buf over the bus, replacing its contents with
// the received bytes. The transport forbids aliased buffers, so the write
// side is a scratch copy of buf.
func (b *Bus) TransferInPlace(buf []byte) error {
	tx := append([]byte(nil), buf...)
	if err := b.t.Transfer(buf, tx); err != nil {
		return &BusError{Op: OpTransferInPlace, Err: err}
	}
	return nil
}

// Flush is a no-op: the transport has no write buffering.
func (b *Bus) Flush() error { return nil }

// WriteByte clocks out v in a one-byte transfer and buffers the byte
// received in the same cycle for a later ReadByte. A second WriteByte
// before that ReadByte silently replaces the buffered byte; there is no
// queue. The call blocks for the physical transfer and never reports
// ErrWouldBlock.
func (b *Bus) WriteByte(v byte) error {
	var rx, tx [1]byte
	tx[0] = v
	if err := b.t.Transfer(rx[:], tx[:]); err != nil {
		return &BusError{Op: OpWriteByte, Err: err}
	}
	b.lastRead = rx[0]
	b.hasLast = true
	return nil
}

// ReadByte returns the byte received by the most recent WriteByte and
// clears the slot. With nothing buffered it returns ErrWouldBlock; it
// never touches the wire.
func (b *Bus) ReadByte() (byte, error) {
	if !b.hasLast {
		return 0, ErrWouldBlock
	}
	b.hasLast = false
	return b.lastRead, nil
}
