// spi/device.go
package spi

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Delayer realizes the timed-wait steps of a transaction. The call blocks
// for the full duration and has no failure mode.
type Delayer interface {
	DelayUs(us uint32)
}

// NewDelayer returns a Delayer backed by clk. Pass clock.New() for wall
// time; tests substitute their own recorder.
func NewDelayer(clk clock.Clock) Delayer {
	return clockDelayer{clk: clk}
}

type clockDelayer struct {
	clk clock.Clock
}

func (d clockDelayer) DelayUs(us uint32) {
	d.clk.Sleep(time.Duration(us) * time.Microsecond)
}

type opKind uint8

const (
	opRead opKind = iota
	opWrite
	opTransfer
	opTransferInPlace
	opDelay
)

// Operation is one step of a Device transaction. Construct with Read,
// Write, Transfer, TransferInPlace or DelayUs; operations are transient
// and not retained after the transaction returns.
type Operation struct {
	kind opKind
	buf  []byte // Read, Write, TransferInPlace
	rx   []byte // Transfer
	tx   []byte // Transfer
	us   uint32 // DelayUs
}

// Read fills buf from the bus.
func Read(buf []byte) Operation { return Operation{kind: opRead, buf: buf} }

// Write transmits buf.
func Write(buf []byte) Operation { return Operation{kind: opWrite, buf: buf} }

// Transfer clocks tx out while filling rx.
func Transfer(rx, tx []byte) Operation { return Operation{kind: opTransfer, rx: rx, tx: tx} }

// TransferInPlace transfers buf over the bus, replacing its contents.
func TransferInPlace(buf []byte) Operation { return Operation{kind: opTransferInPlace, buf: buf} }

// DelayUs waits us microseconds between bus operations.
func DelayUs(us uint32) Operation { return Operation{kind: opDelay, us: us} }

// Device wraps exclusive ownership of one Bus and runs operation sequences
// as single transactions.
//
// Slave-select is not toggled here: the select line is assumed asserted at
// the transport level for the whole sequence.
// TODO: split Transport so a Device can own and frame its select line.
type Device struct {
	bus   *Bus
	delay Delayer
}

// NewDevice takes ownership of bus. Delay steps use wall time until
// SetDelayer replaces the collaborator.
func NewDevice(bus *Bus) *Device {
	return &Device{bus: bus, delay: NewDelayer(clock.New())}
}

// SetDelayer replaces the delay collaborator. A nil d is ignored.
func (d *Device) SetDelayer(dl Delayer) {
	if dl != nil {
		d.delay = dl
	}
}

// Transaction executes ops in order and stops at the first failure; the
// remaining steps are not issued. The error names the step kind that
// failed. Steps already executed moved real bytes on the wire, so there is
// no rollback. Delay steps cannot fail.
func (d *Device) Transaction(ops ...Operation) error {
	for i := range ops {
		op := &ops[i]
		switch op.kind {
		case opRead:
			if err := d.bus.Read(op.buf); err != nil {
				return &TransactionError{Step: OpRead, Err: err}
			}
		case opWrite:
			if err := d.bus.Write(op.buf); err != nil {
				return &TransactionError{Step: OpWrite, Err: err}
			}
		case opTransfer:
			if err := d.bus.Transfer(op.rx, op.tx); err != nil {
				return &TransactionError{Step: OpTransfer, Err: err}
			}
		case opTransferInPlace:
			if err := d.bus.TransferInPlace(op.buf); err != nil {
				return &TransactionError{Step: OpTransferInPlace, Err: err}
			}
		case opDelay:
			d.delay.DelayUs(op.us)
		}
	}
	return nil
}

// Read runs a single-step read transaction.
func (d *Device) Read(buf []byte) error { return d.Transaction(Read(buf)) }

// Write runs a single-step write transaction.
func (d *Device) Write(buf []byte) error { return d.Transaction(Write(buf)) }
