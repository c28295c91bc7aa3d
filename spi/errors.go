// spi/errors.go
package spi

import "errors"

// Kind classifies a bus failure for generation-facing callers. The transport
// does not distinguish causes (overrun, mode fault, framing), so the only
// class ever produced is KindOther.
type Kind uint8

const (
	KindOther Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	}
	return "unknown"
}

// ErrWouldBlock is returned by ReadByte when no received byte is buffered.
// Callers poll: issue a WriteByte, then ReadByte succeeds.
var ErrWouldBlock = errors.New("would_block")

// Operation names carried by BusError.Op and TransactionError.Step.
const (
	OpRead            = "read"
	OpWrite           = "write"
	OpTransfer        = "transfer"
	OpTransferInPlace = "transfer_in_place"
	OpWriteByte       = "write_byte"
)

// BusError is the unified error every interface generation observes: the
// underlying transport failure tagged with the bus operation that issued it.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	if e.Err != nil {
		return "spi: " + e.Op + ": " + e.Err.Error()
	}
	return "spi: " + e.Op
}

func (e *BusError) Unwrap() error { return e.Err }
func (e *BusError) Kind() Kind    { return KindOther }

// TransactionError reports which step kind of a Device transaction failed.
// Prior steps already moved real bytes on the wire; there is no rollback.
type TransactionError struct {
	Step string
	Err  error
}

func (e *TransactionError) Error() string {
	return "spi: transaction " + e.Step + " step: " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error { return e.Err }
func (e *TransactionError) Kind() Kind    { return KindOther }
