// spi/errors_test.go
package spi_test

import (
	"errors"
	"testing"

	"spihal-go/spi"
)

func TestErrorStringsAreStable(t *testing.T) {
	cause := errors.New("boom")

	cases := map[string]error{
		"spi: read: boom":                   &spi.BusError{Op: spi.OpRead, Err: cause},
		"spi: transfer_in_place: boom":      &spi.BusError{Op: spi.OpTransferInPlace, Err: cause},
		"spi: transaction write step: boom": &spi.TransactionError{Step: spi.OpWrite, Err: cause},
		"would_block":                       spi.ErrWouldBlock,
	}
	for want, err := range cases {
		if err.Error() != want {
			t.Fatalf("error %q mismatch: got %q", want, err.Error())
		}
	}
}

func TestErrorsUnwrapToCause(t *testing.T) {
	cause := errors.New("boom")

	err := error(&spi.TransactionError{
		Step: spi.OpTransfer,
		Err:  &spi.BusError{Op: spi.OpTransfer, Err: cause},
	})
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	var be *spi.BusError
	if !errors.As(err, &be) || be.Op != spi.OpTransfer {
		t.Fatalf("BusError lost: %v", err)
	}
}

func TestEverythingClassifiesAsOther(t *testing.T) {
	if (&spi.BusError{}).Kind() != spi.KindOther {
		t.Fatal("BusError kind")
	}
	if (&spi.TransactionError{}).Kind() != spi.KindOther {
		t.Fatal("TransactionError kind")
	}
	if spi.KindOther.String() != "other" {
		t.Fatalf("kind string = %q", spi.KindOther.String())
	}
}
