// spi/drvshim.go
package spi

import "tinygo.org/x/drivers"

// DriverSPI adapts a *Bus to the tinygo drivers.SPI shape, so drivers
// written against tinygo.org/x/drivers run on any Transport. It is a
// stateless translation layer; all state stays in the Bus.
type DriverSPI struct {
	bus *Bus
}

func NewDriverSPI(bus *Bus) DriverSPI {
	return DriverSPI{bus: bus}
}

var _ drivers.SPI = DriverSPI{}

// Tx follows machine.SPI conventions: both buffers non-nil is a duplex
// transfer, r == nil is write-only, w == nil is read-only.
func (s DriverSPI) Tx(w, r []byte) error {
	switch {
	case w == nil && r == nil:
		return nil
	case r == nil:
		return s.bus.Write(w)
	case w == nil:
		return s.bus.Read(r)
	default:
		return s.bus.Transfer(r, w)
	}
}

// Transfer clocks out v and returns the byte received in the same cycle.
func (s DriverSPI) Transfer(v byte) (byte, error) {
	return s.bus.TransferAndReceiveByte(v)
}
