// Package at25 drives 25-series SPI EEPROMs (25AA/25LC512, 25xx1024 and
// compatible parts) through spi.Device transactions.
//
// Each command is one transaction, so the transport is expected to frame a
// transaction under one chip-select assertion. The select line itself is
// managed below this layer, alongside the rest of the bus setup.
package at25

import (
	"errors"
	"time"

	"spihal-go/spi"
	"spihal-go/x/mathx"
)

// Instruction set (datasheet Table 3-1).
const (
	cmdRead  = 0x03 // READ
	cmdWrite = 0x02 // WRITE
	cmdWREN  = 0x06 // set write-enable latch
	cmdRDSR  = 0x05 // read STATUS register

	statusWIP = 0x01 // STATUS bit 0, write-in-progress
)

// Errors returned by the driver.
var (
	ErrOutOfRange   = errors.New("at25: address out of range")
	ErrWriteTimeout = errors.New("at25: write timeout")
)

// Config controls geometry and write-poll behaviour. All fields are
// optional; zero values take the defaults below.
type Config struct {
	// PageSize in bytes. Default 256.
	PageSize int
	// Capacity in bytes. Default 128 KiB (1 Mbit).
	Capacity int
	// WriteTimeout bounds the status poll after a page write. Default 10 ms.
	WriteTimeout time.Duration
	// PollIntervalUs is the delay between status polls. Default 500 µs.
	PollIntervalUs uint32
}

// Device is an EEPROM bound to one spi.Device.
type Device struct {
	dev *spi.Device
	cfg Config
}

// New binds the driver to dev and applies optional config. Only the Device
// object is created; the chip is not touched.
func New(dev *spi.Device, cfgs ...Config) *Device {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.PageSize <= 0 {
		c.PageSize = 256
	}
	if c.Capacity <= 0 {
		c.Capacity = 128 * 1024
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Millisecond
	}
	if c.PollIntervalUs == 0 {
		c.PollIntervalUs = 500
	}
	return &Device{dev: dev, cfg: c}
}

// ReadAt fills buf starting at addr. The chip auto-increments across page
// boundaries on read, so one transaction covers any length.
func (d *Device) ReadAt(addr uint32, buf []byte) error {
	if int(addr)+len(buf) > d.cfg.Capacity {
		return ErrOutOfRange
	}
	hdr := [4]byte{cmdRead, byte(addr >> 16), byte(addr >> 8), byte(addr)}
	return d.dev.Transaction(
		spi.Write(hdr[:]),
		spi.Read(buf),
	)
}

// WriteAt programs data starting at addr, splitting on page boundaries.
// Each page is write-enabled, programmed, then polled until the chip clears
// the write-in-progress bit or WriteTimeout elapses.
func (d *Device) WriteAt(addr uint32, data []byte) error {
	if int(addr)+len(data) > d.cfg.Capacity {
		return ErrOutOfRange
	}
	for len(data) > 0 {
		room := d.cfg.PageSize - int(addr)%d.cfg.PageSize
		n := mathx.Min(room, len(data))
		if err := d.writePage(addr, data[:n]); err != nil {
			return err
		}
		addr += uint32(n)
		data = data[n:]
	}
	return nil
}

func (d *Device) writePage(addr uint32, data []byte) error {
	// WREN must complete as its own command before the page write.
	if err := d.dev.Write([]byte{cmdWREN}); err != nil {
		return err
	}

	frame := make([]byte, 0, 4+len(data))
	frame = append(frame, cmdWrite, byte(addr>>16), byte(addr>>8), byte(addr))
	frame = append(frame, data...)
	if err := d.dev.Transaction(
		spi.Write(frame),
		spi.DelayUs(d.cfg.PollIntervalUs),
	); err != nil {
		return err
	}
	return d.waitReady()
}

// waitReady polls STATUS until WIP clears.
func (d *Device) waitReady() error {
	polls := int(d.cfg.WriteTimeout / (time.Duration(d.cfg.PollIntervalUs) * time.Microsecond))
	if polls < 1 {
		polls = 1
	}
	for i := 0; i < polls; i++ {
		var rx [2]byte
		tx := [2]byte{cmdRDSR, 0}
		if err := d.dev.Transaction(spi.Transfer(rx[:], tx[:])); err != nil {
			return err
		}
		if rx[1]&statusWIP == 0 {
			return nil
		}
		if err := d.dev.Transaction(spi.DelayUs(d.cfg.PollIntervalUs)); err != nil {
			return err
		}
	}
	return ErrWriteTimeout
}
