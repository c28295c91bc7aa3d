// spi/spitest/transport.go
//
// Package spitest provides spi.Transport implementations for tests and
// host-side tooling.
package spitest

import (
	"errors"

	"spihal-go/spi"
)

// Compile-time checks.
var (
	_ spi.Transport = (*Transport)(nil)
	_ spi.Transport = (*Echo)(nil)
)

// Call records one transport invocation: the operation name and how many
// bytes it moved.
type Call struct {
	Op string
	N  int
}

// Transport is an injectable fake: set the func fields you care about and
// leave the rest nil for default success (reads zero-fill, transfers copy
// tx into rx). Every invocation is appended to Calls so tests can assert
// order and count.
type Transport struct {
	ReadFunc     func(p []byte) error
	WriteFunc    func(p []byte) error
	TransferFunc func(rx, tx []byte) error

	Calls []Call
}

func (t *Transport) Read(p []byte) error {
	t.Calls = append(t.Calls, Call{Op: "read", N: len(p)})
	if t.ReadFunc != nil {
		return t.ReadFunc(p)
	}
	for i := range p {
		p[i] = 0
	}
	return nil
}

func (t *Transport) Write(p []byte) error {
	t.Calls = append(t.Calls, Call{Op: "write", N: len(p)})
	if t.WriteFunc != nil {
		return t.WriteFunc(p)
	}
	return nil
}

func (t *Transport) Transfer(rx, tx []byte) error {
	t.Calls = append(t.Calls, Call{Op: "transfer", N: len(tx)})
	if t.TransferFunc != nil {
		return t.TransferFunc(rx, tx)
	}
	copy(rx, tx)
	return nil
}

// ErrLengthMismatch is Echo's transfer failure for unequal buffer sizes,
// standing in for a real transport's own size rule.
var ErrLengthMismatch = errors.New("spitest: transfer length mismatch")

// Echo is a deterministic loopback: Transfer reflects tx into rx, Read
// fills from a repeating pattern, Write records each frame.
type Echo struct {
	// Pattern feeds Read; empty means zero-fill.
	Pattern []byte
	// Written collects every frame passed to Write, oldest first.
	Written [][]byte

	pos int
}

func (e *Echo) Read(p []byte) error {
	if len(e.Pattern) == 0 {
		for i := range p {
			p[i] = 0
		}
		return nil
	}
	for i := range p {
		p[i] = e.Pattern[e.pos]
		e.pos = (e.pos + 1) % len(e.Pattern)
	}
	return nil
}

func (e *Echo) Write(p []byte) error {
	e.Written = append(e.Written, append([]byte(nil), p...))
	return nil
}

func (e *Echo) Transfer(rx, tx []byte) error {
	if len(rx) != len(tx) {
		return ErrLengthMismatch
	}
	copy(rx, tx)
	return nil
}
