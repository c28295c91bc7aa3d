// cmd/spi-selftest/main.go
//
// Interactive exerciser for the spi adaptation layer against the echo
// transport. Useful for poking at the bus/device surfaces from a host
// machine without hardware.
//
//	$ go run ./cmd/spi-selftest
//	spi> write 01 02 03
//	spi> xfer de ad be ef
//	rx: deadbeef
//	spi> tx write:0600 delay:500 read:4
//	ok (3 steps)
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"spihal-go/spi"
	"spihal-go/spi/spitest"
	"spihal-go/x/mathx"
)

const maxReadLen = 4096

func main() {
	pattern := flag.String("pattern", "a5", "hex byte pattern the echo transport feeds to reads")
	flag.Parse()

	fill, err := hex.DecodeString(*pattern)
	if err != nil || len(fill) == 0 {
		fmt.Fprintln(os.Stderr, "bad -pattern, want hex bytes")
		os.Exit(1)
	}

	echo := &spitest.Echo{Pattern: fill}
	bus := spi.New(echo)
	dev := spi.NewDevice(bus)

	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("spi> ")
	for sc.Scan() {
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Println("parse error:", err)
			fmt.Print("spi> ")
			continue
		}
		if len(args) == 0 {
			fmt.Print("spi> ")
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		run(bus, dev, args)
		fmt.Print("spi> ")
	}
}

func run(bus *spi.Bus, dev *spi.Device, args []string) {
	switch args[0] {
	case "write":
		p, err := parseBytes(args[1:])
		if err != nil {
			fmt.Println(err)
			return
		}
		report(bus.Write(p), nil)
	case "read":
		n := parseLen(args[1:])
		p := make([]byte, n)
		report(bus.Read(p), p)
	case "xfer":
		tx, err := parseBytes(args[1:])
		if err != nil {
			fmt.Println(err)
			return
		}
		rx := make([]byte, len(tx))
		report(bus.Transfer(rx, tx), rx)
	case "inplace":
		p, err := parseBytes(args[1:])
		if err != nil {
			fmt.Println(err)
			return
		}
		report(bus.TransferInPlace(p), p)
	case "byte":
		p, err := parseBytes(args[1:])
		if err != nil || len(p) != 1 {
			fmt.Println("usage: byte <xx>")
			return
		}
		got, err := bus.TransferAndReceiveByte(p[0])
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("rx: %02x\n", got)
	case "tx":
		ops, bufs, err := parseOps(args[1:])
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := dev.Transaction(ops...); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("ok (%d steps)\n", len(ops))
		for _, b := range bufs {
			fmt.Printf("rx: %s\n", hex.EncodeToString(b))
		}
	case "help":
		fmt.Println("commands: write <hex...> | read <n> | xfer <hex...> | inplace <hex...> | byte <xx> | tx <step...> | quit")
		fmt.Println("tx steps: write:<hex> read:<n> xfer:<hex> inplace:<hex> delay:<us>")
	default:
		fmt.Println("unknown command (try: help)")
	}
}

func report(err error, rx []byte) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if rx != nil {
		fmt.Printf("rx: %s\n", hex.EncodeToString(rx))
		return
	}
	fmt.Println("ok")
}

// parseBytes accepts hex tokens, with or without spacing: "de ad" or "dead".
func parseBytes(args []string) ([]byte, error) {
	p, err := hex.DecodeString(strings.Join(args, ""))
	if err != nil {
		return nil, fmt.Errorf("bad hex: %v", err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("no data")
	}
	return p, nil
}

func parseLen(args []string) int {
	if len(args) == 0 {
		return 1
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 1
	}
	return mathx.Clamp(n, 1, maxReadLen)
}

// parseOps turns "write:0600 delay:500 read:4" into a transaction. Buffers
// that receive data are also returned so results can be printed.
func parseOps(args []string) ([]spi.Operation, [][]byte, error) {
	var ops []spi.Operation
	var bufs [][]byte
	for _, a := range args {
		kind, arg, ok := strings.Cut(a, ":")
		if !ok {
			return nil, nil, fmt.Errorf("bad step %q, want kind:arg", a)
		}
		switch kind {
		case "write":
			p, err := hex.DecodeString(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("step %q: bad hex", a)
			}
			ops = append(ops, spi.Write(p))
		case "read":
			n, err := strconv.Atoi(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("step %q: bad length", a)
			}
			p := make([]byte, mathx.Clamp(n, 1, maxReadLen))
			ops = append(ops, spi.Read(p))
			bufs = append(bufs, p)
		case "xfer":
			tx, err := hex.DecodeString(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("step %q: bad hex", a)
			}
			rx := make([]byte, len(tx))
			ops = append(ops, spi.Transfer(rx, tx))
			bufs = append(bufs, rx)
		case "inplace":
			p, err := hex.DecodeString(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("step %q: bad hex", a)
			}
			ops = append(ops, spi.TransferInPlace(p))
			bufs = append(bufs, p)
		case "delay":
			us, err := strconv.ParseUint(arg, 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("step %q: bad duration", a)
			}
			ops = append(ops, spi.DelayUs(uint32(us)))
		default:
			return nil, nil, fmt.Errorf("unknown step kind %q", kind)
		}
	}
	return ops, bufs, nil
}
