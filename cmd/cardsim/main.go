// Command cardsim runs the ISO 7816-3 T=0 card firmware: it answers
// reset, accepts a key upload and a decrypt request, and returns the
// masked inverse AES-128 result, per the fixed session script.
//
// On linux/arm it drives a real bidirectional GPIO pin via periph.io;
// on any other platform it runs against an in-process loop-back bus so
// the firmware logic can be exercised without hardware.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ermin-sakic/smartcard-aes-fw/clock"
	"github.com/ermin-sakic/smartcard-aes-fw/entropy"
	"github.com/ermin-sakic/smartcard-aes-fw/line"
	"github.com/ermin-sakic/smartcard-aes-fw/session"
	"github.com/ermin-sakic/smartcard-aes-fw/t0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cardsim: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	keyHex := flag.String("key", "00000000000000000000000000000000", "provisioned 128-bit AES key, hex")
	resetWait := flag.Int("reset-wait-cycles", t0.MinResetWaitCycles, "card-clock cycles between reset release and ATR")
	flag.Parse()

	key, err := parseKey(*keyHex)
	if err != nil {
		return fmt.Errorf("-key: %w", err)
	}

	pin, clk, err := openPin()
	if err != nil {
		return err
	}

	l := line.New(pin)
	codec := t0.NewCodec(l, clk, clock.DefaultEtuConfig, log.Default())
	ctrl := session.New(codec, entropy.CryptoSource{}, key, *resetWait, log.Default())

	log.Println("cardsim: ready")
	return ctrl.Run(nil)
}

func parseKey(s string) ([16]byte, error) {
	var key [16]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return key, err
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("want %d bytes, got %d", len(key), len(raw))
	}
	copy(key[:], raw)
	return key, nil
}
