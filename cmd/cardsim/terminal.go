package main

import (
	"fmt"
	"io"
	"log"

	"github.com/ermin-sakic/smartcard-aes-fw/clock"
	"github.com/ermin-sakic/smartcard-aes-fw/line"
	"github.com/ermin-sakic/smartcard-aes-fw/t0"
)

// demoKeyUploadAPDU and demoDecryptAPDU are the two command headers the
// simulated terminal sends; the card never inspects CLA/INS (spec.md
// §4.5), so their exact values only need to be stable across the run.
var (
	demoKeyUploadAPDU = [5]byte{0x00, 0xD8, 0x00, 0x00, 0x10}
	demoDecryptAPDU   = [5]byte{0x00, 0xD0, 0x00, 0x00, 0x10}
)

// demoKey is the 128-bit value the simulated terminal uploads, byte by
// byte, in response to each key-upload handshake byte.
var demoKey = [16]byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
}

// terminal plays the reader side of the fixed session script over the
// same character codec the card uses, so the host-simulator build
// exercises the whole stack end to end without hardware.
type terminal struct {
	codec *t0.Codec
}

func newTerminal(pin line.Pin, clk clock.CardClock) *terminal {
	return &terminal{
		codec: t0.NewCodec(line.New(pin), clk, clock.DefaultEtuConfig, log.New(io.Discard, "", 0)),
	}
}

// Run plays one pass of the script from the terminal's side: receive
// ATR, upload a key, receive the masked decrypt result, and log it.
func (t *terminal) Run() error {
	var atr [4]byte
	for i := range atr {
		b, _, err := t.codec.ReceiveByte()
		if err != nil {
			return fmt.Errorf("terminal: ATR byte %d: %w", i, err)
		}
		atr[i] = b
	}
	log.Printf("cardsim: terminal observed ATR % x", atr)

	if err := t.sendHeader(demoKeyUploadAPDU); err != nil {
		return fmt.Errorf("terminal: key-upload header: %w", err)
	}
	for i, kb := range demoKey {
		if _, _, err := t.codec.ReceiveByte(); err != nil { // handshake byte
			return fmt.Errorf("terminal: handshake byte %d: %w", i, err)
		}
		if err := t.codec.TransmitByte(kb); err != nil {
			return fmt.Errorf("terminal: key byte %d: %w", i, err)
		}
	}
	if err := t.receiveStatus(); err != nil {
		return fmt.Errorf("terminal: status after key upload: %w", err)
	}

	if err := t.sendHeader(demoDecryptAPDU); err != nil {
		return fmt.Errorf("terminal: decrypt header: %w", err)
	}
	if _, _, err := t.codec.ReceiveByte(); err != nil { // procedure byte
		return fmt.Errorf("terminal: procedure byte: %w", err)
	}
	var result [16]byte
	for i := range result {
		b, _, err := t.codec.ReceiveByte()
		if err != nil {
			return fmt.Errorf("terminal: result byte %d: %w", i, err)
		}
		result[i] = b
	}
	if err := t.receiveStatus(); err != nil {
		return fmt.Errorf("terminal: status after decrypt: %w", err)
	}

	log.Printf("cardsim: terminal received decrypt result % x", result)
	return nil
}

func (t *terminal) sendHeader(hdr [5]byte) error {
	for _, b := range hdr {
		if err := t.codec.TransmitByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (t *terminal) receiveStatus() error {
	for i := 0; i < 2; i++ {
		if _, _, err := t.codec.ReceiveByte(); err != nil {
			return err
		}
	}
	return nil
}
