// Package apdu implements the fixed-shape ISO 7816-4 APDU header and the
// framer that reads/writes APDU-level bytes through a t0.Codec: headers,
// the procedure byte, status words and bulk data. It does not interpret
// CLA/INS (spec.md §4.5 keeps that semantics in the Session Controller).
package apdu

import (
	"fmt"

	"github.com/ermin-sakic/smartcard-aes-fw/t0"
)

// Header is the 5-byte command APDU header this card ever sees: CLA,
// INS, P1, P2 and P3 (the short-form Lc/Le slot; the session script
// does not read it and always exchanges 16 data bytes).
type Header struct {
	CLA, INS, P1, P2, P3 byte
}

// Well-known bytes of the fixed session script (spec.md §4.5, §6).
const (
	KeyUploadHandshakeByte = 0xEF
	DecryptProcedureByte   = 0xC0
)

// Status words sent at the two points the session protocol defines one.
var (
	StatusMoreData = [2]byte{0x61, 0x10}
	StatusSuccess  = [2]byte{0x90, 0x00}
)

// Framer reads and writes APDU-shaped data through a Byte Codec.
type Framer struct {
	codec *t0.Codec
}

// NewFramer wraps a Byte Codec as an APDU Framer.
func NewFramer(codec *t0.Codec) *Framer {
	return &Framer{codec: codec}
}

// ReceiveHeader reads the fixed 5-byte command header. Parity faults on
// any of the five bytes are reported by the underlying codec and do not
// stop the read (spec.md §7 leaves protocol-sequence violations and
// parity faults both unacted-upon).
func (f *Framer) ReceiveHeader() (Header, error) {
	var raw [5]byte
	for i := range raw {
		b, _, err := f.codec.ReceiveByte()
		if err != nil {
			return Header{}, fmt.Errorf("apdu: receive header byte %d: %w", i, err)
		}
		raw[i] = b
	}
	return Header{CLA: raw[0], INS: raw[1], P1: raw[2], P2: raw[3], P3: raw[4]}, nil
}

// ReceiveByte reads a single APDU data byte, ignoring its parity result
// (the caller is the Session Controller, which logs faults via the
// codec but does not otherwise react to them).
func (f *Framer) ReceiveByte() (byte, error) {
	b, _, err := f.codec.ReceiveByte()
	return b, err
}

// SendByte writes a single byte through the codec.
func (f *Framer) SendByte(b byte) error {
	return f.codec.TransmitByte(b)
}

// SendBytes writes each byte of data in order.
func (f *Framer) SendBytes(data []byte) error {
	for _, b := range data {
		if err := f.codec.TransmitByte(b); err != nil {
			return err
		}
	}
	return nil
}

// SendStatus transmits a two-byte status word (SW1, SW2).
func (f *Framer) SendStatus(sw [2]byte) error {
	return f.SendBytes(sw[:])
}

// SendProcedureByte transmits the single procedure byte that precedes a
// card-to-terminal data payload.
func (f *Framer) SendProcedureByte(pb byte) error {
	return f.codec.TransmitByte(pb)
}
