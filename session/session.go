// Package session drives the fixed high-level script spec.md §4.5
// describes: ATR, a key-upload command, a 16-byte key handshake, a
// decrypt command, and the masked inverse AES-128 result, on repeat
// until the caller's stop channel is closed (checked only between
// sessions); a session in progress has no cancellation or timeout
// (spec.md §5: "a stalled terminal wedges the card indefinitely;
// recovery is by hardware reset").
package session

import (
	"log"

	"github.com/ermin-sakic/smartcard-aes-fw/apdu"
	"github.com/ermin-sakic/smartcard-aes-fw/entropy"
	"github.com/ermin-sakic/smartcard-aes-fw/maskedaes"
	"github.com/ermin-sakic/smartcard-aes-fw/t0"
)

// Controller runs the fixed session script over a Byte Codec. It does
// not interpret CLA/INS: the script below is the only protocol logic.
type Controller struct {
	codec           *t0.Codec
	framer          *apdu.Framer
	src             entropy.Source
	rk              maskedaes.RoundKeys
	resetWaitCycles int
	diag            *log.Logger
}

// New builds a Session Controller. key is the provisioned 128-bit AES
// key the masked core decrypts against; resetWaitCycles is the delay
// between reset release and the first ATR character, and must satisfy
// t0.MinResetWaitCycles..t0.MaxResetWaitCycles.
func New(codec *t0.Codec, src entropy.Source, key [16]byte, resetWaitCycles int, diag *log.Logger) *Controller {
	if diag == nil {
		diag = log.Default()
	}
	return &Controller{
		codec:           codec,
		framer:          apdu.NewFramer(codec),
		src:             src,
		rk:              maskedaes.ExpandKey128(key),
		resetWaitCycles: resetWaitCycles,
		diag:            diag,
	}
}

// RunSession executes one full pass of the script in spec.md §4.5,
// steps 1 through 9.
func (c *Controller) RunSession() error {
	if err := c.codec.TransmitATR(c.resetWaitCycles); err != nil {
		return err
	}

	if _, err := c.framer.ReceiveHeader(); err != nil { // APDU1: key upload request
		return err
	}

	var keyBuffer [16]byte
	for i := range keyBuffer {
		if err := c.framer.SendByte(apdu.KeyUploadHandshakeByte); err != nil {
			return err
		}
		b, err := c.framer.ReceiveByte()
		if err != nil {
			return err
		}
		keyBuffer[i] = b
	}

	if err := c.framer.SendStatus(apdu.StatusMoreData); err != nil {
		return err
	}

	if _, err := c.framer.ReceiveHeader(); err != nil { // APDU2: decrypt request
		return err
	}

	if err := c.framer.SendProcedureByte(apdu.DecryptProcedureByte); err != nil {
		return err
	}

	result := maskedaes.InvAES128Masked(keyBuffer, c.rk, c.src)

	if err := c.framer.SendBytes(result[:]); err != nil {
		return err
	}

	return c.framer.SendStatus(apdu.StatusSuccess)
}

// Run executes RunSession in a loop until stop is closed or a session
// returns an error. There is no per-session timeout: spec.md §5
// documents that recovery from a stalled terminal is by reset only.
func (c *Controller) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		if err := c.RunSession(); err != nil {
			return err
		}
	}
}
