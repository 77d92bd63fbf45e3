// Package t0 implements the ISO 7816-3 T=0 character codec: one
// framed byte at a time over line.Driver, clocked by clock.BitClock on
// transmit and clock.SampleClock on receive, plus the four-byte ATR
// this card answers reset with.
package t0

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ermin-sakic/smartcard-aes-fw/clock"
	"github.com/ermin-sakic/smartcard-aes-fw/line"
)

// ParityPolicy selects what the receive path does with a parity fault.
// ParityPolicyLogOnly is the only value implemented: spec.md leaves the
// ISO 7816-3 NACK-and-retransmit mechanism out, and whether that is
// intentional is recorded as an open question rather than guessed at
// (see SPEC_FULL.md). The type exists so that resolution is visible
// rather than a silent gap.
type ParityPolicy int

const (
	ParityPolicyLogOnly ParityPolicy = iota
)

// guardETUs is the number of idle-high ETUs a transmitted character is
// followed by (spec.md §4.4 step 4: "wait four ticks of guard").
const guardETUs = 4

// ATR is the fixed Answer-to-Reset: TS (direct convention), T0 (TA1+TD1
// present, no historical bytes), TA1 (F=372, D=1), TD1 (protocol T=0,
// no further interface bytes).
var ATR = [4]byte{0x3B, 0x90, 0x11, 0x00}

// Reset-wait window from spec.md §4.4/§8 S1: the card must answer reset
// within this many card-clock cycles of reset release.
const (
	MinResetWaitCycles = 400
	MaxResetWaitCycles = 40000
)

// Codec frames single ISO 7816-3 T=0 characters over a line.Driver,
// timed by a Bit Clock (transmit) and Sample Clock (receive).
type Codec struct {
	line   *line.Driver
	clk    clock.CardClock
	bit    *clock.BitClock
	sample *clock.SampleClock
	cfg    clock.EtuConfig
	diag   *log.Logger
	policy ParityPolicy
}

// NewCodec builds a Byte Codec over the given line, card clock and ETU
// configuration. diag receives parity-fault diagnostics; if nil,
// log.Default() is used, matching the teacher's convention of always
// having a usable logger.
func NewCodec(l *line.Driver, clk clock.CardClock, cfg clock.EtuConfig, diag *log.Logger) *Codec {
	if diag == nil {
		diag = log.Default()
	}
	return &Codec{
		line:   l,
		clk:    clk,
		bit:    clock.NewBitClock(clk, cfg),
		sample: clock.NewSampleClock(clk),
		cfg:    cfg,
		diag:   diag,
		policy: ParityPolicyLogOnly,
	}
}

// TransmitByte sends one character: start bit, 8 data bits LSB-first,
// even parity, then the guard idle. Preconditions: none (the codec
// switches the line to output itself).
func (c *Codec) TransmitByte(b byte) error {
	if err := c.line.SetOutput(); err != nil {
		return err
	}
	tick := make(chan struct{}, 1)
	c.bit.OnTick(func() {
		select {
		case tick <- struct{}{}:
		default:
		}
	})
	c.bit.Start()
	defer c.bit.Stop()

	wait := func() { <-tick }
	ch := NewCharacter(b)

	if err := c.line.Write(0); err != nil { // start bit
		return err
	}
	wait()
	for i := 0; i < 8; i++ {
		bit := int((ch.Data >> uint(i)) & 1)
		if err := c.line.Write(bit); err != nil {
			return err
		}
		wait()
	}
	if err := c.line.Write(ch.ParityBit()); err != nil {
		return err
	}
	wait()
	if err := c.line.Write(1); err != nil { // idle high
		return err
	}
	for i := 0; i < guardETUs; i++ {
		wait()
	}
	return nil
}

// ReceiveByte waits for a start bit and samples one character, returning
// the byte and whether its parity checked out. Preconditions: none (the
// codec switches the line to input itself). On a parity fault the
// byte is still returned (spec.md §4.4, §7): the ISO 7816-3 NACK
// mechanism is not implemented.
func (c *Codec) ReceiveByte() (byte, bool, error) {
	if err := c.line.SetInput(); err != nil {
		return 0, false, err
	}
	if !c.line.WaitForFallingEdge() {
		return 0, false, errors.New("t0: receive: no start-bit edge observed")
	}

	tick := make(chan struct{}, 1)
	c.sample.OnTick(func() {
		select {
		case tick <- struct{}{}:
		default:
		}
	})
	c.sample.Start(c.sample.StartBitPeriod(c.cfg))
	defer c.sample.Stop()

	<-tick
	bit0 := c.line.Read()
	c.sample.Reprogram(c.sample.DataBitPeriod(c.cfg))

	var b byte
	ones := 0
	if bit0 != 0 {
		b |= 1
		ones++
	}
	for i := 1; i < 8; i++ {
		<-tick
		bit := c.line.Read()
		if bit != 0 {
			b |= 1 << uint(i)
			ones++
		}
	}
	<-tick
	parityBit := c.line.Read()
	ones += parityBit

	parityOK := ones%2 == 0
	if !parityOK {
		c.diag.Printf("t0: Parity error receiving byte %#02x", b)
	}
	return b, parityOK, nil
}

// TransmitATR waits resetWaitCycles card-clock cycles from reset
// release, then emits the four ATR characters. resetWaitCycles must lie
// within [MinResetWaitCycles, MaxResetWaitCycles].
func (c *Codec) TransmitATR(resetWaitCycles int) error {
	if resetWaitCycles < MinResetWaitCycles || resetWaitCycles > MaxResetWaitCycles {
		return fmt.Errorf("t0: ATR reset wait %d cycles out of [%d,%d]", resetWaitCycles, MinResetWaitCycles, MaxResetWaitCycles)
	}
	if err := c.line.SetOutput(); err != nil {
		return err
	}
	time.Sleep(clock.Duration(c.clk, resetWaitCycles))
	for _, ch := range ATR {
		if err := c.TransmitByte(ch); err != nil {
			return fmt.Errorf("t0: ATR: %w", err)
		}
	}
	return nil
}
