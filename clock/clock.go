// Package clock implements the two ETU-derived ticking sources an
// ISO 7816-3 T=0 character framer needs: a free-running Bit Clock used
// while transmitting, and a reprogrammable Sample Clock used while
// receiving.
//
// Both are modelled the way a hardware compare-match timer behaves: a
// single periodic event, delivered to exactly one registered handler,
// with start/stop controlling whether the event fires at all. On real
// silicon the handler runs in interrupt context; here it runs on its own
// goroutine so callers can poll a channel instead of a volatile flag.
package clock

import (
	"time"
)

// EtuConfig is the F/D pair negotiated (fixed, in this design, never
// renegotiated, see the PPS open question) at ATR. EtuCycles is the
// number of external card-clock cycles in one elementary time unit.
type EtuConfig struct {
	F uint16
	D uint8
}

// EtuCycles returns F/D, the number of card-clock cycles per ETU.
func (c EtuConfig) EtuCycles() int {
	if c.D == 0 {
		return int(c.F)
	}
	return int(c.F) / int(c.D)
}

// DefaultEtuConfig is the TA1=0x11 configuration advertised in the ATR:
// F-index 1 (F=372), D-index 1 (D=1).
var DefaultEtuConfig = EtuConfig{F: 372, D: 1}

// startBitSlack accounts for a start bit that a noisy reader holds low
// slightly longer than nominal before the falling edge is recognised.
// Resolves the open question in spec.md §9 about the origin of the
// "60 vs 44" sampling constants: the first sample point is placed one
// full ETU (the start bit) plus half an ETU (to land mid bit-0) past
// the edge, plus this slack, rather than a bare empirically tuned
// literal.
const startBitSlack = 6

// CardClock is the external clock the card is fed on its CLK pin,
// abstracted down to the one thing the timers need: its frequency.
type CardClock interface {
	FrequencyHz() uint32
}

// FixedCardClock is a CardClock running at a constant, known frequency.
type FixedCardClock uint32

func (f FixedCardClock) FrequencyHz() uint32 { return uint32(f) }

// Duration converts a number of card-clock cycles to a wall-clock
// duration at clk's frequency. Exported for callers (such as the ATR
// reset-wait) that need to turn a cycle count into a sleep outside the
// tick-driven timers above.
func Duration(clk CardClock, cycles int) time.Duration {
	return cyclesToDuration(clk, cycles)
}

func cyclesToDuration(clk CardClock, cycles int) time.Duration {
	freq := clk.FrequencyHz()
	if freq == 0 {
		freq = 1
	}
	return time.Duration(cycles) * time.Second / time.Duration(freq)
}

// BitClock fires one tick per ETU. All transmit timing is slaved to this
// single source so accumulated jitter over a ten-bit character stays
// well below one ETU.
type BitClock struct {
	clk     CardClock
	cfg     EtuConfig
	ticker  *time.Ticker
	stop    chan struct{}
	handler func()
}

// NewBitClock builds a Bit Clock for the given card clock and ETU
// configuration. It does not start ticking until Start is called.
func NewBitClock(clk CardClock, cfg EtuConfig) *BitClock {
	return &BitClock{clk: clk, cfg: cfg}
}

// OnTick registers the single handler invoked per tick. Must be called
// before Start; there is exactly one handler, matching the single
// compare-match interrupt vector it models.
func (b *BitClock) OnTick(h func()) { b.handler = h }

// Period is the duration of one ETU at the configured F/D and card
// clock frequency.
func (b *BitClock) Period() time.Duration {
	return cyclesToDuration(b.clk, b.cfg.EtuCycles())
}

// Start arms the timer, resetting its counter. On each compare-match it
// invokes the registered handler and auto-reloads.
func (b *BitClock) Start() {
	b.stop = make(chan struct{})
	b.ticker = time.NewTicker(b.Period())
	go b.run(b.ticker, b.stop)
}

func (b *BitClock) run(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			if h := b.handler; h != nil {
				h()
			}
		case <-stop:
			return
		}
	}
}

// Stop disarms the timer.
func (b *BitClock) Stop() {
	if b.ticker != nil {
		b.ticker.Stop()
		b.ticker = nil
	}
	if b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
}

// SampleClock has the same shape as BitClock but its period can be
// reprogrammed without stopping it, matching the two-phase scheme
// receive uses to resynchronise on every character: a long first period
// to land mid bit-0, then a steady one-ETU period for the rest.
type SampleClock struct {
	clk     CardClock
	ticker  *time.Ticker
	stop    chan struct{}
	handler func()
}

func NewSampleClock(clk CardClock) *SampleClock {
	return &SampleClock{clk: clk}
}

func (s *SampleClock) OnTick(h func()) { s.handler = h }

// StartBitPeriod returns the delay from the detected falling edge to the
// first sample point: one full ETU for the start bit itself, plus half
// an ETU to land mid bit-0, plus the documented slack.
func (s *SampleClock) StartBitPeriod(cfg EtuConfig) time.Duration {
	toFirstSample := cfg.EtuCycles() + cfg.EtuCycles()/2 + startBitSlack
	return cyclesToDuration(s.clk, toFirstSample)
}

// DataBitPeriod is the steady one-ETU period used for bits 1..7 and the
// parity bit, once the start-bit phase has resynchronised the sampler.
func (s *SampleClock) DataBitPeriod(cfg EtuConfig) time.Duration {
	return cyclesToDuration(s.clk, cfg.EtuCycles())
}

// Start arms the clock at the given period.
func (s *SampleClock) Start(period time.Duration) {
	s.stop = make(chan struct{})
	s.ticker = time.NewTicker(period)
	go s.run(s.ticker, s.stop)
}

// Reprogram changes the running period without losing the registered
// handler, as the receive path does after sampling bit 0.
func (s *SampleClock) Reprogram(period time.Duration) {
	s.Stop()
	s.Start(period)
}

func (s *SampleClock) run(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			if h := s.handler; h != nil {
				h()
			}
		case <-stop:
			return
		}
	}
}

func (s *SampleClock) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
