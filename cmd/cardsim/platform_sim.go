//go:build !(linux && arm)

package main

import (
	"log"

	"github.com/ermin-sakic/smartcard-aes-fw/clock"
	"github.com/ermin-sakic/smartcard-aes-fw/line"
)

// simCardClockHz is an arbitrary but fast card clock used for the
// host-simulator build, fast enough that a full session completes in
// well under a second of wall-clock time.
const simCardClockHz = 4_000_000

// openPin wires the card side of an in-process loop-back Bus and
// starts a goroutine driving the terminal side through the same fixed
// two-APDU dialogue a real reader would, so `cardsim` is runnable (and
// its output observable) without any hardware attached.
func openPin() (line.Pin, clock.CardClock, error) {
	bus := line.NewBus()
	clk := clock.FixedCardClock(simCardClockHz)
	go runSimulatedTerminal(bus.Endpoint(1), clk)
	return bus.Endpoint(0), clk, nil
}

func runSimulatedTerminal(pin line.Pin, clk clock.CardClock) {
	term := newTerminal(pin, clk)
	if err := term.Run(); err != nil {
		log.Printf("cardsim: simulated terminal: %v", err)
	}
}
