//go:build linux && arm

package main

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"

	"github.com/ermin-sakic/smartcard-aes-fw/clock"
	"github.com/ermin-sakic/smartcard-aes-fw/line"
)

// cardClockHz is the external clock this firmware expects on CLK: at
// the default F=372, D=1 configuration a 372-cycle ETU at this
// frequency gives the standard ~9600 effective T=0 bit rate smart-card
// readers assume absent a PPS negotiation.
const cardClockHz = 3579545

// ioPin is the GPIO the card's single bidirectional I/O line is wired
// to on the reference carrier board.
var ioPin = bcm283x.GPIO4

func openPin() (line.Pin, clock.CardClock, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("cardsim: periph host init: %w", err)
	}
	if err := ioPin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, nil, fmt.Errorf("cardsim: claim I/O pin: %w", err)
	}
	return ioPin, clock.FixedCardClock(cardClockHz), nil
}
