// Package line drives the single bidirectional I/O pin of the ISO 7816-3
// interface: idle-high, open-drain-style convention, with the direction
// switching between output (card drives) and input (card reads, relying
// on the terminal's pull-up).
package line

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Pin is the subset of periph.io/x/conn/v3/gpio.PinIO that a Driver
// needs. Any real gpio.PinIO (bcm283x.GPIO*, and friends) satisfies it
// already; it is narrowed here so a software loopback pin used for
// testing and the host simulator build does not have to implement the
// rest of PinIO's surface (Halt, Number, Name, Function, Pull, PWM, …).
type Pin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	Out(l gpio.Level) error
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// Driver owns the bidirectional I/O line. The pin is always left
// idle-high when control returns to the caller, in either direction.
type Driver struct {
	pin Pin
}

// New wraps a GPIO pin as the card's I/O line.
func New(pin Pin) *Driver {
	return &Driver{pin: pin}
}

// SetOutput puts the pin into push-pull output mode, idle-high.
func (d *Driver) SetOutput() error {
	if err := d.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("line: set output: %w", err)
	}
	return nil
}

// SetInput releases the line to the external pull-up and arms edge
// detection on both edges so callers can wait for the start-bit's
// falling edge.
func (d *Driver) SetInput() error {
	if err := d.pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return fmt.Errorf("line: set input: %w", err)
	}
	return nil
}

// Write drives the line to 0 or 1. The caller must have called
// SetOutput first.
func (d *Driver) Write(bit int) error {
	level := gpio.Low
	if bit != 0 {
		level = gpio.High
	}
	if err := d.pin.Out(level); err != nil {
		return fmt.Errorf("line: write: %w", err)
	}
	return nil
}

// Read samples the line. The caller must have called SetInput first.
func (d *Driver) Read() int {
	if d.pin.Read() == gpio.High {
		return 1
	}
	return 0
}

// WaitForFallingEdge blocks until a falling edge is observed; it has no
// timeout and waits indefinitely. It is the hardware equivalent of
// the pin-change interrupt that catches the start bit: on return the
// edge source has already latched, mirroring the handler that disables
// itself immediately to prevent re-entry.
func (d *Driver) WaitForFallingEdge() bool {
	for {
		if !d.pin.WaitForEdge(-1) {
			return false
		}
		if d.pin.Read() == gpio.Low {
			return true
		}
	}
}
