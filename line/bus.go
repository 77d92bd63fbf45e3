package line

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Bus is a software loop-back of the single bidirectional I/O line: two
// Endpoints share one wired line with an implicit pull-up, exactly as
// the real pin behaves when either side can drive it low or release it.
// It backs the host-simulator build of cmd/cardsim and the package
// tests, the way driver/mjolnir's Simulator stands in for real hardware
// in the teacher repo.
type Bus struct {
	mu       sync.Mutex
	driving  [2]bool
	level    [2]gpio.Level
	waiters  []chan struct{}
	lastEdge gpio.Level
}

// NewBus creates a fresh idle-high bus with both sides released.
func NewBus() *Bus {
	b := &Bus{lastEdge: gpio.High}
	b.level[0], b.level[1] = gpio.High, gpio.High
	return b
}

// Endpoint returns one of the bus's two Pin views. By convention side 0
// is the card, side 1 the terminal.
func (b *Bus) Endpoint(side int) *Endpoint {
	return &Endpoint{bus: b, side: side}
}

func (b *Bus) resolvedLocked() gpio.Level {
	for i := range b.driving {
		if b.driving[i] && b.level[i] == gpio.Low {
			return gpio.Low
		}
	}
	return gpio.High
}

func (b *Bus) notifyLocked() {
	lvl := b.resolvedLocked()
	if lvl == b.lastEdge {
		return
	}
	b.lastEdge = lvl
	for _, w := range b.waiters {
		close(w)
	}
	b.waiters = nil
}

// Endpoint is one side of a Bus; it implements Pin.
type Endpoint struct {
	bus  *Bus
	side int
}

func (e *Endpoint) In(gpio.Pull, gpio.Edge) error {
	e.bus.mu.Lock()
	defer e.bus.mu.Unlock()
	e.bus.driving[e.side] = false
	e.bus.notifyLocked()
	return nil
}

func (e *Endpoint) Out(l gpio.Level) error {
	e.bus.mu.Lock()
	defer e.bus.mu.Unlock()
	e.bus.driving[e.side] = true
	e.bus.level[e.side] = l
	e.bus.notifyLocked()
	return nil
}

func (e *Endpoint) Read() gpio.Level {
	e.bus.mu.Lock()
	defer e.bus.mu.Unlock()
	return e.bus.resolvedLocked()
}

// WaitForEdge blocks until the resolved line level changes, or timeout
// elapses. A negative timeout blocks forever, matching periph.io's
// convention for gpio.PinIn.WaitForEdge.
func (e *Endpoint) WaitForEdge(timeout time.Duration) bool {
	e.bus.mu.Lock()
	ch := make(chan struct{})
	e.bus.waiters = append(e.bus.waiters, ch)
	e.bus.mu.Unlock()

	if timeout < 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
