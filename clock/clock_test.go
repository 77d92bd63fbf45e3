package clock

import "testing"

func TestEtuCycles(t *testing.T) {
	cfg := DefaultEtuConfig
	if got, want := cfg.EtuCycles(), 372; got != want {
		t.Fatalf("EtuCycles() = %d, want %d", got, want)
	}
}

func TestDuration(t *testing.T) {
	clk := FixedCardClock(372) // 1 Hz ETU at F=372
	cfg := DefaultEtuConfig
	got := Duration(clk, cfg.EtuCycles())
	if got.Seconds() != 1 {
		t.Fatalf("Duration = %v, want 1s", got)
	}
}

func TestSampleClockPeriods(t *testing.T) {
	clk := FixedCardClock(372_000)
	sc := NewSampleClock(clk)
	cfg := DefaultEtuConfig

	// Default F=372, D=1 gives 372+186+6 = 564 cycles to the first
	// sample (one full ETU for the start bit, half an ETU to land mid
	// bit-0, plus the documented slack).
	wantStart := Duration(clk, cfg.EtuCycles()+cfg.EtuCycles()/2+startBitSlack)
	if got := sc.StartBitPeriod(cfg); got != wantStart {
		t.Fatalf("StartBitPeriod = %v, want %v", got, wantStart)
	}
	wantData := Duration(clk, cfg.EtuCycles())
	if got := sc.DataBitPeriod(cfg); got != wantData {
		t.Fatalf("DataBitPeriod = %v, want %v", got, wantData)
	}
}

func TestBitClockTicks(t *testing.T) {
	clk := FixedCardClock(372_000_000) // fast clock so the test is quick
	cfg := DefaultEtuConfig
	bc := NewBitClock(clk, cfg)

	ticks := make(chan struct{}, 8)
	bc.OnTick(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	bc.Start()
	defer bc.Stop()

	for i := 0; i < 3; i++ {
		<-ticks
	}
}
