package apdu

import (
	"io"
	"log"
	"testing"

	"github.com/ermin-sakic/smartcard-aes-fw/clock"
	"github.com/ermin-sakic/smartcard-aes-fw/line"
	"github.com/ermin-sakic/smartcard-aes-fw/t0"
)

func newLoopbackFramers(t *testing.T) (card, term *Framer) {
	t.Helper()
	bus := line.NewBus()
	clk := clock.FixedCardClock(372_000_000)
	diag := log.New(io.Discard, "", 0)
	cardCodec := t0.NewCodec(line.New(bus.Endpoint(0)), clk, clock.DefaultEtuConfig, diag)
	termCodec := t0.NewCodec(line.New(bus.Endpoint(1)), clk, clock.DefaultEtuConfig, diag)
	return NewFramer(cardCodec), NewFramer(termCodec)
}

func TestReceiveHeaderRoundTrip(t *testing.T) {
	card, term := newLoopbackFramers(t)
	want := [5]byte{0x00, 0xd8, 0x01, 0x02, 0x10}

	errc := make(chan error, 1)
	go func() {
		for _, b := range want {
			if err := term.codec.TransmitByte(b); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()

	hdr, err := card.ReceiveHeader()
	if err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}

	got := Header{CLA: want[0], INS: want[1], P1: want[2], P2: want[3], P3: want[4]}
	if hdr != got {
		t.Fatalf("ReceiveHeader = %+v, want %+v", hdr, got)
	}
}

func TestSendStatusRoundTrip(t *testing.T) {
	card, term := newLoopbackFramers(t)

	errc := make(chan error, 1)
	go func() { errc <- card.SendStatus(StatusSuccess) }()

	var got [2]byte
	for i := range got {
		b, err := term.ReceiveByte()
		if err != nil {
			t.Fatal(err)
		}
		got[i] = b
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if got != StatusSuccess {
		t.Fatalf("received status %x, want %x", got, StatusSuccess)
	}
}

func TestSendProcedureByteRoundTrip(t *testing.T) {
	card, term := newLoopbackFramers(t)

	errc := make(chan error, 1)
	go func() { errc <- card.SendProcedureByte(DecryptProcedureByte) }()

	got, err := term.ReceiveByte()
	if err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
	if got != DecryptProcedureByte {
		t.Fatalf("received procedure byte %#02x, want %#02x", got, DecryptProcedureByte)
	}
}
