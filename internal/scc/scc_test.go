package scc

import "testing"

func TestReadRR0ReportsIdle(t *testing.T) {
	s := New(Callbacks{})
	if got := s.Read(0); got != rr0TxEmptyNoRx {
		t.Fatalf("RR0 = %02x, want %02x", got, rr0TxEmptyNoRx)
	}
}

func TestWriteClearsInterrupt(t *testing.T) {
	var asserted bool
	s := New(Callbacks{IRQSet: func(a bool) { asserted = a }})
	s.irqPend = true
	asserted = true

	s.Write(0, 0x10) // reset-highest-IUS command
	if asserted {
		t.Fatalf("IRQSet not called with false after interrupt-clear write")
	}
	if s.irqPend {
		t.Fatalf("irqPend still set after clear")
	}
}

func TestWriteNonClearCommandLeavesIRQAlone(t *testing.T) {
	var calls int
	s := New(Callbacks{IRQSet: func(bool) { calls++ }})
	s.irqPend = true
	s.Write(0, 0x04) // unrelated control write
	if calls != 0 {
		t.Fatalf("IRQSet called %d times for unrelated write", calls)
	}
}

func TestReset(t *testing.T) {
	s := New(Callbacks{})
	s.Write(0, 0xFF)
	s.Reset()
	if s.wr[0][0] != 0 {
		t.Fatalf("register shadow not cleared by Reset")
	}
}
