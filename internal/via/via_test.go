package via

import "testing"

func regAddr(reg uint32) uint32 { return reg << 9 }

func TestIRQSummaryInvariant(t *testing.T) {
	var lastIRQ *bool
	v := New(Callbacks{
		IRQSet: func(asserted bool) { lastIRQ = &asserted },
	})

	v.Write(regAddr(RegIER), 0x80|IFRCA1) // enable CA1
	v.Write(regAddr(RegIFR), IFRCA1)      // nothing pending yet, should not assert

	if lastIRQ != nil && *lastIRQ {
		t.Fatalf("IRQ asserted with nothing pending")
	}

	v.AssertCA1()
	if lastIRQ == nil || !*lastIRQ {
		t.Fatalf("IRQ not asserted after CA1 edge with CA1 enabled")
	}

	// spec.md invariant 2: irq_out == (IFR & IER & 0x7F) != 0
	want := (v.ifr & v.ier & 0x7F) != 0
	if v.irqOut != want {
		t.Fatalf("irqOut=%v, want %v", v.irqOut, want)
	}
}

func TestPortReadIsDDRMasked(t *testing.T) {
	v := New(Callbacks{
		RAIn: func() byte { return 0xFF },
	})
	v.Write(regAddr(RegDDRA), 0x0F) // low nibble output, high nibble input
	v.Write(regAddr(RegORA), 0xA5)

	got := v.Read(regAddr(RegORA))
	want := (byte(0xA5) & 0x0F) | (0xFF &^ 0x0F)
	if got != want {
		t.Fatalf("port A read got %02x, want %02x", got, want)
	}
}

func TestTimer1FreeRunBoundaryScenario(t *testing.T) {
	// spec.md §8: write T1L = 0x100, ACR bit 6 = 1, start T1; after
	// via_tick(0x200), IFR T1 must have been asserted at least twice.
	v := New(Callbacks{})
	v.Write(regAddr(RegACR), acrT1FreeRun)
	v.Write(regAddr(RegT1LL), 0x00)
	v.Write(regAddr(RegT1LH), 0x01) // t1l = 0x100
	v.Write(regAddr(RegT1CH), 0x01) // t1c = t1l, starts the timer

	fires := 0
	remaining := 0x200
	for remaining > 0 {
		before := v.ifr & IFRT1
		v.Tick(1)
		after := v.ifr & IFRT1
		if after != 0 && before == 0 {
			fires++
			v.ifr &^= IFRT1 // consumer would normally clear it; drain to count edges
		}
		remaining--
	}
	if fires < 2 {
		t.Fatalf("T1 fired %d times over 0x200 cycles, want at least 2", fires)
	}
}

func TestTimer2OneShot(t *testing.T) {
	v := New(Callbacks{})
	v.Write(regAddr(RegT2CL), 0x10)
	v.Write(regAddr(RegT2CH), 0x00) // t2c = 0x0010

	v.Tick(0x10)
	if v.ifr&IFRT2 == 0 {
		t.Fatalf("T2 did not fire after its count elapsed")
	}
	v.ifr &^= IFRT2
	v.Tick(0x10000)
	if v.ifr&IFRT2 != 0 {
		t.Fatalf("T2 fired again after one-shot expiry")
	}
}

func TestShiftRegisterRxDelayed(t *testing.T) {
	v := New(Callbacks{})
	v.SRRx(0x42)
	v.Tick(srTransferCycles - 1)
	if v.Read(regAddr(RegSR)) == 0x42 {
		t.Fatalf("SR updated before transfer completed")
	}
	v.Tick(1)
	if got := v.Read(regAddr(RegSR)); got != 0x42 {
		t.Fatalf("SR = %02x after transfer completed, want 42", got)
	}
}

func TestIFRWriteOneToClear(t *testing.T) {
	v := New(Callbacks{})
	v.ifr = IFRCA1 | IFRCA2
	v.Write(regAddr(RegIFR), IFRCA1)
	if v.ifr&IFRCA1 != 0 {
		t.Fatalf("writing 1 to IFR.CA1 did not clear it")
	}
	if v.ifr&IFRCA2 == 0 {
		t.Fatalf("writing 1 to IFR.CA1 incorrectly cleared CA2")
	}
}
