package keyboard

import "testing"

func TestGetModelResponse(t *testing.T) {
	var reply byte
	k := New(func(b byte) { reply = b })

	k.Tx(CmdGetModel, 0)
	k.CheckWork(100, 5000) // too soon, within one quantum
	if reply != 0 {
		t.Fatalf("replied before quantum elapsed")
	}
	k.CheckWork(5001, 5000)
	if reply != 0x0B {
		t.Fatalf("GET_MODEL reply = %#x, want 0x0B", reply)
	}
}

func TestInquiryNullWhenNoEvent(t *testing.T) {
	var reply byte
	k := New(func(b byte) { reply = b })
	k.Tx(CmdInquiry, 0)
	k.CheckWork(6000, 5000)
	if reply != rspNull {
		t.Fatalf("INQUIRY reply = %#x, want null %#x", reply, rspNull)
	}
}

func TestInquiryDeliversAndClearsPendingEvent(t *testing.T) {
	var reply byte
	k := New(func(b byte) { reply = b })
	k.Event(0x00, true) // 'A' key down
	k.Tx(CmdInquiry, 0)
	k.CheckWork(6000, 5000)
	if reply != 0x00 {
		t.Fatalf("INQUIRY reply = %#x, want 0x00 (key down)", reply)
	}

	reply = 0xFF
	k.Tx(CmdInquiry, 6000)
	k.CheckWork(12001, 5000)
	if reply != rspNull {
		t.Fatalf("second INQUIRY reply = %#x, want null (event already consumed)", reply)
	}
}

func TestEventWhilePendingIsDiscarded(t *testing.T) {
	var reply byte
	k := New(func(b byte) { reply = b })
	k.Event(0x00, true) // 'A' key down, buffered
	k.Event(0x01, true) // 'B' key down, should be dropped

	k.Tx(CmdInquiry, 0)
	k.CheckWork(6000, 5000)
	if reply != 0x00 {
		t.Fatalf("INQUIRY reply = %#x, want 0x00 (first event kept, second dropped)", reply)
	}
}

func TestKeyUpSetsHighBit(t *testing.T) {
	var reply byte
	k := New(func(b byte) { reply = b })
	k.Event(0x00, false)
	k.Tx(CmdInquiry, 0)
	k.CheckWork(6000, 5000)
	if reply != 0x80 {
		t.Fatalf("key-up reply = %#x, want 0x80", reply)
	}
}
