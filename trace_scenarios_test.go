// trace_scenarios_test.go - named test-mode trace generator coverage

package main

import "testing"

func collectTrace(t *testing.T, src TraceSource) []BusTransaction {
	t.Helper()
	var txns []BusTransaction
	for {
		txn, ok := src.Next()
		if !ok {
			break
		}
		txns = append(txns, txn)
	}
	return txns
}

func TestAllModesProduceTraces(t *testing.T) {
	for _, m := range allTestModes {
		txns := collectTrace(t, NewTestModeTrace(m))
		if len(txns) < 100 {
			t.Errorf("mode %s produced %d transactions, want at least 100", m, len(txns))
		}
	}
}

func TestTraceEndsWithExit(t *testing.T) {
	for _, m := range allTestModes {
		txns := collectTrace(t, NewTestModeTrace(m))
		last := txns[len(txns)-1]
		if last.RW || last.Addr != riaWindowBase+regOP || last.Data != opExit {
			t.Errorf("mode %s: last txn = %+v, want OP=opExit write", m, last)
		}
	}
}

func TestModeFromStr(t *testing.T) {
	for _, m := range allTestModes {
		got, err := ParseTestMode(m.String())
		if err != nil {
			t.Errorf("ParseTestMode(%q) returned error: %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseTestMode(%q) = %v, want %v", m.String(), got, m)
		}
	}

	if _, err := ParseTestMode("not_a_mode"); err == nil {
		t.Error("ParseTestMode(\"not_a_mode\") should return an error")
	}
}

func countRW0Writes(txns []BusTransaction) int {
	n := 0
	for _, txn := range txns {
		if !txn.RW && txn.Addr == riaWindowBase+regRW0 {
			n++
		}
	}
	return n
}

func TestMono320x240PixelCount(t *testing.T) {
	txns := collectTrace(t, NewTestModeTrace(Mono320x240))
	// 14 config bytes + (320/8)*240 bitmap bytes
	want := 14 + 40*240
	if got := countRW0Writes(txns); got != want {
		t.Errorf("RW0 writes = %d, want %d", got, want)
	}
}

func TestMono640x480PixelCount(t *testing.T) {
	txns := collectTrace(t, NewTestModeTrace(Mono640x480))
	want := 14 + 80*480
	if got := countRW0Writes(txns); got != want {
		t.Errorf("RW0 writes = %d, want %d", got, want)
	}
}

func TestColor16bppPartialHeight(t *testing.T) {
	txns := collectTrace(t, NewTestModeTrace(Color16bpp320))
	_, h := Color16bpp320.bitmapSize()
	want := 14 + int(h)*640
	if got := countRW0Writes(txns); got != want {
		t.Errorf("RW0 writes = %d, want %d (bitmap height %d)", got, want, h)
	}
	if h >= 240 {
		t.Errorf("Color16bpp320 bitmap height = %d, want < 240 (doesn't fit 64KiB XRAM)", h)
	}
}
