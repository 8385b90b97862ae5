// bus.go - 6502 bus transaction model

package main

// BusTransaction is one 6502 bus cycle as observed by the RIA: an
// address/data pair tagged with the cycle it occurred on and whether
// it was a read (RW true) or a write (RW false).
type BusTransaction struct {
	Cycle uint64
	Addr  uint16
	Data  uint8
	// RW is true when the 6502 is reading from the bus, false when
	// it is writing to it.
	RW bool
}

// WriteTxn builds a write transaction (the 6502 writing to the bus).
func WriteTxn(cycle uint64, addr uint16, data uint8) BusTransaction {
	return BusTransaction{Cycle: cycle, Addr: addr, Data: data, RW: false}
}

// ReadTxn builds a read transaction (the 6502 reading from the bus).
// Data is whatever the driver had on the bus before the RIA responds,
// usually 0.
func ReadTxn(cycle uint64, addr uint16, data uint8) BusTransaction {
	return BusTransaction{Cycle: cycle, Addr: addr, Data: data, RW: true}
}

// riaWindowBase is the first address of the RIA's 32-byte register
// window at the top of the 6502 address space.
const riaWindowBase = 0xFFE0

// hitsRIA reports whether addr falls inside the RIA register window.
func (t BusTransaction) hitsRIA() bool {
	return t.Addr >= riaWindowBase
}

// riaReg maps a bus address inside the RIA window down to a register
// index 0-31.
func (t BusTransaction) riaReg() uint8 {
	return uint8(t.Addr & 0x1F)
}
