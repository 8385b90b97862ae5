// trace_builder.go - fluent construction of bus transaction traces

package main

// trace is the in-memory TraceSource implementation produced by
// Builder: a plain recorded slice of transactions replayed in order.
type trace struct {
	txns []BusTransaction
	pos  int
}

func (t *trace) Next() (BusTransaction, bool) {
	if t.pos >= len(t.txns) {
		return BusTransaction{}, false
	}
	txn := t.txns[t.pos]
	t.pos++
	return txn, true
}

// Builder assembles a bus transaction trace one 6502-level operation
// at a time, tracking a running cycle counter so callers don't have
// to compute cycle numbers by hand.
type Builder struct {
	cycle uint64
	txns  []BusTransaction
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Write appends a write transaction at the current cycle and advances
// the cycle counter by one.
func (b *Builder) Write(addr uint16, data uint8) *Builder {
	b.txns = append(b.txns, WriteTxn(b.cycle, addr, data))
	b.cycle++
	return b
}

// Read appends a read transaction at the current cycle and advances
// the cycle counter by one. The data value is irrelevant for a real
// read (the RIA computes its own return value) but is carried for
// passthrough addresses.
func (b *Builder) Read(addr uint16) *Builder {
	b.txns = append(b.txns, ReadTxn(b.cycle, addr, 0))
	b.cycle++
	return b
}

// PushXstack writes data onto the xstack register enough times to
// push every byte in values, first byte first.
func (b *Builder) PushXstack(values ...byte) *Builder {
	for _, v := range values {
		b.Write(riaWindowBase+regXstack, v)
	}
	return b
}

// XReg issues a complete xreg API call: pushes device, channel and
// startReg (in that order, so device ends up highest on the
// descending xstack), then each uint16 in values high byte first, so
// that every value reads little-endian upward from the stack pointer,
// then triggers the opXReg operation by writing regOP.
func (b *Builder) XReg(device, channel, startReg byte, values ...uint16) *Builder {
	b.PushXstack(device, channel, startReg)
	for _, v := range values {
		b.PushXstack(byte(v>>8), byte(v))
	}
	b.Write(riaWindowBase+regOP, opXReg)
	return b
}

// SetAddr0 points the portal-0 address registers at addr with a step
// of 1, ready for a run of sequential RW0 writes.
func (b *Builder) SetAddr0(addr uint16) *Builder {
	b.Write(riaWindowBase+regStep0, 1)
	b.Write(riaWindowBase+regAddr0Lo, byte(addr))
	b.Write(riaWindowBase+regAddr0Hi, byte(addr>>8))
	return b
}

// XramBytes points portal 0 at addr and writes data sequentially
// through RW0, relying on auto-increment.
func (b *Builder) XramBytes(addr uint16, data []byte) *Builder {
	b.SetAddr0(addr)
	for _, d := range data {
		b.Write(riaWindowBase+regRW0, d)
	}
	return b
}

// XregCanvas issues the CANVAS xreg call (register 0).
func (b *Builder) XregCanvas(value uint16) *Builder {
	return b.XReg(0, 0, 0, value)
}

// XregMode issues the MODE xreg call (registers 1..6): mode, attr,
// configPtr, planeIdx, scanlineBegin, scanlineEnd.
func (b *Builder) XregMode(mode, attr, configPtr, planeIdx, scanlineBegin, scanlineEnd uint16) *Builder {
	return b.XReg(0, 0, 1, mode, attr, configPtr, planeIdx, scanlineBegin, scanlineEnd)
}

// WaitFrames advances the cycle counter by n frames' worth of cycles,
// so the next bus operation crosses that many frame boundaries.
func (b *Builder) WaitFrames(n uint64, cyclesPerFrame uint64) *Builder {
	return b.AdvanceCycles(n * cyclesPerFrame)
}

// OpExit writes the OP register with opExit, ending the RIA's run.
func (b *Builder) OpExit() *Builder {
	return b.Write(riaWindowBase+regOP, opExit)
}

// AdvanceCycles fast-forwards the running cycle counter without
// emitting any transactions, useful for landing squarely on a frame
// boundary.
func (b *Builder) AdvanceCycles(n uint64) *Builder {
	b.cycle += n
	return b
}

// Build finalizes the trace as a TraceSource.
func (b *Builder) Build() TraceSource {
	return &trace{txns: b.txns}
}
