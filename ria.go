// ria.go - register/portal interface adapter (RIA)
//
// The RIA is the 6502's only window onto the VGA: a 32-byte register
// file at $FFE0-$FFFF, two auto-incrementing XRAM portals, a
// descending 512-byte argument stack (the "xstack"), and a handful of
// OS-style operations triggered by writing the OP register. Every bus
// transaction that lands in this window is processed by Process,
// which also watches the cycle count for frame boundaries and drains
// the VGA's backchannel.

package main

const xstackSize = 0x200

// Ria reg index constants, named the way the firmware's register
// macros are named rather than by raw offset.
const (
	regUARTFlow  = 0x00
	regUARTTx    = 0x01
	regUARTRx    = 0x02
	regVsync     = 0x03
	regRW0       = 0x04
	regStep0     = 0x05
	regAddr0Lo   = 0x06
	regAddr0Hi   = 0x07
	regRW1       = 0x08
	regStep1     = 0x09
	regAddr1Lo   = 0x0A
	regAddr1Hi   = 0x0B
	regXstack    = 0x0C
	regErrnoLo   = 0x0D
	regErrnoHi   = 0x0E
	regOP        = 0x0F
	regIRQ       = 0x10
	regA         = 0x14
	regX         = 0x16
	regSregLo    = 0x18
	regSregHi    = 0x19
)

// OS op codes triggered by a write to regOP.
const (
	opZXStack = 0x00
	opXReg    = 0x01
	opExit    = 0xFF
)

// Ria holds the full state of the register/portal interface.
type Ria struct {
	Regs [32]byte
	Xram [65536]byte

	Xstack    [xstackSize + 1]byte
	XstackPtr int

	IRQEnabled byte
	IRQPin     bool // true = inactive (high), false = asserted (low)

	CycleCount uint64
	Phi2Freq   uint64

	cyclesPerFrame  uint64
	nextFrameCycle  uint64

	pixTx   *pixQueue
	backRx  <-chan Backchannel

	Running bool
}

// NewRia builds a reset Ria wired to the given PIX send queue and
// backchannel receive channel.
func NewRia(pixTx *pixQueue, backRx <-chan Backchannel) *Ria {
	const phi2Freq = 8_000_000
	r := &Ria{
		Phi2Freq:       phi2Freq,
		cyclesPerFrame: phi2Freq / 60,
		pixTx:          pixTx,
		backRx:         backRx,
	}
	r.nextFrameCycle = r.cyclesPerFrame
	r.Reset()
	return r
}

// Reset restores power-on register defaults. Register 3 (VSYNC) is
// left untouched, matching the firmware's api_run() reset sequence.
func (r *Ria) Reset() {
	for i := 0; i < 16; i++ {
		if i != regVsync {
			r.Regs[i] = 0
		}
	}
	r.Regs[regStep0] = 1
	r.Regs[regRW0] = r.Xram[0]
	r.Regs[regStep1] = 1
	r.Regs[regRW1] = r.Xram[0]
	r.XstackPtr = xstackSize
	r.IRQEnabled = 0
	r.IRQPin = true
	r.Running = true
}

func (r *Ria) addr0() uint16 { return uint16(r.Regs[regAddr0Lo]) | uint16(r.Regs[regAddr0Hi])<<8 }
func (r *Ria) setAddr0(v uint16) {
	r.Regs[regAddr0Lo] = byte(v)
	r.Regs[regAddr0Hi] = byte(v >> 8)
}
func (r *Ria) step0() int8 { return int8(r.Regs[regStep0]) }

func (r *Ria) addr1() uint16 { return uint16(r.Regs[regAddr1Lo]) | uint16(r.Regs[regAddr1Hi])<<8 }
func (r *Ria) setAddr1(v uint16) {
	r.Regs[regAddr1Lo] = byte(v)
	r.Regs[regAddr1Hi] = byte(v >> 8)
}
func (r *Ria) step1() int8 { return int8(r.Regs[regStep1]) }

// refreshRW mirrors act_loop's continuous refresh of RW0/RW1 from
// whatever byte currently sits at ADDR0/ADDR1 in XRAM.
func (r *Ria) refreshRW() {
	r.Regs[regRW0] = r.Xram[r.addr0()]
	r.Regs[regRW1] = r.Xram[r.addr1()]
}

// Process handles one bus transaction and returns the byte that
// belongs on the data bus: the register's value for a read, or the
// transaction's own Data echoed back for a write or a non-RIA address.
func (r *Ria) Process(txn BusTransaction) byte {
	r.CycleCount = txn.Cycle

	if r.CycleCount >= r.nextFrameCycle {
		r.nextFrameCycle += r.cyclesPerFrame
		r.pixTx.Send(NewFrameSyncEvent())
		r.pollBackchannel()
	}

	r.refreshRW()

	if !txn.hitsRIA() {
		return txn.Data
	}
	if txn.RW {
		return r.handleRead(txn)
	}
	r.handleWrite(txn)
	return txn.Data
}

// pollBackchannel drains any pending VGA responses without blocking.
// A closed channel (VGA side gone) stops the run loop cleanly.
func (r *Ria) pollBackchannel() {
	for {
		select {
		case msg, ok := <-r.backRx:
			if !ok {
				r.Running = false
				return
			}
			switch msg.Kind {
			case BackVsync:
				r.Regs[regVsync] = msg.Frame
				if r.IRQEnabled&0x01 != 0 {
					r.IRQPin = false
				}
			case BackAck, BackNak:
				// Program-attempt outcome, not tracked by the RIA itself.
			}
		default:
			return
		}
	}
}

func (r *Ria) handleWrite(txn BusTransaction) {
	data := txn.Data
	reg := txn.riaReg()

	switch reg {
	case regUARTTx:
		r.Regs[regUARTFlow] |= 0b1000_0000

	case regRW0:
		addr := r.addr0()
		r.Xram[addr] = data
		r.pixTx.Send(NewXramEvent(addr, data))
		r.setAddr0(addr + uint16(int16(r.step0())))

	case regStep0:
		r.Regs[regStep0] = data

	case regAddr0Lo:
		r.Regs[regAddr0Lo] = data

	case regAddr0Hi:
		r.Regs[regAddr0Hi] = data

	case regRW1:
		addr := r.addr1()
		r.Xram[addr] = data
		r.pixTx.Send(NewXramEvent(addr, data))
		r.setAddr1(addr + uint16(int16(r.step1())))

	case regStep1:
		r.Regs[regStep1] = data

	case regAddr1Lo:
		r.Regs[regAddr1Lo] = data

	case regAddr1Hi:
		r.Regs[regAddr1Hi] = data

	case regXstack:
		if r.XstackPtr > 0 {
			r.XstackPtr--
			r.Xstack[r.XstackPtr] = data
		}
		r.Regs[regXstack] = r.Xstack[r.XstackPtr]

	case regErrnoLo:
		r.Regs[regErrnoLo] = data

	case regErrnoHi:
		r.Regs[regErrnoHi] = data

	case regOP:
		r.Regs[regOP] = data
		r.handleOp(data)

	case regIRQ:
		r.IRQEnabled = data
		r.IRQPin = true

	case regA, regX, regSregLo, regSregHi:
		r.Regs[reg] = data

	default:
		r.Regs[reg] = data
	}
}

func (r *Ria) handleRead(txn BusTransaction) byte {
	reg := txn.riaReg()

	switch reg {
	case regUARTFlow:
		r.Regs[regUARTFlow] |= 0b1000_0000
		r.Regs[regUARTFlow] &^= 0b0100_0000
		return r.Regs[regUARTFlow]

	case regUARTRx:
		r.Regs[regUARTFlow] &^= 0b0100_0000
		r.Regs[regUARTRx] = 0
		return 0

	case regRW0:
		val := r.Regs[regRW0]
		addr := r.addr0()
		r.setAddr0(addr + uint16(int16(r.step0())))
		return val

	case regRW1:
		val := r.Regs[regRW1]
		addr := r.addr1()
		r.setAddr1(addr + uint16(int16(r.step1())))
		return val

	case regXstack:
		val := r.Regs[regXstack]
		if r.XstackPtr < xstackSize {
			r.XstackPtr++
		}
		r.Regs[regXstack] = r.Xstack[r.XstackPtr]
		return val

	case regIRQ:
		r.IRQPin = true
		return r.Regs[regIRQ]

	default:
		return r.Regs[reg]
	}
}

func (r *Ria) handleOp(op byte) {
	switch op {
	case opZXStack:
		r.Regs[regXstack] = 0
		r.XstackPtr = xstackSize
		r.apiReturnAX(0)

	case opXReg:
		r.handleXReg()

	case opExit:
		r.Running = false

	default:
		r.apiReturnAX(0xFFFF)
	}
}

// handleXReg drains the xstack as a single xreg API call: device,
// channel and a start register pushed last-to-first by the caller,
// followed by an even number of data bytes forming big-endian-pushed
// uint16 values. Values are sent to the PIX bus in descending register
// order so that, for the VGA's channel-0 convention, CANVAS (register
// 0) always arrives last and resets the staging registers that MODE
// (register 1) just finished reading.
func (r *Ria) handleXReg() {
	if r.XstackPtr >= xstackSize-3 {
		r.apiReturnAX(0xFFFF)
		return
	}

	device := r.Xstack[xstackSize-1]
	channel := r.Xstack[xstackSize-2]
	startAddr := r.Xstack[xstackSize-3]
	dataBytes := xstackSize - r.XstackPtr - 3

	if dataBytes < 2 || dataBytes%2 != 0 || device > 7 || channel > 15 {
		r.apiReturnAX(0xFFFF)
		return
	}

	count := dataBytes / 2
	for i := count - 1; i >= 0; i-- {
		offset := r.XstackPtr + (count-1-i)*2
		value := uint16(r.Xstack[offset]) | uint16(r.Xstack[offset+1])<<8
		register := startAddr + byte(i)
		r.pixTx.Send(NewRegEvent(channel, register, value))
	}

	r.XstackPtr = xstackSize
	r.apiReturnAX(0)
}

// apiReturnAX writes the firmware's "released" 6502 return thunk
// (NOP; BRA +0; LDA #lo; LDX #hi; RTS) into regs 0x10-0x17, the
// convention the real ROM's API blocking stub polls for completion.
func (r *Ria) apiReturnAX(val uint16) {
	r.Regs[0x10] = 0xEA
	r.Regs[0x11] = 0x80
	r.Regs[0x12] = 0x00
	r.Regs[0x13] = 0xA9
	r.Regs[0x14] = byte(val)
	r.Regs[0x15] = 0xA2
	r.Regs[0x16] = byte(val >> 8)
	r.Regs[0x17] = 0x60
	r.Regs[regXstack] = r.Xstack[r.XstackPtr]
}
