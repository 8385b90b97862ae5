// pix.go - PIX event bus: packed 32-bit events from the RIA to the VGA

package main

// pixFramingBit marks a packed PIX word as carrying a real event
// rather than idle bus noise. It is always set on anything we emit.
const pixFramingBit uint32 = 0x1000_0000

// XramWrite is a single byte write into the VGA's XRAM, addressed by
// the XRAM portal the RIA write went through.
type XramWrite struct {
	Addr uint16
	Data uint8
}

// RegWrite is a PIX channel register write - the VGA's equivalent of
// a memory-mapped I/O store.
type RegWrite struct {
	Channel  uint8
	Register uint8
	Value    uint16
}

// PixEvent is the sum type carried on the PIX channel. Exactly one of
// the embedded fields is meaningful, selected by Kind.
type PixEvent struct {
	Kind  PixEventKind
	Xram  XramWrite
	Reg   RegWrite
}

// PixEventKind discriminates a PixEvent's payload.
type PixEventKind uint8

const (
	PixXram PixEventKind = iota
	PixReg
	PixFrameSync
)

func NewXramEvent(addr uint16, data uint8) PixEvent {
	return PixEvent{Kind: PixXram, Xram: XramWrite{Addr: addr, Data: data}}
}

func NewRegEvent(channel, register uint8, value uint16) PixEvent {
	return PixEvent{Kind: PixReg, Reg: RegWrite{Channel: channel, Register: register, Value: value}}
}

func NewFrameSyncEvent() PixEvent {
	return PixEvent{Kind: PixFrameSync}
}

// BackchannelKind discriminates a Backchannel message.
type BackchannelKind uint8

const (
	BackVsync BackchannelKind = iota
	BackAck
	BackNak
)

// Backchannel is the VGA-to-RIA signal path: vertical sync pulses
// (carrying a 4-bit wrapping frame counter) and acknowledge/negative
// acknowledge of the last register program attempt.
type Backchannel struct {
	Kind  BackchannelKind
	Frame uint8
}

func NewVsync(frame uint8) Backchannel { return Backchannel{Kind: BackVsync, Frame: frame} }
func NewAck() Backchannel              { return Backchannel{Kind: BackAck} }
func NewNak() Backchannel              { return Backchannel{Kind: BackNak} }

// pixPack packs a device/channel/register/value tuple into the wire
// format the real RP6502 PIX peripheral bus uses: framing bit always
// set, device in bits 31:29, channel in bits 27:24, register in bits
// 23:16, value in bits 15:0.
func pixPack(device, channel, register uint8, value uint16) uint32 {
	return pixFramingBit |
		(uint32(device&0x7) << 29) |
		(uint32(channel&0xF) << 24) |
		(uint32(register) << 16) |
		uint32(value)
}

// pixPackXram packs an XRAM byte write as PIX device 0, channel 0,
// with the byte value carried in the register field and the XRAM
// address carried in the value field.
func pixPackXram(addr uint16, data uint8) uint32 {
	return pixPack(0, 0, data, addr)
}

// pixUnpack reverses pixPack, returning (device, channel, register,
// value, ok). ok is false if the framing bit is clear, meaning raw
// does not carry a real event.
func pixUnpack(raw uint32) (device, channel, register uint8, value uint16, ok bool) {
	if raw&pixFramingBit == 0 {
		return 0, 0, 0, 0, false
	}
	device = uint8((raw >> 29) & 0x7)
	channel = uint8((raw >> 24) & 0xF)
	register = uint8((raw >> 16) & 0xFF)
	value = uint16(raw & 0xFFFF)
	return device, channel, register, value, true
}
