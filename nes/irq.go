// refs: github.com/libretro/Mesen
package nes

type IRQSource uint32

const (
	IRQ_EXTERNAL      IRQSource = 1
	IRQ_FRAME_COUNTER IRQSource = 2
	IRQ_DMC           IRQSource = 4
)

// IRQLine is the CPU /IRQ input. It stays asserted while any source holds
// it, so a handler that does not acknowledge the cartridge keeps being
// interrupted.
type IRQLine struct {
	irqFlag  uint32
	asserted int
}

func (l *IRQLine) SetIRQSource(source IRQSource) {
	l.irqFlag |= uint32(source)
}

func (l *IRQLine) ClearIRQSource(source IRQSource) {
	l.irqFlag &= ^uint32(source)
}

func (l *IRQLine) HasIRQSource(source IRQSource) bool {
	return l.irqFlag&uint32(source) != 0
}

func (l *IRQLine) Pending() bool {
	return l.irqFlag != 0
}

// AssertIRQ implements the txrom.IRQLine interface.
func (l *IRQLine) AssertIRQ() {
	l.asserted++
	l.SetIRQSource(IRQ_EXTERNAL)
}

// AcknowledgeIRQ implements the txrom.IRQLine interface.
func (l *IRQLine) AcknowledgeIRQ() {
	l.ClearIRQSource(IRQ_EXTERNAL)
}

// Asserted returns how many times the cartridge raised the line.
func (l *IRQLine) Asserted() int {
	return l.asserted
}

func (l *IRQLine) Reset() {
	l.irqFlag = 0
	l.asserted = 0
}
