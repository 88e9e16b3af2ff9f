// refs: github.com/libretro/Mesen
package txrom

import "log"

type MMC3RegisterType uint16

const (
	MMC3_Reg8000 MMC3RegisterType = 0x8000 // bank select
	MMC3_Reg8001 MMC3RegisterType = 0x8001 // bank data
	MMC3_RegA000 MMC3RegisterType = 0xA000 // mirroring
	MMC3_RegA001 MMC3RegisterType = 0xA001 // WRAM control
	MMC3_RegC000 MMC3RegisterType = 0xC000 // IRQ latch
	MMC3_RegC001 MMC3RegisterType = 0xC001 // IRQ reload
	MMC3_RegE000 MMC3RegisterType = 0xE000 // IRQ disable / acknowledge
	MMC3_RegE001 MMC3RegisterType = 0xE001 // IRQ enable
)

const (
	chrModeBit = 0x80
	prgModeBit = 0x40
)

// first window of each CHR register before the $8000 D7 inversion is applied.
// R0 and R1 cover two adjacent 1 KiB windows each.
var chrWindows = [6]uint16{0x0000, 0x0800, 0x1000, 0x1400, 0x1800, 0x1C00}

type deferredWrite struct {
	address uint16
	value   byte
}

type MMC3 struct {
	host  Host
	opts  Options
	board Board

	reg8000 byte
	chrBase uint16 // 0x0000 or 0x1000
	chrRegs [6]byte
	prgReg6 byte
	prgReg7 byte

	mirroring        MirroringType
	mirroringWritten bool

	wramEnabled        bool
	wramWriteProtected bool
	wramBank           byte

	irq   irqState
	a12   A12Watcher
	edges *scanlineEdges
	stats frameStats

	// register writes issued while the counter is being clocked
	clocking bool
	deferred []deferredWrite
}

func NewMMC3(board Board, host Host, opts Options) *MMC3 {
	if host.Banks == nil {
		host.Banks = nopBanks{}
	}
	if host.IRQ == nil {
		host.IRQ = nopIRQ{}
	}
	opts = opts.Normalised()

	m := &MMC3{
		host:  host,
		opts:  opts,
		board: board,
		edges: newScanlineEdges(opts.ScanlinesPerFrame, opts.VisibleScanlines),
	}

	if opts.TraceStats {
		log.Printf("MMC3: PRG banks: %d, four-screen: %v, timing: %s\n", board.PRGBanks, board.FourScreen, opts.Timing)
	}

	m.Reset()
	return m
}

func (m *MMC3) Reset() {
	m.irq = irqState{}
	m.chrRegs = [6]byte{}
	m.edges.clear()
	m.a12.Reset()
	m.stats = frameStats{}
	m.deferred = m.deferred[:0]
	m.clocking = false

	m.reg8000 = 0
	m.chrBase = 0
	m.prgReg6 = 0
	m.prgReg7 = 0
	m.mirroringWritten = false
	m.wramEnabled = false
	m.wramWriteProtected = false
	m.wramBank = 0

	banks := m.host.Banks
	banks.SetPRGBank(8, 0xC000, m.fixedPenultimate())
	banks.SetPRGBank(8, 0xE000, m.fixedLast())
	banks.SetPRGBank(8, 0x8000, int(m.prgReg6))
	banks.SetPRGBank(8, 0xA000, 0)
	banks.SetCHRBank(8, 0x0000, 0)
	banks.SetWRAMBank(8, 0x6000, 0)
}

func (m *MMC3) fixedLast() int {
	if m.board.PRGBanks < 1 {
		return 0
	}
	return m.board.PRGBanks - 1
}

func (m *MMC3) fixedPenultimate() int {
	if m.board.PRGBanks < 2 {
		return 0
	}
	return m.board.PRGBanks - 2
}

// swappableWindow is where R6 is mapped. the penultimate bank takes the
// other one of $8000 / $C000.
func (m *MMC3) swappableWindow() uint16 {
	if m.reg8000&prgModeBit != 0 {
		return 0xC000
	}
	return 0x8000
}

func (m *MMC3) penultimateWindow() uint16 {
	if m.reg8000&prgModeBit != 0 {
		return 0x8000
	}
	return 0xC000
}

func (m *MMC3) WriteRegister(address uint16, value byte) {
	if m.clocking {
		m.deferred = append(m.deferred, deferredWrite{address: address, value: value})
		return
	}

	switch MMC3RegisterType(address & 0xE001) {
	case MMC3_Reg8000:
		m.writeBankSelect(value)
	case MMC3_Reg8001:
		m.writeBankData(value)
	case MMC3_RegA000:
		m.writeMirroring(value)
	case MMC3_RegA001:
		m.writeWRAMControl(value)
	case MMC3_RegC000:
		m.irq.latch = value
	case MMC3_RegC001:
		m.irq.reloadPending = true
	case MMC3_RegE000:
		if m.irq.enabled {
			m.stats.enableChanges++
		}
		m.irq.enabled = false
		m.host.IRQ.AcknowledgeIRQ()
	case MMC3_RegE001:
		if !m.irq.enabled {
			m.stats.enableChanges++
		}
		m.irq.enabled = true
	}
}

func (m *MMC3) writeBankSelect(value byte) {
	oldCHRMode := m.reg8000 & chrModeBit
	oldPRGMode := m.reg8000 & prgModeBit

	m.reg8000 = value
	m.chrBase = 0x0000
	if value&chrModeBit != 0 {
		m.chrBase = 0x1000
	}

	if oldCHRMode != value&chrModeBit {
		m.updateCHRMapping()
	}

	m.host.Banks.SetPRGBank(8, m.penultimateWindow(), m.fixedPenultimate())

	if oldPRGMode != value&prgModeBit {
		m.host.Banks.SetPRGBank(8, m.swappableWindow(), int(m.prgReg6))
	}
}

func (m *MMC3) writeBankData(value byte) {
	switch r := m.reg8000 & 0x07; r {
	case 0, 1:
		m.chrRegs[r] = value & 0xFE
		m.selectCHR2K(int(r))
	case 2, 3, 4, 5:
		m.chrRegs[r] = value
		m.host.Banks.SetCHRBank(1, m.chrBase^chrWindows[r], int(value))
	case 6:
		m.prgReg6 = value
		m.host.Banks.SetPRGBank(8, m.swappableWindow(), int(value))
	case 7:
		m.prgReg7 = value
		m.host.Banks.SetPRGBank(8, 0xA000, int(value))
	}
}

func (m *MMC3) selectCHR2K(r int) {
	bank := int(m.chrRegs[r] & 0xFE)
	window := m.chrBase ^ chrWindows[r]
	m.host.Banks.SetCHRBank(1, window, bank)
	m.host.Banks.SetCHRBank(1, window+0x0400, bank+1)
}

func (m *MMC3) updateCHRMapping() {
	m.selectCHR2K(0)
	m.selectCHR2K(1)
	for r := 2; r < len(m.chrRegs); r++ {
		m.host.Banks.SetCHRBank(1, m.chrBase^chrWindows[r], int(m.chrRegs[r]))
	}
}

func (m *MMC3) updatePRGMapping() {
	banks := m.host.Banks
	banks.SetPRGBank(8, m.swappableWindow(), int(m.prgReg6))
	banks.SetPRGBank(8, m.penultimateWindow(), m.fixedPenultimate())
	banks.SetPRGBank(8, 0xA000, int(m.prgReg7))
	banks.SetPRGBank(8, 0xE000, m.fixedLast())
}

func (m *MMC3) writeMirroring(value byte) {
	if m.board.FourScreen {
		return
	}
	if value&0x01 == 0x01 {
		m.mirroring = MIRROR_HORIZONTAL
	} else {
		m.mirroring = MIRROR_VERTICAL
	}
	m.mirroringWritten = true
	m.host.Banks.SetMirroring(m.mirroring)
}

func (m *MMC3) writeWRAMControl(value byte) {
	m.wramEnabled = value&0x80 == 0x80
	m.wramWriteProtected = value&0x40 == 0x40
	m.wramBank = value & 0x03

	m.host.Banks.SetWRAMEnable(m.wramEnabled)
	m.host.Banks.SetWRAMWriteProtect(m.wramWriteProtected)
	m.host.Banks.SetWRAMBank(8, 0x6000, int(m.wramBank))
}

// CanWriteToWorkRAM reports whether the last $A001 write leaves WRAM
// writable.
func (m *MMC3) CanWriteToWorkRAM() bool {
	return m.wramEnabled && !m.wramWriteProtected
}

type nopBanks struct{}

func (nopBanks) SetPRGBank(int, uint16, int)  {}
func (nopBanks) SetCHRBank(int, uint16, int)  {}
func (nopBanks) SetWRAMBank(int, uint16, int) {}
func (nopBanks) SetMirroring(MirroringType)   {}
func (nopBanks) SetWRAMEnable(bool)           {}
func (nopBanks) SetWRAMWriteProtect(bool)     {}

type nopIRQ struct{}

func (nopIRQ) AssertIRQ()      {}
func (nopIRQ) AcknowledgeIRQ() {}
