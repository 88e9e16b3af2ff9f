package txrom

import (
	"errors"
	"fmt"
)

// MMC3StateSize is the length of an exported MMC3 record. The layout has no
// version tag so the byte order below must never change:
//
//	0      IRQ counter
//	1      IRQ latch
//	2      IRQ enabled
//	3      last $8000 write
//	4      IRQ reload pending
//	5      WRAM enabled
//	6      WRAM write protected
//	7      R6 (swappable PRG bank)
//	8      R7 (PRG bank at $A000)
//	9-14   R0-R5 (CHR banks)
const MMC3StateSize = 15

var ErrStateSize = errors.New("wrong state size")

// MMC3State holds everything that survives a save state. Bank windows are
// not part of it; they are rebuilt from the registers on import.
type MMC3State struct {
	IRQCounter         byte
	IRQLatch           byte
	IRQEnabled         bool
	Reg8000            byte
	IRQReload          bool
	WRAMEnabled        bool
	WRAMWriteProtected bool
	PRGReg6            byte
	PRGReg7            byte
	CHRRegs            [6]byte
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (s MMC3State) MarshalBinary() ([]byte, error) {
	b := make([]byte, MMC3StateSize)
	b[0] = s.IRQCounter
	b[1] = s.IRQLatch
	b[2] = boolByte(s.IRQEnabled)
	b[3] = s.Reg8000
	b[4] = boolByte(s.IRQReload)
	b[5] = boolByte(s.WRAMEnabled)
	b[6] = boolByte(s.WRAMWriteProtected)
	b[7] = s.PRGReg6
	b[8] = s.PRGReg7
	copy(b[9:], s.CHRRegs[:])
	return b, nil
}

func (s *MMC3State) UnmarshalBinary(b []byte) error {
	if len(b) != MMC3StateSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrStateSize, len(b), MMC3StateSize)
	}
	s.IRQCounter = b[0]
	s.IRQLatch = b[1]
	s.IRQEnabled = b[2] != 0
	s.Reg8000 = b[3]
	s.IRQReload = b[4] != 0
	s.WRAMEnabled = b[5] != 0
	s.WRAMWriteProtected = b[6] != 0
	s.PRGReg6 = b[7]
	s.PRGReg7 = b[8]
	copy(s.CHRRegs[:], b[9:])
	return nil
}

func (m *MMC3) State() MMC3State {
	return MMC3State{
		IRQCounter:         m.irq.counter,
		IRQLatch:           m.irq.latch,
		IRQEnabled:         m.irq.enabled,
		Reg8000:            m.reg8000,
		IRQReload:          m.irq.reloadPending,
		WRAMEnabled:        m.wramEnabled,
		WRAMWriteProtected: m.wramWriteProtected,
		PRGReg6:            m.prgReg6,
		PRGReg7:            m.prgReg7,
		CHRRegs:            m.chrRegs,
	}
}

// SetState restores the registers and then rebuilds every bank window, the
// WRAM protection and the mirroring on the host.
func (m *MMC3) SetState(s MMC3State) {
	m.irq.counter = s.IRQCounter
	m.irq.latch = s.IRQLatch
	m.irq.enabled = s.IRQEnabled
	m.irq.reloadPending = s.IRQReload
	m.reg8000 = s.Reg8000
	m.wramEnabled = s.WRAMEnabled
	m.wramWriteProtected = s.WRAMWriteProtected
	m.prgReg6 = s.PRGReg6
	m.prgReg7 = s.PRGReg7
	m.chrRegs = s.CHRRegs

	// R0 and R1 are even by construction but a hand-made record may not be
	m.chrRegs[0] &= 0xFE
	m.chrRegs[1] &= 0xFE

	m.chrBase = 0x0000
	if m.reg8000&chrModeBit != 0 {
		m.chrBase = 0x1000
	}

	banks := m.host.Banks
	banks.SetWRAMEnable(m.wramEnabled)
	banks.SetWRAMWriteProtect(m.wramWriteProtected)
	banks.SetWRAMBank(8, 0x6000, int(m.wramBank))

	m.updatePRGMapping()
	m.updateCHRMapping()

	if m.mirroringWritten && !m.board.FourScreen {
		banks.SetMirroring(m.mirroring)
	}
}

func (m *MMC3) ExportState() []byte {
	b, _ := m.State().MarshalBinary()
	return b
}

func (m *MMC3) ImportState(state []byte) error {
	var s MMC3State
	if err := s.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("MMC3: %w", err)
	}
	m.SetState(s)
	return nil
}
