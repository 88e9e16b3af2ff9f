// refs: github.com/libretro/Mesen
package nes

import (
	"github.com/kaishuu0123/txrom/txrom"
)

// 8KiB (0x2000)
const WRAM_SIZE = 0x2000

const (
	pageSize      = 0x100
	nameTableSize = 0x400
)

type MemoryAccessType int16

const (
	MEMORY_ACCESS_UNSPECIFIED MemoryAccessType = -1
	MEMORY_ACCESS_NO_ACCESS   MemoryAccessType = 0x00
	MEMORY_ACCESS_READ        MemoryAccessType = 0x01
	MEMORY_ACCESS_WRITE       MemoryAccessType = 0x02
	MEMORY_ACCESS_READ_WRITE  MemoryAccessType = 0x03
)

type PRGMemoryType byte

const (
	PRG_MEMORY_PRG_ROM PRGMemoryType = iota
	PRG_MEMORY_SAVE_RAM
	PRG_MEMORY_WORK_RAM
)

type CHRMemoryType byte

const (
	CHR_MEMORY_CHR_ROM CHRMemoryType = iota
	CHR_MEMORY_CHR_RAM
	CHR_MEMORY_NAMETABLE_RAM
)

// PRGBank is one 256 byte page of the CPU address space.
type PRGBank struct {
	ptr        []byte
	offset     int32
	memoryType PRGMemoryType
	accessType MemoryAccessType
}

// CHRBank is one 256 byte page of the PPU address space.
type CHRBank struct {
	ptr        []byte
	offset     int32
	memoryType CHRMemoryType
	accessType MemoryAccessType
}

// MemoryMap is the console side of the cartridge connector. It implements
// txrom.BankSwitcher so a mapper can place banks into the CPU ($6000-$FFFF)
// and PPU ($0000-$3FFF) address spaces.
type MemoryMap struct {
	cartridge *Cartridge

	prgBanks [0x100]PRGBank
	chrBanks [0x40]CHRBank

	nameTables [4 * nameTableSize]byte
	chrRAM     []byte
	workRAM    []byte
	wramType   PRGMemoryType

	mirroringType txrom.MirroringType

	wramEnabled        bool
	wramWriteProtected bool
	wramBank           int
	wramWindow         uint16
	wramWindowSize     int
}

func NewMemoryMap(cartridge *Cartridge) *MemoryMap {
	m := &MemoryMap{
		cartridge:      cartridge,
		wramEnabled:    true,
		wramWindow:     0x6000,
		wramWindowSize: 8,
	}

	if !cartridge.HasChrRom() {
		m.chrRAM = make([]byte, CHR_BLOCK_SIZE)
	}

	if cartridge.SaveRAM != nil {
		m.workRAM = cartridge.SaveRAM.Bytes()
		m.wramType = PRG_MEMORY_SAVE_RAM
	} else {
		m.workRAM = make([]byte, WRAM_SIZE)
		m.wramType = PRG_MEMORY_WORK_RAM
	}

	m.SetMirroring(cartridge.MirroringType())
	m.updateWRAM()

	return m
}

func (m *MemoryMap) setCPUPages(startAddr uint16, source []byte, sourceOffset int, size int, memoryType PRGMemoryType, accessType MemoryAccessType) {
	first := int(startAddr >> 8)
	for i := 0; i < size/pageSize && first+i < len(m.prgBanks); i++ {
		offset := sourceOffset + i*pageSize
		m.prgBanks[first+i] = PRGBank{
			ptr:        source[offset : offset+pageSize],
			offset:     int32(offset),
			memoryType: memoryType,
			accessType: accessType,
		}
	}
}

func (m *MemoryMap) setPPUPages(startAddr uint16, source []byte, sourceOffset int, size int, memoryType CHRMemoryType, accessType MemoryAccessType) {
	first := int(startAddr >> 8)
	for i := 0; i < size/pageSize && first+i < len(m.chrBanks); i++ {
		offset := sourceOffset + i*pageSize
		m.chrBanks[first+i] = CHRBank{
			ptr:        source[offset : offset+pageSize],
			offset:     int32(offset),
			memoryType: memoryType,
			accessType: accessType,
		}
	}
}

// wrapPageNumber folds a bank number into the number of banks available.
// negative numbers count from the end.
func wrapPageNumber(page int, pageCount int) int {
	if pageCount <= 0 {
		return 0
	}
	page %= pageCount
	if page < 0 {
		page += pageCount
	}
	return page
}

// SetPRGBank implements the txrom.BankSwitcher interface.
func (m *MemoryMap) SetPRGBank(sizeKiB int, address uint16, bank int) {
	size := sizeKiB * 1024
	if size < pageSize || address < 0x8000 {
		return
	}
	prg := m.cartridge.PRG
	bank = wrapPageNumber(bank, len(prg)/size)
	if len(prg) < size {
		return
	}
	m.setCPUPages(address, prg, bank*size, size, PRG_MEMORY_PRG_ROM, MEMORY_ACCESS_READ)
}

// SetCHRBank implements the txrom.BankSwitcher interface.
func (m *MemoryMap) SetCHRBank(sizeKiB int, address uint16, bank int) {
	size := sizeKiB * 1024
	if size < pageSize || address >= 0x2000 {
		return
	}

	source := m.cartridge.CHR
	memoryType := CHR_MEMORY_CHR_ROM
	accessType := MEMORY_ACCESS_READ
	if m.chrRAM != nil {
		source = m.chrRAM
		memoryType = CHR_MEMORY_CHR_RAM
		accessType = MEMORY_ACCESS_READ_WRITE
	}
	if len(source) < size {
		return
	}

	bank = wrapPageNumber(bank, len(source)/size)
	m.setPPUPages(address, source, bank*size, size, memoryType, accessType)
}

// SetWRAMBank implements the txrom.BankSwitcher interface.
func (m *MemoryMap) SetWRAMBank(sizeKiB int, address uint16, bank int) {
	m.wramBank = bank
	m.wramWindow = address
	m.wramWindowSize = sizeKiB
	m.updateWRAM()
}

// SetWRAMEnable implements the txrom.BankSwitcher interface.
func (m *MemoryMap) SetWRAMEnable(enabled bool) {
	m.wramEnabled = enabled
	m.updateWRAM()
}

// SetWRAMWriteProtect implements the txrom.BankSwitcher interface.
func (m *MemoryMap) SetWRAMWriteProtect(protected bool) {
	m.wramWriteProtected = protected
	m.updateWRAM()
}

func (m *MemoryMap) CanWriteToWorkRAM() bool {
	return m.wramEnabled && !m.wramWriteProtected
}

func (m *MemoryMap) updateWRAM() {
	var access MemoryAccessType
	if m.wramEnabled {
		if m.CanWriteToWorkRAM() {
			access = MEMORY_ACCESS_READ_WRITE
		} else {
			access = MEMORY_ACCESS_READ
		}
	} else {
		access = MEMORY_ACCESS_NO_ACCESS
	}

	size := m.wramWindowSize * 1024
	if size < pageSize || size > len(m.workRAM) {
		size = len(m.workRAM)
	}
	bank := wrapPageNumber(m.wramBank, len(m.workRAM)/size)
	m.setCPUPages(m.wramWindow, m.workRAM, bank*size, size, m.wramType, access)
}

// SetMirroring implements the txrom.BankSwitcher interface.
func (m *MemoryMap) SetMirroring(mirrorType txrom.MirroringType) {
	m.mirroringType = mirrorType
	switch mirrorType {
	case txrom.MIRROR_VERTICAL:
		m.SetNameTables(0, 1, 0, 1)
	case txrom.MIRROR_HORIZONTAL:
		m.SetNameTables(0, 0, 1, 1)
	case txrom.MIRROR_FOUR_SCREEN:
		m.SetNameTables(0, 1, 2, 3)
	case txrom.MIRROR_SINGLE_SCREEN_A:
		m.SetNameTables(0, 0, 0, 0)
	case txrom.MIRROR_SINGLE_SCREEN_B:
		m.SetNameTables(1, 1, 1, 1)
	}
}

func (m *MemoryMap) GetMirroringType() txrom.MirroringType {
	return m.mirroringType
}

func (m *MemoryMap) SetNameTable(index byte, nametableIndex byte) {
	if index > 3 || nametableIndex > 3 {
		return
	}
	offset := int(nametableIndex) * nameTableSize
	m.setPPUPages(0x2000+uint16(index)*nameTableSize, m.nameTables[:], offset, nameTableSize, CHR_MEMORY_NAMETABLE_RAM, MEMORY_ACCESS_READ_WRITE)
	m.setPPUPages(0x3000+uint16(index)*nameTableSize, m.nameTables[:], offset, nameTableSize, CHR_MEMORY_NAMETABLE_RAM, MEMORY_ACCESS_READ_WRITE)
}

func (m *MemoryMap) SetNameTables(nametable1Index, nametable2Index, nametable3Index, nametable4Index byte) {
	m.SetNameTable(0, nametable1Index)
	m.SetNameTable(1, nametable2Index)
	m.SetNameTable(2, nametable3Index)
	m.SetNameTable(3, nametable4Index)
}

// NameTableAt returns which of the four physical nametables is visible in
// the logical slot (0-3).
func (m *MemoryMap) NameTableAt(slot byte) int {
	return int(m.chrBanks[(0x2000+uint16(slot&3)*nameTableSize)>>8].offset) / nameTableSize
}

// PRGBankAt returns the 8 KiB PRG-ROM bank visible at the CPU address, or -1
// when the address is not backed by PRG-ROM.
func (m *MemoryMap) PRGBankAt(address uint16) int {
	bank := m.prgBanks[address>>8]
	if bank.ptr == nil || bank.memoryType != PRG_MEMORY_PRG_ROM {
		return -1
	}
	return int(bank.offset) / 0x2000
}

// CHRBankAt returns the 1 KiB CHR bank visible at the PPU address, or -1
// when the address is not backed by pattern memory.
func (m *MemoryMap) CHRBankAt(address uint16) int {
	bank := m.chrBanks[(address&0x3FFF)>>8]
	if bank.ptr == nil || bank.memoryType == CHR_MEMORY_NAMETABLE_RAM {
		return -1
	}
	return int(bank.offset) / 0x400
}

// WRAMAccess returns the access currently allowed to $6000-$7FFF.
func (m *MemoryMap) WRAMAccess() MemoryAccessType {
	return m.prgBanks[0x60].accessType
}

func (m *MemoryMap) ReadMemory(address uint16) byte {
	prgBank := m.prgBanks[address>>8]
	if prgBank.ptr != nil && (prgBank.accessType&MEMORY_ACCESS_READ) > 0 {
		return prgBank.ptr[byte(address)]
	}

	// simulate open bus
	return byte((address >> 8) & 0xff)
}

func (m *MemoryMap) WriteMemory(address uint16, value byte) {
	prgBank := m.prgBanks[address>>8]
	if prgBank.ptr != nil && (prgBank.accessType&MEMORY_ACCESS_WRITE) > 0 {
		prgBank.ptr[byte(address)] = value
	}
}

func (m *MemoryMap) ReadVRAM(address uint16) byte {
	chrBank := m.chrBanks[(address&0x3FFF)>>8]
	if chrBank.ptr != nil && (chrBank.accessType&MEMORY_ACCESS_READ) > 0 {
		return chrBank.ptr[byte(address)]
	}

	// simulate open bus
	return byte((address >> 8) & 0xff)
}

func (m *MemoryMap) WriteVRAM(address uint16, value byte) {
	chrBank := m.chrBanks[(address&0x3FFF)>>8]
	if chrBank.ptr != nil && (chrBank.accessType&MEMORY_ACCESS_WRITE) > 0 {
		chrBank.ptr[byte(address)] = value
	}
}
