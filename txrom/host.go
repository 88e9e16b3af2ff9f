package txrom

type MirroringType uint16

const (
	MIRROR_HORIZONTAL MirroringType = iota
	MIRROR_VERTICAL
	MIRROR_SINGLE_SCREEN_A
	MIRROR_SINGLE_SCREEN_B
	MIRROR_FOUR_SCREEN
)

func (m MirroringType) String() string {
	switch m {
	case MIRROR_HORIZONTAL:
		return "horizontal"
	case MIRROR_VERTICAL:
		return "vertical"
	case MIRROR_SINGLE_SCREEN_A:
		return "single-screen A"
	case MIRROR_SINGLE_SCREEN_B:
		return "single-screen B"
	case MIRROR_FOUR_SCREEN:
		return "four-screen"
	}
	return "unknown"
}

// BankSwitcher is implemented by the host memory subsystem. Sizes are in
// KiB, addresses are the first address of the window and bank numbers count
// in units of the window size.
type BankSwitcher interface {
	SetPRGBank(sizeKiB int, address uint16, bank int)
	SetCHRBank(sizeKiB int, address uint16, bank int)
	SetWRAMBank(sizeKiB int, address uint16, bank int)
	SetMirroring(mirroring MirroringType)
	SetWRAMEnable(enabled bool)
	SetWRAMWriteProtect(protected bool)
}

// IRQLine is the CPU interrupt input driven by the cartridge.
type IRQLine interface {
	AssertIRQ()
	AcknowledgeIRQ()
}

// ScanlineSource reports the scanline the PPU is currently on. ok is false
// when the host has no frame context (before the first frame, headless
// register tests and so on).
type ScanlineSource interface {
	CurrentScanline() (scanline int, ok bool)
}

// Host groups the primitives a mapper consumes. Scanline may be nil.
type Host struct {
	Banks    BankSwitcher
	IRQ      IRQLine
	Scanline ScanlineSource
}

func (h Host) currentScanline() (int, bool) {
	if h.Scanline == nil {
		return -1, false
	}
	return h.Scanline.CurrentScanline()
}
