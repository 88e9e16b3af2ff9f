package txrom

import (
	"errors"
	"fmt"
)

var ErrUnsupportedMapper = errors.New("unsupported mapper")

// Mapper is the cartridge side of the console. The host calls WriteRegister
// for CPU writes to $8000-$FFFF, NotifyVRAMAddressChange for every PPU bus
// access and OnScanlineBoundary once at the end of every scanline.
type Mapper interface {
	Reset()

	// Address range: $8000-$FFFF
	WriteRegister(address uint16, value byte)

	// Address range: $0000-$3FFF
	NotifyVRAMAddressChange(address uint16)

	OnScanlineBoundary(inVblank bool)

	ExportState() []byte
	ImportState(state []byte) error
}

// Board describes the parts of the cartridge a mapper needs to know about.
type Board struct {
	PRGBanks   int // number of 8 KiB PRG-ROM banks
	FourScreen bool
}

func NewMapper(mapperID byte, board Board, host Host, opts Options) (Mapper, error) {
	switch mapperID {
	case 4:
		return NewMMC3(board, host, opts), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, mapperID)
}
