// refs: github.com/fogleman/nes
package nes

import (
	"log"

	"github.com/kaishuu0123/txrom/txrom"
)

const (
	MirrorHorizontal byte = 0
	MirrorVertical   byte = 1
	MirrorFourScreen byte = 2 // bit 1, set together with either of the above
)

type Cartridge struct {
	PRG      []byte // PRG-ROM banks
	CHR      []byte // CHR-ROM banks
	MapperID byte   // mapper ID
	Mirror   byte   // mirroring mode
	Battery  byte   // battery present
	SaveRAM  *SaveRAM

	// Meta data (from iNES header)
	ROMFilePath string
	NumPRG      byte
	NumCHR      byte
	PRGSize     uint32
	CHRSize     uint32
}

func NewCartridge(prg, chr []byte, mapperID, mirror, battery byte, romFilePath string, numPRG, numCHR byte) *Cartridge {
	log.Printf("PRG Size: %d\n", numPRG)
	log.Printf("CHR Size: %d\n", numCHR)
	log.Printf("Has Battery: %v\n", battery == 1)
	log.Printf("Mapper ID: %d\n", mapperID)
	log.Printf("Mirroring: %d\n", mirror)

	return &Cartridge{
		PRG:         prg,
		CHR:         chr,
		MapperID:    mapperID,
		Mirror:      mirror,
		Battery:     battery,
		ROMFilePath: romFilePath,
		NumPRG:      numPRG,
		NumCHR:      numCHR,
		PRGSize:     uint32(len(prg)),
		CHRSize:     uint32(numCHR) * CHR_BLOCK_SIZE,
	}
}

func (c *Cartridge) HasChrRom() bool {
	return c.NumCHR > 0
}

func (c *Cartridge) HasBattery() bool {
	return c.Battery == 1
}

func (c *Cartridge) FourScreen() bool {
	return c.Mirror&MirrorFourScreen != 0
}

func (c *Cartridge) MirroringType() txrom.MirroringType {
	switch {
	case c.FourScreen():
		return txrom.MIRROR_FOUR_SCREEN
	case c.Mirror&MirrorVertical != 0:
		return txrom.MIRROR_VERTICAL
	}
	return txrom.MIRROR_HORIZONTAL
}

// Board returns what the mapper needs to know about the cartridge wiring.
func (c *Cartridge) Board() txrom.Board {
	return txrom.Board{
		PRGBanks:   len(c.PRG) / 0x2000,
		FourScreen: c.FourScreen(),
	}
}

func (c *Cartridge) Close() error {
	if c.SaveRAM != nil {
		return c.SaveRAM.Close()
	}
	return nil
}
