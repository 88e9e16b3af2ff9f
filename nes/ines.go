// refs: github.com/fogleman/nes
package nes

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const iNESFileMagic = 0x1a53454e

// 16KiB (0x4000)
const PRG_BLOCK_SIZE = 16384

// 8KiB (0x2000)
const CHR_BLOCK_SIZE = 8192

var ErrInvalidNESFile = errors.New("invalid .nes file")

type iNESFileHeader struct {
	Magic    uint32  // iNES magic number
	NumPRG   byte    // number of PRG-ROM banks (16KB each)
	NumCHR   byte    // number of CHR-ROM banks (8KB each)
	Control1 byte    // control bits
	Control2 byte    // control bits
	NumRAM   byte    // PRG-RAM size (x 8KB)
	_        [7]byte // unused padding
}

// LoadNESFile reads an iNES file (.nes) and returns a Cartridge on success.
// Battery backed cartridges get their save RAM mapped from a .sav file next
// to the ROM.
// http://wiki.nesdev.com/w/index.php/INES
func LoadNESFile(path string) (*Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cartridge, err := ReadNES(file, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cartridge.HasBattery() {
		cartridge.SaveRAM, err = OpenSaveRAM(path, WRAM_SIZE)
		if err != nil {
			return nil, err
		}
	}

	return cartridge, nil
}

// ReadNES parses an iNES image. path is only recorded in the cartridge.
func ReadNES(r io.Reader, path string) (*Cartridge, error) {
	header := iNESFileHeader{}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	if header.Magic != iNESFileMagic {
		return nil, ErrInvalidNESFile
	}
	if header.NumPRG == 0 {
		return nil, fmt.Errorf("%w: no PRG-ROM", ErrInvalidNESFile)
	}

	// mapper ID
	mapper1 := header.Control1 >> 4
	mapper2 := header.Control2 >> 4
	mapperID := mapper1 | mapper2<<4

	// mirroring type
	mirror1 := header.Control1 & 1
	mirror2 := (header.Control1 >> 3) & 1
	mirror := mirror1 | mirror2<<1

	// battery-backed RAM
	battery := (header.Control1 >> 1) & 1

	// read trainer if present (unused)
	if header.Control1&4 == 4 {
		trainer := make([]byte, 512)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, err
		}
	}

	prg := make([]byte, int(header.NumPRG)*PRG_BLOCK_SIZE)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, err
	}

	chr := make([]byte, int(header.NumCHR)*CHR_BLOCK_SIZE)
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, err
	}

	return NewCartridge(prg, chr, mapperID, mirror, battery, path, header.NumPRG, header.NumCHR), nil
}
