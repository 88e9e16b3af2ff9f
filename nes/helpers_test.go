package nes

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildNES returns an iNES image. Every 8 KiB PRG bank is filled with its
// own index and every 1 KiB CHR bank with its own index.
func buildNES(numPRG, numCHR, control1, control2 byte, trainer bool) []byte {
	var buf bytes.Buffer
	header := iNESFileHeader{
		Magic:    iNESFileMagic,
		NumPRG:   numPRG,
		NumCHR:   numCHR,
		Control1: control1,
		Control2: control2,
	}
	if trainer {
		header.Control1 |= 4
	}
	binary.Write(&buf, binary.LittleEndian, header)
	if trainer {
		buf.Write(bytes.Repeat([]byte{0xEE}, 512))
	}
	for i := 0; i < int(numPRG)*2; i++ {
		buf.Write(bytes.Repeat([]byte{byte(i)}, 0x2000))
	}
	for i := 0; i < int(numCHR)*8; i++ {
		buf.Write(bytes.Repeat([]byte{byte(i)}, 0x400))
	}
	return buf.Bytes()
}

// newTestCartridge returns an MMC3 cartridge with 128 KiB PRG and 64 KiB CHR.
func newTestCartridge(t *testing.T) *Cartridge {
	t.Helper()
	cartridge, err := ReadNES(bytes.NewReader(buildNES(8, 8, 0x40, 0x00, false)), "test.nes")
	require.NoError(t, err)
	return cartridge
}
