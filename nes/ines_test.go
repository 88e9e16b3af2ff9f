package nes

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kaishuu0123/txrom/txrom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNES(t *testing.T) {
	tests := []struct {
		name      string
		control1  byte
		control2  byte
		trainer   bool
		mapperID  byte
		mirroring txrom.MirroringType
		battery   bool
	}{
		{"mmc3 horizontal", 0x40, 0x00, false, 4, txrom.MIRROR_HORIZONTAL, false},
		{"mmc3 vertical battery", 0x43, 0x00, false, 4, txrom.MIRROR_VERTICAL, true},
		{"mmc3 four-screen", 0x48, 0x00, false, 4, txrom.MIRROR_FOUR_SCREEN, false},
		{"trainer skipped", 0x40, 0x00, true, 4, txrom.MIRROR_HORIZONTAL, false},
		{"high mapper nibble", 0x40, 0x10, false, 20, txrom.MIRROR_HORIZONTAL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := buildNES(2, 1, tt.control1, tt.control2, tt.trainer)
			cartridge, err := ReadNES(bytes.NewReader(image), "game.nes")
			require.NoError(t, err)

			assert.Equal(t, tt.mapperID, cartridge.MapperID)
			assert.Equal(t, tt.mirroring, cartridge.MirroringType())
			assert.Equal(t, tt.battery, cartridge.HasBattery())
			assert.Equal(t, 4, cartridge.Board().PRGBanks)
			assert.Equal(t, uint32(0x8000), cartridge.PRGSize)
			assert.Equal(t, uint32(0x2000), cartridge.CHRSize)
			// first byte of the last PRG bank, not trainer data
			assert.Equal(t, byte(3), cartridge.PRG[0x6000])
		})
	}
}

func TestReadNESErrors(t *testing.T) {
	image := buildNES(2, 1, 0x40, 0x00, false)

	bad := append([]byte{}, image...)
	bad[0] = 'X'
	_, err := ReadNES(bytes.NewReader(bad), "bad.nes")
	assert.ErrorIs(t, err, ErrInvalidNESFile)

	_, err = ReadNES(bytes.NewReader(buildNES(0, 1, 0x40, 0x00, false)), "empty.nes")
	assert.ErrorIs(t, err, ErrInvalidNESFile)

	_, err = ReadNES(bytes.NewReader(image[:0x1000]), "short.nes")
	assert.Error(t, err)
}

func TestLoadNESFileWithBattery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.nes")
	require.NoError(t, os.WriteFile(path, buildNES(2, 1, 0x42, 0x00, false), 0644))

	cartridge, err := LoadNESFile(path)
	require.NoError(t, err)
	require.NotNil(t, cartridge.SaveRAM)
	assert.Len(t, cartridge.SaveRAM.Bytes(), WRAM_SIZE)

	cartridge.SaveRAM.Bytes()[0x10] = 0x5A
	require.NoError(t, cartridge.Close())

	info, err := os.Stat(filepath.Join(dir, "game.sav"))
	require.NoError(t, err)
	assert.Equal(t, int64(WRAM_SIZE), info.Size())

	cartridge, err = LoadNESFile(path)
	require.NoError(t, err)
	defer cartridge.Close()
	assert.Equal(t, byte(0x5A), cartridge.SaveRAM.Bytes()[0x10])
}

func TestLoadNESFileMissing(t *testing.T) {
	_, err := LoadNESFile(filepath.Join(t.TempDir(), "missing.nes"))
	assert.Error(t, err)
}
