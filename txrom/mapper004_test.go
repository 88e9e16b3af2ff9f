package txrom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerOnLayout(t *testing.T) {
	r := newTestRig(16, DefaultOptions())

	assert.Equal(t, map[uint16]int{0x8000: 0, 0xA000: 0, 0xC000: 14, 0xE000: 15}, r.banks.prg)
	for i := 0; i < 8; i++ {
		assert.Equal(t, i, r.banks.chr[uint16(i)*0x400])
	}
	assert.Equal(t, 0, r.banks.wram[0x6000])
	assert.Equal(t, 0, r.banks.mirroringCalls)
}

func TestPRGModeInvert(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		r := newTestRig(16, DefaultOptions())
		r.selectBank(0x00, 6)
		r.write(0x8001, 5)
		assert.Equal(t, 5, r.banks.prg[0x8000])
		assert.Equal(t, 14, r.banks.prg[0xC000])
		assert.Equal(t, 15, r.banks.prg[0xE000])
	})

	t.Run("inverted", func(t *testing.T) {
		r := newTestRig(16, DefaultOptions())
		r.selectBank(0x40, 6)
		r.write(0x8001, 5)
		assert.Equal(t, 14, r.banks.prg[0x8000])
		assert.Equal(t, 5, r.banks.prg[0xC000])
		assert.Equal(t, 15, r.banks.prg[0xE000])
	})

	t.Run("flip after write", func(t *testing.T) {
		r := newTestRig(16, DefaultOptions())
		r.selectBank(0x00, 6)
		r.write(0x8001, 5)

		r.selectBank(0x40, 0)
		assert.Equal(t, 14, r.banks.prg[0x8000])
		assert.Equal(t, 5, r.banks.prg[0xC000])

		r.selectBank(0x00, 0)
		assert.Equal(t, 5, r.banks.prg[0x8000])
		assert.Equal(t, 14, r.banks.prg[0xC000])
	})
}

func TestR7(t *testing.T) {
	r := newTestRig(16, DefaultOptions())
	r.selectBank(0x40, 7)
	r.write(0x8001, 9)
	assert.Equal(t, 9, r.banks.prg[0xA000])
	assert.Equal(t, byte(9), r.m.State().PRGReg7)
}

func TestCHREvenAlignment(t *testing.T) {
	for _, value := range []byte{0x01, 0x0B, 0x7F, 0xFF} {
		r := newTestRig(16, DefaultOptions())

		r.selectBank(0x00, 0)
		r.write(0x8001, value)
		r.selectBank(0x00, 1)
		r.write(0x8001, value)

		even := int(value &^ 1)
		state := r.m.State()
		assert.Equal(t, byte(even), state.CHRRegs[0])
		assert.Equal(t, byte(even), state.CHRRegs[1])
		assert.Equal(t, even, r.banks.chr[0x0000])
		assert.Equal(t, even+1, r.banks.chr[0x0400])
		assert.Equal(t, even, r.banks.chr[0x0800])
		assert.Equal(t, even+1, r.banks.chr[0x0C00])
	}
}

func TestCHRInversion(t *testing.T) {
	r := newTestRig(16, DefaultOptions())
	for reg, bank := range []byte{4, 6, 20, 21, 22, 23} {
		r.selectBank(0x00, byte(reg))
		r.write(0x8001, bank)
	}

	assert.Equal(t, 4, r.banks.chr[0x0000])
	assert.Equal(t, 5, r.banks.chr[0x0400])
	assert.Equal(t, 6, r.banks.chr[0x0800])
	assert.Equal(t, 7, r.banks.chr[0x0C00])
	assert.Equal(t, 20, r.banks.chr[0x1000])
	assert.Equal(t, 23, r.banks.chr[0x1C00])

	r.selectBank(0x80, 0)
	assert.Equal(t, 20, r.banks.chr[0x0000])
	assert.Equal(t, 21, r.banks.chr[0x0400])
	assert.Equal(t, 22, r.banks.chr[0x0800])
	assert.Equal(t, 23, r.banks.chr[0x0C00])
	assert.Equal(t, 4, r.banks.chr[0x1000])
	assert.Equal(t, 5, r.banks.chr[0x1400])
	assert.Equal(t, 6, r.banks.chr[0x1800])
	assert.Equal(t, 7, r.banks.chr[0x1C00])

	// 1 KiB writes in inverted mode go to the low pattern table
	r.selectBank(0x80, 5)
	r.write(0x8001, 30)
	assert.Equal(t, 30, r.banks.chr[0x0C00])
}

func TestBankWritesIdempotent(t *testing.T) {
	sequence := []struct {
		addr  uint16
		value byte
	}{
		{0x8000, 0x46}, {0x8001, 3},
		{0x8000, 0x47}, {0x8001, 8},
		{0x8000, 0x80}, {0x8001, 13},
		{0x8000, 0x82}, {0x8001, 40},
		{0x8000, 0x85}, {0x8001, 41},
	}

	r := newTestRig(32, DefaultOptions())
	for _, w := range sequence {
		r.write(w.addr, w.value)
	}
	prgOnce, chrOnce := r.banks.snapshot()
	stateOnce := r.m.State()

	for _, w := range sequence {
		r.write(w.addr, w.value)
	}
	prgTwice, chrTwice := r.banks.snapshot()

	assert.Equal(t, prgOnce, prgTwice)
	assert.Equal(t, chrOnce, chrTwice)
	assert.Equal(t, stateOnce, r.m.State())
}

func TestRegisterAddressDecoding(t *testing.T) {
	r := newTestRig(16, DefaultOptions())

	// $9FFE decodes as $8000, $9FFF as $8001
	r.write(0x9FFE, 0x06)
	r.write(0x9FFF, 3)
	assert.Equal(t, 3, r.banks.prg[0x8000])

	// $BFFF decodes as $A001
	r.write(0xBFFF, 0x80)
	assert.True(t, r.banks.wramEnabled)

	// $DFFE decodes as $C000
	r.write(0xDFFE, 42)
	assert.Equal(t, byte(42), r.m.IRQLatch())

	// $FFFF decodes as $E001
	r.write(0xFFFF, 0)
	assert.True(t, r.m.IRQEnabled())
}

func TestMirroringControl(t *testing.T) {
	r := newTestRig(16, DefaultOptions())

	r.write(0xA000, 0x00)
	assert.Equal(t, MIRROR_VERTICAL, r.banks.mirroring)
	r.write(0xA000, 0x01)
	assert.Equal(t, MIRROR_HORIZONTAL, r.banks.mirroring)
	r.write(0xA000, 0xFE)
	assert.Equal(t, MIRROR_VERTICAL, r.banks.mirroring)
	assert.Equal(t, 3, r.banks.mirroringCalls)
}

func TestMirroringIgnoredOnFourScreen(t *testing.T) {
	banks := newFakeBanks()
	m := NewMMC3(Board{PRGBanks: 16, FourScreen: true}, Host{Banks: banks}, DefaultOptions())

	m.WriteRegister(0xA000, 0x01)
	m.WriteRegister(0xA000, 0x00)
	assert.Equal(t, 0, banks.mirroringCalls)
}

func TestWRAMControl(t *testing.T) {
	r := newTestRig(16, DefaultOptions())

	r.write(0xA001, 0x82)
	assert.True(t, r.banks.wramEnabled)
	assert.False(t, r.banks.wramProtected)
	assert.Equal(t, 2, r.banks.wram[0x6000])
	assert.True(t, r.m.CanWriteToWorkRAM())

	r.write(0xA001, 0xC0)
	assert.True(t, r.banks.wramEnabled)
	assert.True(t, r.banks.wramProtected)
	assert.Equal(t, 0, r.banks.wram[0x6000])
	assert.False(t, r.m.CanWriteToWorkRAM())

	r.write(0xA001, 0x40)
	assert.False(t, r.banks.wramEnabled)
	assert.False(t, r.m.CanWriteToWorkRAM())
}

func TestResetClearsRegisters(t *testing.T) {
	r := newTestRig(16, DefaultOptions())
	r.write(0x8000, 0xC6)
	r.write(0x8001, 7)
	r.write(0xC000, 10)
	r.write(0xC001, 0)
	r.write(0xE001, 0)
	r.risingEdge(3)

	r.m.Reset()

	require.Equal(t, MMC3State{}, r.m.State())
	assert.Equal(t, 0, r.m.RecordedEdges())
	assert.Equal(t, 14, r.banks.prg[0xC000])
	assert.Equal(t, 0, r.banks.prg[0x8000])
}

func TestTinyPRG(t *testing.T) {
	r := newTestRig(1, DefaultOptions())
	assert.Equal(t, 0, r.banks.prg[0xC000])
	assert.Equal(t, 0, r.banks.prg[0xE000])
}
