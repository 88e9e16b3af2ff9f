package nes

const CyclesPerScanline = 341

// PPUTiming walks the dots of a frame and reproduces the PPU's pattern and
// nametable fetch addresses. It does not render anything; it exists to drive
// a cartridge's bus watcher and scanline hook with realistic timing.
type PPUTiming struct {
	ScanLine int    // 0-261, 0-239=visible, 240=post, 241-260=vblank, 261=pre
	Cycle    int    // 0-340
	Frame    uint64 // frame counter

	ScanlinesPerFrame int
	VisibleScanlines  int

	RenderingEnabled  bool
	BackgroundTable   uint16 // $0000 or $1000
	SpriteTable       uint16 // $0000 or $1000
	DropFetchesEveryN int    // drop every fetch on every Nth scanline, 0 = never

	// called for every PPU bus access
	OnFetch func(addr uint16)

	// called after the last dot of every scanline
	OnScanlineEnd func(inVblank bool)
}

func NewPPUTiming(scanlinesPerFrame, visibleScanlines int) *PPUTiming {
	t := &PPUTiming{
		ScanlinesPerFrame: scanlinesPerFrame,
		VisibleScanlines:  visibleScanlines,
		RenderingEnabled:  true,
		BackgroundTable:   0x0000,
		SpriteTable:       0x1000,
	}
	t.Reset()
	return t
}

func (t *PPUTiming) Reset() {
	t.ScanLine = 0
	t.Cycle = 0
	t.Frame = 0
}

// CurrentScanline implements the txrom.ScanlineSource interface.
func (t *PPUTiming) CurrentScanline() (int, bool) {
	if t.ScanLine < 0 || t.ScanLine >= t.ScanlinesPerFrame {
		return -1, false
	}
	return t.ScanLine, true
}

func (t *PPUTiming) IsPreRenderLine() bool {
	return t.ScanLine == t.ScanlinesPerFrame-1
}

func (t *PPUTiming) isFetchLine() bool {
	if !t.RenderingEnabled {
		return false
	}
	if t.DropFetchesEveryN > 0 && t.ScanLine%t.DropFetchesEveryN == 0 {
		return false
	}
	return t.ScanLine < t.VisibleScanlines || t.IsPreRenderLine()
}

// fetchAddress returns the address the PPU puts on its bus at the current
// dot. Every fetch takes two dots; the address is reported on the second.
func (t *PPUTiming) fetchAddress() (uint16, bool) {
	if !t.isFetchLine() || t.Cycle == 0 {
		return 0, false
	}

	fineY := uint16(t.ScanLine & 0x07)
	phase := (t.Cycle - 1) & 0x07

	switch {
	case t.Cycle <= 256 || (t.Cycle >= 321 && t.Cycle <= 336):
		tile := uint16(t.Cycle>>3) & 0xFF
		switch phase {
		case 1:
			return 0x2000 | (uint16(t.ScanLine>>3)<<5 | tile&0x1F), true
		case 3:
			return 0x23C0 | (uint16(t.ScanLine>>5)<<3 | (tile&0x1F)>>2), true
		case 5:
			return t.BackgroundTable | tile<<4 | fineY, true
		case 7:
			return t.BackgroundTable | tile<<4 | fineY | 0x08, true
		}
	case t.Cycle <= 320:
		// unused sprite slots fetch tile $FF
		switch phase {
		case 1, 3:
			return 0x2000, true
		case 5:
			return t.SpriteTable | 0xFF<<4 | fineY, true
		case 7:
			return t.SpriteTable | 0xFF<<4 | fineY | 0x08, true
		}
	case t.Cycle == 338 || t.Cycle == 340:
		return 0x2000, true
	}

	return 0, false
}

// Step advances one PPU dot.
func (t *PPUTiming) Step() {
	if addr, ok := t.fetchAddress(); ok && t.OnFetch != nil {
		t.OnFetch(addr)
	}

	t.Cycle++
	if t.Cycle < CyclesPerScanline {
		return
	}

	if t.OnScanlineEnd != nil {
		t.OnScanlineEnd(t.ScanLine >= t.VisibleScanlines)
	}

	t.Cycle = 0
	t.ScanLine++
	if t.ScanLine >= t.ScanlinesPerFrame {
		t.ScanLine = 0
		t.Frame++
	}
}
