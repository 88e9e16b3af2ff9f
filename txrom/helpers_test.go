package txrom

// fakeBanks records the last bank placed in every window. CHR windows are
// tracked at 1 KiB granularity, PRG windows at 8 KiB.
type fakeBanks struct {
	prg  map[uint16]int
	chr  map[uint16]int
	wram map[uint16]int

	mirroring      MirroringType
	mirroringCalls int
	wramEnabled    bool
	wramProtected  bool
}

func newFakeBanks() *fakeBanks {
	return &fakeBanks{
		prg:  map[uint16]int{},
		chr:  map[uint16]int{},
		wram: map[uint16]int{},
	}
}

func (b *fakeBanks) SetPRGBank(sizeKiB int, address uint16, bank int) {
	pages := sizeKiB / 8
	for i := 0; i < pages; i++ {
		b.prg[address+uint16(i)*0x2000] = bank*pages + i
	}
}

func (b *fakeBanks) SetCHRBank(sizeKiB int, address uint16, bank int) {
	for i := 0; i < sizeKiB; i++ {
		b.chr[address+uint16(i)*0x0400] = bank*sizeKiB + i
	}
}

func (b *fakeBanks) SetWRAMBank(sizeKiB int, address uint16, bank int) {
	b.wram[address] = bank
}

func (b *fakeBanks) SetMirroring(mirroring MirroringType) {
	b.mirroring = mirroring
	b.mirroringCalls++
}

func (b *fakeBanks) SetWRAMEnable(enabled bool) {
	b.wramEnabled = enabled
}

func (b *fakeBanks) SetWRAMWriteProtect(protected bool) {
	b.wramProtected = protected
}

func (b *fakeBanks) snapshot() (map[uint16]int, map[uint16]int) {
	prg := make(map[uint16]int, len(b.prg))
	for k, v := range b.prg {
		prg[k] = v
	}
	chr := make(map[uint16]int, len(b.chr))
	for k, v := range b.chr {
		chr[k] = v
	}
	return prg, chr
}

type fakeIRQ struct {
	line     bool
	asserts  int
	acks     int
	onAssert func()
}

func (i *fakeIRQ) AssertIRQ() {
	i.line = true
	i.asserts++
	if i.onAssert != nil {
		i.onAssert()
	}
}

func (i *fakeIRQ) AcknowledgeIRQ() {
	i.line = false
	i.acks++
}

type fakeScanline struct {
	line int
	ok   bool
}

func (s *fakeScanline) CurrentScanline() (int, bool) {
	return s.line, s.ok
}

type testRig struct {
	m        *MMC3
	banks    *fakeBanks
	irq      *fakeIRQ
	scanline *fakeScanline
	edges    []EdgeKind
}

func newTestRig(prgBanks int, opts Options) *testRig {
	r := &testRig{
		banks:    newFakeBanks(),
		irq:      &fakeIRQ{},
		scanline: &fakeScanline{ok: true},
	}
	opts.OnEdge = func(kind EdgeKind, _ int) {
		r.edges = append(r.edges, kind)
	}
	r.m = NewMMC3(Board{PRGBanks: prgBanks}, Host{
		Banks:    r.banks,
		IRQ:      r.irq,
		Scanline: r.scanline,
	}, opts)
	return r
}

func (r *testRig) write(addr uint16, value byte) {
	r.m.WriteRegister(addr, value)
}

func (r *testRig) selectBank(mode, register byte) {
	r.write(0x8000, mode|register)
}

// risingEdge produces one A12 0->1 transition on the given scanline.
func (r *testRig) risingEdge(scanline int) {
	r.scanline.line = scanline
	r.m.NotifyVRAMAddressChange(0x0FF0)
	r.m.NotifyVRAMAddressChange(0x1FF0)
}

func (r *testRig) count(kind EdgeKind) int {
	n := 0
	for _, k := range r.edges {
		if k == kind {
			n++
		}
	}
	return n
}
