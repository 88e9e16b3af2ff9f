// refs: github.com/libretro/Mesen
package txrom

type A12StateChange byte

const (
	A12_STATE_CHANGE_NONE A12StateChange = iota
	A12_STATE_CHANGE_RISE
	A12_STATE_CHANGE_FALL
)

// A12Watcher follows PPU address line 12 across pattern table fetches.
// Nametable and palette accesses ($2000-$3FFF) are not seen by the watcher.
type A12Watcher struct {
	high bool
}

func (a *A12Watcher) UpdateVRAMAddress(addr uint16) A12StateChange {
	if addr&0x2000 != 0 {
		return A12_STATE_CHANGE_NONE
	}

	result := A12_STATE_CHANGE_NONE
	high := addr&0x1000 == 0x1000
	if high && !a.high {
		result = A12_STATE_CHANGE_RISE
	} else if !high && a.high {
		result = A12_STATE_CHANGE_FALL
	}
	a.high = high

	return result
}

func (a *A12Watcher) High() bool {
	return a.high
}

func (a *A12Watcher) Reset() {
	a.high = false
}

type irqState struct {
	counter       byte
	latch         byte
	enabled       bool
	reloadPending bool
}

// clockIRQ is called once per counter clock, natural or synthetic.
//
// a pending reload or an empty counter reloads from the latch and never
// raises the IRQ, even when the latch is zero. only a decrement that lands
// on zero does.
func (m *MMC3) clockIRQ() {
	m.clocking = true

	fire := false
	if m.irq.reloadPending || m.irq.counter == 0 {
		m.irq.counter = m.irq.latch
		m.irq.reloadPending = false
	} else {
		m.irq.counter--
		fire = m.irq.counter == 0 && m.irq.enabled
	}

	if fire {
		m.stats.irqs++
		m.host.IRQ.AssertIRQ()
	}

	m.clocking = false
	m.flushDeferred()
}

func (m *MMC3) flushDeferred() {
	for len(m.deferred) > 0 {
		w := m.deferred[0]
		m.deferred = m.deferred[1:]
		m.WriteRegister(w.address, w.value)
	}
	m.deferred = m.deferred[:0]
}

// NotifyVRAMAddressChange watches A12 on every PPU bus access. A rising edge
// always clocks the counter, even when the host cannot report a scanline;
// only the per-scanline edge record needs one, and the observer then gets
// scanline -1.
func (m *MMC3) NotifyVRAMAddressChange(address uint16) {
	if m.opts.Timing != TimingA12Edge {
		return
	}
	if m.a12.UpdateVRAMAddress(address) != A12_STATE_CHANGE_RISE {
		return
	}

	m.stats.naturalEdges++
	m.clockIRQ()

	scanline, ok := m.host.currentScanline()
	if ok && m.edges.mark(scanline) {
		m.observe(EdgeNatural, scanline)
		return
	}
	m.observe(EdgeNatural, -1)
}

func (m *MMC3) observe(kind EdgeKind, scanline int) {
	if m.opts.OnEdge != nil {
		m.opts.OnEdge(kind, scanline)
	}
}

// IRQCounter returns the live value of the scanline counter.
func (m *MMC3) IRQCounter() byte {
	return m.irq.counter
}

func (m *MMC3) IRQLatch() byte {
	return m.irq.latch
}

func (m *MMC3) IRQEnabled() bool {
	return m.irq.enabled
}

func (m *MMC3) IRQReloadPending() bool {
	return m.irq.reloadPending
}
