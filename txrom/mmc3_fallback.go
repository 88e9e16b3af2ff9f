package txrom

// scanlineEdges records which scanlines of the current frame produced a
// natural A12 edge.
type scanlineEdges struct {
	recorded []bool
	visible  int
}

func newScanlineEdges(total, visible int) *scanlineEdges {
	return &scanlineEdges{
		recorded: make([]bool, total),
		visible:  visible,
	}
}

func (s *scanlineEdges) inRange(scanline int) bool {
	return scanline >= 0 && scanline < len(s.recorded)
}

// mark returns false when the scanline is outside the frame.
func (s *scanlineEdges) mark(scanline int) bool {
	if !s.inRange(scanline) {
		return false
	}
	s.recorded[scanline] = true
	return true
}

func (s *scanlineEdges) has(scanline int) bool {
	return s.inRange(scanline) && s.recorded[scanline]
}

// visibleCount counts recorded edges over the visible scanlines only.
func (s *scanlineEdges) visibleCount() int {
	n := 0
	for _, r := range s.recorded[:s.visible] {
		if r {
			n++
		}
	}
	return n
}

func (s *scanlineEdges) clear() {
	for i := range s.recorded {
		s.recorded[i] = false
	}
}

func (m *MMC3) OnScanlineBoundary(inVblank bool) {
	scanline, ok := m.host.currentScanline()
	if !ok || !m.edges.inRange(scanline) {
		return
	}

	visible := scanline < m.opts.VisibleScanlines
	last := scanline == m.opts.ScanlinesPerFrame-1

	if m.opts.Timing == TimingScanline {
		if !inVblank && visible {
			m.syntheticClock(scanline)
		}
		if inVblank && last {
			m.endFrame()
		}
		return
	}

	if !inVblank && visible && !m.edges.has(scanline) {
		m.syntheticClock(scanline)
		m.edges.mark(scanline)
	}

	if inVblank && last {
		m.topUpFrame()
		m.endFrame()
	}
}

// topUpFrame makes sure the frame delivered at least one clock per visible
// scanline.
func (m *MMC3) topUpFrame() {
	count := m.edges.visibleCount()
	for scanline := 0; scanline < m.opts.VisibleScanlines && count < m.opts.VisibleScanlines; scanline++ {
		if !m.edges.has(scanline) {
			m.syntheticClock(scanline)
			count++
		}
	}
}

func (m *MMC3) syntheticClock(scanline int) {
	m.stats.syntheticEdges++
	m.clockIRQ()
	m.observe(EdgeSynthetic, scanline)
}

func (m *MMC3) endFrame() {
	m.stats.endFrame(m.irq.enabled, m.opts.TraceStats)
	m.edges.clear()
}

// RecordedEdges returns how many scanlines of the frame in progress have a
// recorded edge.
func (m *MMC3) RecordedEdges() int {
	n := 0
	for _, r := range m.edges.recorded {
		if r {
			n++
		}
	}
	return n
}
