package txrom

import "log"

// FrameStats summarises the counter clocks of one complete frame.
type FrameStats struct {
	Frame          int
	NaturalEdges   int
	SyntheticEdges int
	IRQs           int
	EnableChanges  int
	IRQEnabled     bool
}

func (s FrameStats) TotalEdges() int {
	return s.NaturalEdges + s.SyntheticEdges
}

type frameStats struct {
	frame          int
	naturalEdges   int
	syntheticEdges int
	irqs           int
	enableChanges  int

	last FrameStats
}

func (s *frameStats) endFrame(irqEnabled bool, trace bool) {
	s.frame++
	s.last = FrameStats{
		Frame:          s.frame,
		NaturalEdges:   s.naturalEdges,
		SyntheticEdges: s.syntheticEdges,
		IRQs:           s.irqs,
		EnableChanges:  s.enableChanges,
		IRQEnabled:     irqEnabled,
	}

	if trace {
		enabled := "NO"
		if irqEnabled {
			enabled = "YES"
		}
		log.Printf("MMC3: frame %d: A12 edges=%d (nat=%d, syn=%d) IRQs=%d IRQ changes=%d IRQ enabled=%s\n",
			s.last.Frame, s.last.TotalEdges(), s.last.NaturalEdges, s.last.SyntheticEdges,
			s.last.IRQs, s.last.EnableChanges, enabled)
	}

	s.naturalEdges = 0
	s.syntheticEdges = 0
	s.irqs = 0
	s.enableChanges = 0
}

// LastFrameStats returns the statistics of the most recently completed frame.
func (m *MMC3) LastFrameStats() FrameStats {
	return m.stats.last
}
