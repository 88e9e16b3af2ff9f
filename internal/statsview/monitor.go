package statsview

import (
	"sync"

	"github.com/kaishuu0123/txrom/txrom"
)

// Monitor hands frame statistics from the emulation loop to the HTTP
// handlers, which run on their own goroutines.
type Monitor struct {
	mu     sync.Mutex
	last   txrom.FrameStats
	frames int
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Publish records the statistics of a completed frame.
func (m *Monitor) Publish(stats txrom.FrameStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = stats
	m.frames++
}

// Last returns the most recent statistics and how many frames were
// published so far.
func (m *Monitor) Last() (txrom.FrameStats, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.frames
}

// Values returns natural edges, synthetic edges and IRQs of the last frame,
// in the order of the chart series.
func (m *Monitor) Values() []float64 {
	stats, _ := m.Last()
	return []float64{
		float64(stats.NaturalEdges),
		float64(stats.SyntheticEdges),
		float64(stats.IRQs),
	}
}
