package txrom

import "fmt"

// TimingMode selects how the IRQ counter is clocked.
type TimingMode int

const (
	// TimingA12Edge clocks the counter on PPU A12 rising edges and tops up
	// missing edges per scanline and per frame.
	TimingA12Edge TimingMode = iota

	// TimingScanline ignores PPU fetches and clocks the counter once per
	// visible scanline boundary.
	TimingScanline
)

func (t TimingMode) String() string {
	switch t {
	case TimingA12Edge:
		return "a12"
	case TimingScanline:
		return "scanline"
	}
	return "unknown"
}

// ParseTimingMode accepts the names returned by TimingMode.String.
func ParseTimingMode(name string) (TimingMode, error) {
	switch name {
	case "a12":
		return TimingA12Edge, nil
	case "scanline":
		return TimingScanline, nil
	}
	return TimingA12Edge, fmt.Errorf("unknown timing mode %q", name)
}

// EdgeKind tells an EdgeObserver where a counter clock came from.
type EdgeKind int

const (
	EdgeNatural EdgeKind = iota
	EdgeSynthetic
)

// EdgeObserver is called for every counter clock. scanline is -1 when the
// host could not report one.
type EdgeObserver func(kind EdgeKind, scanline int)

type Options struct {
	Timing TimingMode

	ScanlinesPerFrame int // visible + post-render + vblank + pre-render
	VisibleScanlines  int

	// log per-frame edge and IRQ statistics
	TraceStats bool

	OnEdge EdgeObserver
}

func DefaultOptions() Options {
	return Options{
		Timing:            TimingA12Edge,
		ScanlinesPerFrame: 262,
		VisibleScanlines:  240,
	}
}

// Normalised fills in a missing frame geometry and keeps the visible
// scanlines within the frame. Hosts that size their own timing from Options
// use it so they agree with the mapper.
func (o Options) Normalised() Options {
	def := DefaultOptions()
	if o.ScanlinesPerFrame <= 0 {
		o.ScanlinesPerFrame = def.ScanlinesPerFrame
	}
	if o.VisibleScanlines <= 0 || o.VisibleScanlines > o.ScanlinesPerFrame {
		o.VisibleScanlines = def.VisibleScanlines
		if o.VisibleScanlines > o.ScanlinesPerFrame {
			o.VisibleScanlines = o.ScanlinesPerFrame
		}
	}
	return o
}
