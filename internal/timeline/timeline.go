// Package timeline records where the mapper clocked its IRQ counter and
// where it raised the IRQ, one row per frame and one column per scanline,
// and renders the result as an image.
package timeline

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaishuu0123/txrom/txrom"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type Event byte

const (
	EventNone Event = iota
	EventNatural
	EventSynthetic
	EventIRQ
)

var palette = map[Event]color.RGBA{
	EventNone:      {0x10, 0x10, 0x10, 0xFF},
	EventNatural:   {0x30, 0xC0, 0x50, 0xFF},
	EventSynthetic: {0xF0, 0xC0, 0x20, 0xFF},
	EventIRQ:       {0xE0, 0x30, 0x30, 0xFF},
}

// vblank rows are drawn darker
var vblankShade = color.RGBA{0x20, 0x20, 0x40, 0xFF}

type Recorder struct {
	scanlines int
	visible   int
	frames    [][]Event
	current   []Event
}

func NewRecorder(scanlinesPerFrame, visibleScanlines int) *Recorder {
	return &Recorder{
		scanlines: scanlinesPerFrame,
		visible:   visibleScanlines,
		current:   make([]Event, scanlinesPerFrame),
	}
}

// Mark records an event on a scanline of the frame in progress. An IRQ is
// never overwritten by a clock on the same scanline.
func (r *Recorder) Mark(scanline int, event Event) {
	if scanline < 0 || scanline >= r.scanlines {
		return
	}
	if event > r.current[scanline] {
		r.current[scanline] = event
	}
}

// OnEdge is a txrom.EdgeObserver feeding the recorder.
func (r *Recorder) OnEdge(kind txrom.EdgeKind, scanline int) {
	switch kind {
	case txrom.EdgeNatural:
		r.Mark(scanline, EventNatural)
	case txrom.EdgeSynthetic:
		r.Mark(scanline, EventSynthetic)
	}
}

func (r *Recorder) EndFrame() {
	r.frames = append(r.frames, r.current)
	r.current = make([]Event, r.scanlines)
}

func (r *Recorder) Frames() int {
	return len(r.frames)
}

// IRQScanlines returns the scanlines that raised an IRQ in a completed frame.
func (r *Recorder) IRQScanlines(frame int) []int {
	if frame < 0 || frame >= len(r.frames) {
		return nil
	}
	lines := []int{}
	for scanline, e := range r.frames[frame] {
		if e == EventIRQ {
			lines = append(lines, scanline)
		}
	}
	return lines
}

// Image returns one pixel per scanline (x) and frame (y).
func (r *Recorder) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.scanlines, len(r.frames)))
	for y, frame := range r.frames {
		for x, e := range frame {
			c := palette[e]
			if e == EventNone && x >= r.visible {
				c = vblankShade
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func (r *Recorder) Render(scale int) *image.RGBA {
	src := r.Image()
	if scale <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// WriteFile encodes the rendered timeline as PNG or BMP, picked from the
// file extension.
func (r *Recorder) WriteFile(path string, scale int) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".bmp" {
		return fmt.Errorf("timeline: unsupported image format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	img := r.Render(scale)
	if ext == ".bmp" {
		err = bmp.Encode(file, img)
	} else {
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("timeline: %w", err)
	}
	return file.Close()
}
