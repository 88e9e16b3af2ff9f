//go:build !statsview
// +build !statsview

package statsview

import "io"

const Address = ""

// Launch does nothing without the statsview build tag.
func Launch(output io.Writer, monitor *Monitor) {
}

// Available returns false if statsview is not built in.
func Available() bool {
	return false
}
