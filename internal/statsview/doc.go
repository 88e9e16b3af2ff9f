// Package statsview serves live charts of the trace tool over HTTP: the
// per-frame IRQ counter clocks of the mapper next to a few Go runtime
// series. The server itself is only compiled with the statsview build tag;
// without it Launch does nothing and Available reports false.
//
// The page is at localhost:12600/debug/statsview once launched.
package statsview
