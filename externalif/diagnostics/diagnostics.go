// Package diagnostics collects the handful of development-time
// introspection tools this module carries but doesn't need on every
// run: a live runtime-metrics web dashboard (go-echarts/statsview) and
// a one-shot memory-graph dump of an arbitrary value (bradleyjkemp/
// memviz, the same library the teacher's own commandline parser test
// uses to visualise a parsed command tree).
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// RuntimeView owns a background HTTP server presenting live goroutine
// count, heap size and GC pause charts at addr (e.g. "localhost:18080").
// It requires no per-console wiring: statsview samples the Go runtime
// directly.
type RuntimeView struct {
	mgr *statsview.Manager
}

// StartRuntimeView starts the dashboard server in the background.
func StartRuntimeView(addr string) *RuntimeView {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()
	return &RuntimeView{mgr: mgr}
}

// Stop shuts the dashboard server down.
func (r *RuntimeView) Stop() { r.mgr.Stop() }

// DumpGraph writes a Graphviz dot representation of v's in-memory
// structure to path, useful for inspecting a System's object graph
// (cartridge mapper state, CPU registers, PPU register file) without
// attaching a debugger.
func DumpGraph(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}
	defer f.Close()
	return dumpGraph(f, v)
}

func dumpGraph(w io.Writer, v interface{}) (err error) {
	// memviz.Map panics on a handful of unsupported reflect kinds
	// (channels, unsafe.Pointer) rather than returning an error; this
	// recovers so one unsupported field doesn't crash a diagnostics-only
	// code path.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diagnostics: memviz: %v", r)
		}
	}()
	memviz.Map(w, v)
	return nil
}
