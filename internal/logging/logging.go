// Package logging provides the structured logger shared by the renderer
// core: Renderer routine resolution and pipeline-cache export/import
// report through it. It is never called from an emitted routine's hot
// path.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once   sync.Once
	shared *log.Logger
)

func get() *log.Logger {
	once.Do(func() {
		shared = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "swr",
		})
		shared.SetLevel(log.WarnLevel)
	})
	return shared
}

// SetLevel adjusts the global verbosity, which starts at WarnLevel. No
// package of this module calls it.
func SetLevel(level log.Level) {
	get().SetLevel(level)
}

func Debugf(msg string, args ...any) { get().Debugf(msg, args...) }
func Infof(msg string, args ...any)  { get().Infof(msg, args...) }
func Warnf(msg string, args ...any)  { get().Warnf(msg, args...) }
func Errorf(msg string, args ...any) { get().Errorf(msg, args...) }

// WithPrefix returns a derived logger tagged with a component name, e.g.
// "scheduler" or "cache:vertex", so log lines can be filtered per
// subsystem without a global level bump.
func WithPrefix(component string) *log.Logger {
	return get().WithPrefix(component)
}
