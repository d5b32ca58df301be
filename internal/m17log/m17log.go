// Package m17log renders modem frame/error counters for the cmd/ tools. The
// modem core itself never logs (spec.md §7: "the core does not log or
// display"); this package is used only by cmd/m17mod and cmd/m17demod,
// mirroring the teacher's log.go, which renders decoded packets for
// external consumption rather than embedding logging inside the protocol
// codec.
package m17log

import (
	"os"

	"github.com/charmbracelet/log"
)

// Stats accumulates the frame/error counters a CLI tool wants to report
// over the course of a run.
type Stats struct {
	FramesDecoded     int
	FramesUnknown     int
	LSFDecoded        int
	StreamDecoded     int
	ViterbiCorrected  int
	ViterbiDropped    int
	GolaySegmentsLost int
}

// Logger wraps a charmbracelet/log.Logger configured with the modem's
// field conventions (frame counters, CAN, callsigns).
type Logger struct {
	l *log.Logger
}

// New returns a Logger writing to stderr at the given level name
// ("debug", "info", "warn", "error").
func New(levelName string) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "m17",
	})
	if lvl, err := log.ParseLevel(levelName); err == nil {
		l.SetLevel(lvl)
	}
	return &Logger{l: l}
}

// FrameDecoded logs one successfully decoded frame.
func (lg *Logger) FrameDecoded(kind string, frameNumber uint16, viterbiErrors uint16) {
	lg.l.Info("frame decoded", "type", kind, "frameNumber", frameNumber, "viterbiErrors", viterbiErrors)
}

// FrameDropped logs a frame dropped for the given reason (CrcMismatch,
// ViterbiUnrecoverable, GolayUnrecoverable, UnknownSyncword — spec.md §7).
func (lg *Logger) FrameDropped(reason string) {
	lg.l.Warn("frame dropped", "reason", reason)
}

// BufferOverflow logs a demodulator buffer overflow (spec.md §7: "drop
// oldest samples, warn").
func (lg *Logger) BufferOverflow(droppedSamples int) {
	lg.l.Warn("baseband buffer overflow, dropping oldest samples", "dropped", droppedSamples)
}

// Report prints a final summary of stats.
func (lg *Logger) Report(stats Stats) {
	lg.l.Info("session summary",
		"framesDecoded", stats.FramesDecoded,
		"framesUnknown", stats.FramesUnknown,
		"lsf", stats.LSFDecoded,
		"stream", stats.StreamDecoded,
		"viterbiCorrected", stats.ViterbiCorrected,
		"viterbiDropped", stats.ViterbiDropped,
		"golaySegmentsLost", stats.GolaySegmentsLost,
	)
}
