package recast

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// / Recast performance timer categories.
// / @see RcTelemetry
type RcTimerLabel int

const (
	/// The user defined total time of the build.
	RC_TIMER_TOTAL RcTimerLabel = iota
	/// The time to build the contours. (See: #RcBuildContours)
	RC_TIMER_BUILD_CONTOURS
	/// The time to mark the boundary spans. (See: #RcBuildContours)
	RC_TIMER_BUILD_CONTOURS_TRACE
	/// The time to trace the boundaries of the contours. (See: #RcBuildContours)
	RC_TIMER_BUILD_CONTOURS_WALK
	/// The time to simplify the contours. (See: #RcBuildContours)
	RC_TIMER_BUILD_CONTOURS_SIMPLIFY
	/// The time to classify windings and merge holes. (See: #RcBuildContours)
	RC_TIMER_BUILD_CONTOURS_MERGE
	/// The maximum number of timers.  (Used for iterating timers.)
	RC_MAX_TIMERS
)

var timerNames = [RC_MAX_TIMERS]string{
	RC_TIMER_TOTAL:                   "Total",
	RC_TIMER_BUILD_CONTOURS:          "Build Contours",
	RC_TIMER_BUILD_CONTOURS_TRACE:    "Trace",
	RC_TIMER_BUILD_CONTOURS_WALK:     "Walk",
	RC_TIMER_BUILD_CONTOURS_SIMPLIFY: "Simplify",
	RC_TIMER_BUILD_CONTOURS_MERGE:    "Merge Holes",
}

func (l RcTimerLabel) String() string {
	if l < 0 || l >= RC_MAX_TIMERS {
		return fmt.Sprintf("RcTimerLabel(%d)", int(l))
	}
	return timerNames[l]
}

// RcTelemetry is the instrumentation sink a build reports into. It can
// measure and report but never abort a build.
type RcTelemetry interface {
	StartTimer(label RcTimerLabel)
	StopTimer(label RcTimerLabel)
	// Warnf reports a non-fatal problem; the build continues at reduced quality.
	Warnf(format string, args ...any)
}

// BuildContext is the default RcTelemetry. It accumulates per-label timings,
// keeps every warning and forwards it to a zap logger.
// A BuildContext is not safe for concurrent use.
type BuildContext struct {
	logger       *zap.Logger
	timerEnabled bool
	startTime    [RC_MAX_TIMERS]time.Time
	accTime      [RC_MAX_TIMERS]time.Duration
	warnings     []string
	now          func() time.Time
}

// NewBuildContext returns a context with timers enabled. A nil logger
// discards log output; warnings are still collected.
func NewBuildContext(logger *zap.Logger) *BuildContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildContext{
		logger:       logger,
		timerEnabled: true,
		now:          time.Now,
	}
}

func (ctx *BuildContext) Logger() *zap.Logger {
	return ctx.logger
}

// EnableTimer turns time measurement on or off.
func (ctx *BuildContext) EnableTimer(state bool) {
	ctx.timerEnabled = state
}

func (ctx *BuildContext) ResetTimers() {
	ctx.startTime = [RC_MAX_TIMERS]time.Time{}
	ctx.accTime = [RC_MAX_TIMERS]time.Duration{}
}

func (ctx *BuildContext) StartTimer(label RcTimerLabel) {
	if !ctx.timerEnabled {
		return
	}
	ctx.startTime[label] = ctx.now()
}

func (ctx *BuildContext) StopTimer(label RcTimerLabel) {
	if !ctx.timerEnabled || ctx.startTime[label].IsZero() {
		return
	}
	ctx.accTime[label] += ctx.now().Sub(ctx.startTime[label])
	ctx.startTime[label] = time.Time{}
}

// ScopedTimer starts label and returns the function that stops it.
//
//	defer ctx.ScopedTimer(RC_TIMER_BUILD_CONTOURS)()
func (ctx *BuildContext) ScopedTimer(label RcTimerLabel) func() {
	ctx.StartTimer(label)
	return func() { ctx.StopTimer(label) }
}

// AccumulatedTime returns the total time measured for label, or -1 when
// timers are disabled.
func (ctx *BuildContext) AccumulatedTime(label RcTimerLabel) time.Duration {
	if !ctx.timerEnabled {
		return -1
	}
	return ctx.accTime[label]
}

func (ctx *BuildContext) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ctx.warnings = append(ctx.warnings, msg)
	ctx.logger.Warn(msg)
}

// Warnings returns the warnings reported so far, oldest first.
func (ctx *BuildContext) Warnings() []string {
	res := make([]string, len(ctx.warnings))
	copy(res, ctx.warnings)
	return res
}
