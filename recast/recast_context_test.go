package recast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// tickingClock advances by step on every reading.
func tickingClock(step time.Duration) func() time.Time {
	now := time.Unix(1000, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestBuildContextTimers(t *testing.T) {
	ctx := NewBuildContext(nil)
	ctx.now = tickingClock(time.Millisecond)

	ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_WALK)
	ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_WALK)
	ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_WALK)
	ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_WALK)
	assert.Equal(t, 2*time.Millisecond, ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS_WALK))

	stop := ctx.ScopedTimer(RC_TIMER_BUILD_CONTOURS_MERGE)
	stop()
	assert.Equal(t, time.Millisecond, ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS_MERGE))

	// Stopping a timer that never started adds nothing.
	ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_TRACE)
	assert.Zero(t, ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS_TRACE))

	ctx.ResetTimers()
	assert.Zero(t, ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS_WALK))

	ctx.EnableTimer(false)
	ctx.StartTimer(RC_TIMER_BUILD_CONTOURS_WALK)
	ctx.StopTimer(RC_TIMER_BUILD_CONTOURS_WALK)
	assert.Equal(t, time.Duration(-1), ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS_WALK))
}

func TestBuildContextWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := NewBuildContext(zap.New(core))

	ctx.Warnf("mergeHoles: region %d", 4)
	ctx.Warnf("second")

	assert.Equal(t, []string{"mergeHoles: region 4", "second"}, ctx.Warnings())
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "mergeHoles: region 4", logs.All()[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)

	// The returned slice is a copy.
	w := ctx.Warnings()
	w[0] = "changed"
	assert.Equal(t, "mergeHoles: region 4", ctx.Warnings()[0])
}

func TestBuildContoursReportsTimers(t *testing.T) {
	chf := holeField(t)
	ctx := NewBuildContext(nil)
	ctx.now = tickingClock(time.Microsecond)

	_, err := RcBuildContours(ctx, chf, 1.3, 0, 0)
	require.NoError(t, err)
	for _, label := range []RcTimerLabel{
		RC_TIMER_BUILD_CONTOURS,
		RC_TIMER_BUILD_CONTOURS_TRACE,
		RC_TIMER_BUILD_CONTOURS_WALK,
		RC_TIMER_BUILD_CONTOURS_SIMPLIFY,
		RC_TIMER_BUILD_CONTOURS_MERGE,
	} {
		assert.Positive(t, ctx.AccumulatedTime(label), label.String())
	}
	assert.Greater(t, ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS), ctx.AccumulatedTime(RC_TIMER_BUILD_CONTOURS_WALK))
}

func TestTimerLabelString(t *testing.T) {
	assert.Equal(t, "Simplify", RC_TIMER_BUILD_CONTOURS_SIMPLIFY.String())
	assert.Equal(t, "RcTimerLabel(99)", RcTimerLabel(99).String())
}
