package debug_utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/common/rw"
	"github.com/gorustyt/navcontour/recast"
	"go.uber.org/zap"
)

const (
	CSET_MAGIC   = 'c'<<24 | 's'<<16 | 'e'<<8 | 't'
	CSET_VERSION = 2

	CHF_MAGIC   = 'r'<<24 | 'c'<<16 | 'h'<<8 | 'f'
	CHF_VERSION = 3
)

// Sections present in a compact heightfield dump.
const (
	chfHasCells = 1 << iota
	chfHasSpans
	chfHasDist
	chfHasAreas
)

var (
	ErrBadMagic   = errors.New("bad voodoo")
	ErrBadVersion = errors.New("bad version")
	ErrCorrupt    = errors.New("corrupt dump")
)

func writeVec3(w *rw.ReaderWriter, v mgl64.Vec3) {
	w.WriteFloat32s(v[:])
}

func readVec3(r *rw.ReaderWriter) (v mgl64.Vec3) {
	r.ReadFloat32s(v[:])
	return v
}

// readCount reads a non-negative element count and checks that at least
// count*elemSize bytes are left to read.
func readCount(r *rw.ReaderWriter, what string, elemSize int) (int, error) {
	n := r.ReadInt32()
	if err := r.Err(); err != nil {
		return 0, err
	}
	if n < 0 || n*elemSize > r.Size() {
		return 0, fmt.Errorf("%w: %s count %d with %d bytes left", ErrCorrupt, what, n, r.Size())
	}
	return n, nil
}

func writeContourVerts(w *rw.ReaderWriter, verts []recast.RcContourVertex) {
	for _, v := range verts {
		w.WriteInt32(v.X)
		w.WriteInt32(v.Y)
		w.WriteInt32(v.Z)
		w.WriteInt32(v.Flags.Pack())
	}
}

func readContourVerts(r *rw.ReaderWriter, n int) []recast.RcContourVertex {
	if n == 0 {
		return nil
	}
	verts := make([]recast.RcContourVertex, n)
	for i := range verts {
		verts[i].X = r.ReadInt32()
		verts[i].Y = r.ReadInt32()
		verts[i].Z = r.ReadInt32()
		verts[i].Flags = recast.RcUnpackVertexFlags(r.ReadInt32())
	}
	return verts
}

// DuDumpContourSet writes cset in the binary contour set layout.
// MaxError is not part of the layout.
func DuDumpContourSet(cset *recast.RcContourSet, w *rw.ReaderWriter) error {
	if cset == nil {
		return errors.New("duDumpContourSet: input contour set is null")
	}
	if w == nil {
		return errors.New("duDumpContourSet: input IO is null")
	}

	w.WriteInt32(CSET_MAGIC)
	w.WriteInt32(CSET_VERSION)
	w.WriteInt32(len(cset.Conts))

	writeVec3(w, cset.Bmin)
	writeVec3(w, cset.Bmax)
	w.WriteFloat32(cset.Cs)
	w.WriteFloat32(cset.Ch)

	w.WriteInt32(cset.Width)
	w.WriteInt32(cset.Height)
	w.WriteInt32(cset.BorderSize)

	for _, cont := range cset.Conts {
		w.WriteInt32(len(cont.Verts))
		w.WriteInt32(len(cont.RVerts))
		w.WriteUInt16(cont.Reg)
		w.WriteUInt8(cont.Area)
		writeContourVerts(w, cont.Verts)
		writeContourVerts(w, cont.RVerts)
	}
	return nil
}

// DuReadContourSet reads a contour set written by DuDumpContourSet.
func DuReadContourSet(r *rw.ReaderWriter) (*recast.RcContourSet, error) {
	if r == nil {
		return nil, errors.New("duReadContourSet: input IO is null")
	}

	magic := r.ReadInt32()
	version := r.ReadInt32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("duReadContourSet: %w", err)
	}
	if magic != CSET_MAGIC {
		return nil, fmt.Errorf("duReadContourSet: %w", ErrBadMagic)
	}
	if version != CSET_VERSION {
		return nil, fmt.Errorf("duReadContourSet: %w %d", ErrBadVersion, version)
	}

	// Every contour carries at least its two counts and a region and area.
	nconts, err := readCount(r, "contour", 11)
	if err != nil {
		return nil, fmt.Errorf("duReadContourSet: %w", err)
	}

	cset := &recast.RcContourSet{}
	cset.Bmin = readVec3(r)
	cset.Bmax = readVec3(r)
	cset.Cs = r.ReadFloat32()
	cset.Ch = r.ReadFloat32()
	cset.Width = r.ReadInt32()
	cset.Height = r.ReadInt32()
	cset.BorderSize = r.ReadInt32()

	cset.Conts = make([]*recast.RcContour, 0, nconts)
	for i := 0; i < nconts; i++ {
		nverts, err := readCount(r, "vertex", 16)
		if err != nil {
			return nil, fmt.Errorf("duReadContourSet: contour %d: %w", i, err)
		}
		nrverts, err := readCount(r, "raw vertex", 16)
		if err != nil {
			return nil, fmt.Errorf("duReadContourSet: contour %d: %w", i, err)
		}
		cont := &recast.RcContour{}
		cont.Reg = r.ReadUInt16()
		cont.Area = r.ReadUInt8()
		cont.Verts = readContourVerts(r, nverts)
		cont.RVerts = readContourVerts(r, nrverts)
		cset.Conts = append(cset.Conts, cont)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("duReadContourSet: %w", err)
	}
	return cset, nil
}

// DuDumpCompactHeightfield writes chf in the binary compact heightfield layout.
func DuDumpCompactHeightfield(chf *recast.RcCompactHeightfield, w *rw.ReaderWriter) error {
	if chf == nil {
		return errors.New("duDumpCompactHeightfield: input compact heightfield is null")
	}
	if w == nil {
		return errors.New("duDumpCompactHeightfield: input IO is null")
	}

	w.WriteInt32(CHF_MAGIC)
	w.WriteInt32(CHF_VERSION)

	w.WriteInt32(chf.Width)
	w.WriteInt32(chf.Height)
	w.WriteInt32(chf.SpanCount)

	w.WriteInt32(chf.WalkableHeight)
	w.WriteInt32(chf.WalkableClimb)
	w.WriteInt32(chf.BorderSize)

	w.WriteUInt16(chf.MaxDistance)
	w.WriteUInt16(chf.MaxRegions)

	writeVec3(w, chf.Bmin)
	writeVec3(w, chf.Bmax)

	w.WriteFloat32(chf.Cs)
	w.WriteFloat32(chf.Ch)

	tmp := 0
	if len(chf.Cells) > 0 {
		tmp |= chfHasCells
	}
	if len(chf.Spans) > 0 {
		tmp |= chfHasSpans
	}
	if len(chf.Dist) > 0 {
		tmp |= chfHasDist
	}
	if len(chf.Areas) > 0 {
		tmp |= chfHasAreas
	}
	w.WriteInt32(tmp)

	if tmp&chfHasCells != 0 {
		if len(chf.Cells) != chf.Width*chf.Height {
			return fmt.Errorf("duDumpCompactHeightfield: %d cells for a %dx%d field", len(chf.Cells), chf.Width, chf.Height)
		}
		for _, c := range chf.Cells {
			w.WriteInt32(c.Index)
			w.WriteUInt8(c.Count)
		}
	}
	if tmp&chfHasSpans != 0 {
		for _, s := range chf.Spans {
			w.WriteUInt16(s.Y)
			w.WriteUInt16(s.Reg)
			w.WriteInt32(s.Con)
			w.WriteUInt8(s.H)
		}
	}
	if tmp&chfHasDist != 0 {
		w.WriteUInt16s(chf.Dist)
	}
	if tmp&chfHasAreas != 0 {
		w.WriteUInt8s(chf.Areas)
	}
	return nil
}

// DuReadCompactHeightfield reads a compact heightfield written by
// DuDumpCompactHeightfield.
func DuReadCompactHeightfield(r *rw.ReaderWriter) (*recast.RcCompactHeightfield, error) {
	if r == nil {
		return nil, errors.New("duReadCompactHeightfield: input IO is null")
	}

	magic := r.ReadInt32()
	version := r.ReadInt32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("duReadCompactHeightfield: %w", err)
	}
	if magic != CHF_MAGIC {
		return nil, fmt.Errorf("duReadCompactHeightfield: %w", ErrBadMagic)
	}
	if version != CHF_VERSION {
		return nil, fmt.Errorf("duReadCompactHeightfield: %w %d", ErrBadVersion, version)
	}

	chf := &recast.RcCompactHeightfield{}
	chf.Width = r.ReadInt32()
	chf.Height = r.ReadInt32()
	chf.SpanCount = r.ReadInt32()

	chf.WalkableHeight = r.ReadInt32()
	chf.WalkableClimb = r.ReadInt32()
	chf.BorderSize = r.ReadInt32()

	chf.MaxDistance = r.ReadUInt16()
	chf.MaxRegions = r.ReadUInt16()

	chf.Bmin = readVec3(r)
	chf.Bmax = readVec3(r)

	chf.Cs = r.ReadFloat32()
	chf.Ch = r.ReadFloat32()

	tmp := r.ReadInt32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("duReadCompactHeightfield: %w", err)
	}

	// Refuse sizes the remaining data cannot hold before allocating.
	ncells := chf.Width * chf.Height
	need := 0
	if tmp&chfHasCells != 0 {
		need += ncells * 5
	}
	if tmp&chfHasSpans != 0 {
		need += chf.SpanCount * 9
	}
	if tmp&chfHasDist != 0 {
		need += chf.SpanCount * 2
	}
	if tmp&chfHasAreas != 0 {
		need += chf.SpanCount
	}
	if chf.Width < 0 || chf.Height < 0 || chf.SpanCount < 0 || need > r.Size() {
		return nil, fmt.Errorf("duReadCompactHeightfield: %w: %dx%d field with %d spans", ErrCorrupt, chf.Width, chf.Height, chf.SpanCount)
	}

	if tmp&chfHasCells != 0 {
		chf.Cells = make([]*recast.RcCompactCell, ncells)
		for i := range chf.Cells {
			chf.Cells[i] = &recast.RcCompactCell{
				Index: r.ReadInt32(),
				Count: r.ReadUInt8(),
			}
		}
	}
	if tmp&chfHasSpans != 0 {
		chf.Spans = make([]*recast.RcCompactSpan, chf.SpanCount)
		for i := range chf.Spans {
			chf.Spans[i] = &recast.RcCompactSpan{
				Y:   r.ReadUInt16(),
				Reg: r.ReadUInt16(),
				Con: r.ReadInt32(),
				H:   r.ReadUInt8(),
			}
		}
	}
	if tmp&chfHasDist != 0 {
		chf.Dist = make([]int, chf.SpanCount)
		r.ReadUInt16s(chf.Dist)
	}
	if tmp&chfHasAreas != 0 {
		chf.Areas = make([]int, chf.SpanCount)
		r.ReadUInt8s(chf.Areas)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("duReadCompactHeightfield: %w", err)
	}
	return chf, nil
}

func logLine(logger *zap.Logger, ctx *recast.BuildContext, label recast.RcTimerLabel, name string, pc float64) {
	t := ctx.AccumulatedTime(label)
	if t < 0 {
		return
	}
	logger.Info(fmt.Sprintf("%s:\t%.2fms\t(%.1f%%)", name, float64(t)/float64(time.Millisecond), float64(t)*pc))
}

// DuLogBuildTimes logs the contour build timers of ctx as a share of totalTime.
func DuLogBuildTimes(logger *zap.Logger, ctx *recast.BuildContext, totalTime time.Duration) {
	if logger == nil || ctx == nil {
		return
	}
	pc := 0.0
	if totalTime > 0 {
		pc = 100.0 / float64(totalTime)
	}

	logger.Info("Build Times")
	logLine(logger, ctx, recast.RC_TIMER_BUILD_CONTOURS, "- Build Contours", pc)
	logLine(logger, ctx, recast.RC_TIMER_BUILD_CONTOURS_TRACE, "    - Trace", pc)
	logLine(logger, ctx, recast.RC_TIMER_BUILD_CONTOURS_WALK, "    - Walk", pc)
	logLine(logger, ctx, recast.RC_TIMER_BUILD_CONTOURS_SIMPLIFY, "    - Simplify", pc)
	logLine(logger, ctx, recast.RC_TIMER_BUILD_CONTOURS_MERGE, "    - Merge Holes", pc)
	logger.Info(fmt.Sprintf("=== TOTAL:\t%.2fms", float64(totalTime)/float64(time.Millisecond)))
}
