package recast

import (
	"fmt"

	"github.com/gorustyt/navcontour/common"
)

// / Adds a span to the specified heightfield.
// /
// / The span addition can be set to favor flags. If the span is merged to
// / another span and the new @p spanMax is within @p flagMergeThreshold units
// / from the existing span, the span flags are merged.
// /
// / @param[in,out]	heightfield			An initialized heightfield.
// / @param[in]		x					The column x index where the span is to be added.
// / @param[in]		z					The column z index where the span is to be added.
// / @param[in]		spanMin				The minimum height of the span. [Limit: < @p spanMax] [Units: vx]
// / @param[in]		spanMax				The maximum height of the span. [Limit: <= #RC_SPAN_MAX_HEIGHT] [Units: vx]
// / @param[in]		areaID				The area id of the span. [Limit: <= #RC_WALKABLE_AREA)
// / @param[in]		flagMergeThreshold	The merge threshold. [Limit: >= 0] [Units: vx]
func RcAddSpan(heightfield *RcHeightfield, x, z int, spanMin, spanMax, areaID, flagMergeThreshold int) error {
	if x < 0 || z < 0 || x >= heightfield.Width || z >= heightfield.Height {
		return fmt.Errorf("%w: column (%d, %d) outside %dx%d heightfield", ErrInvalidParam, x, z, heightfield.Width, heightfield.Height)
	}
	if spanMin > spanMax || spanMax > RC_SPAN_MAX_HEIGHT {
		return fmt.Errorf("%w: span [%d, %d]", ErrInvalidParam, spanMin, spanMax)
	}
	newSpan := &RcSpan{Smin: spanMin, Smax: spanMax, Area: areaID}

	columnIndex := x + z*heightfield.Width
	var previousSpan *RcSpan
	currentSpan := heightfield.Spans[columnIndex]

	// Insert the new span, possibly merging it with existing spans.
	for currentSpan != nil {
		if currentSpan.Smin > newSpan.Smax {
			// Current span is completely after the new span, break.
			break
		}

		if currentSpan.Smax < newSpan.Smin {
			// Current span is completely before the new span.  Keep going.
			previousSpan = currentSpan
			currentSpan = currentSpan.Next
			continue
		}

		// The new span overlaps with an existing span.  Merge them.
		newSpan.Smin = min(newSpan.Smin, currentSpan.Smin)
		newSpan.Smax = max(newSpan.Smax, currentSpan.Smax)

		// Merge flags.
		if common.Abs(newSpan.Smax-currentSpan.Smax) <= flagMergeThreshold {
			// Higher area ID numbers indicate higher resolution priority.
			newSpan.Area = max(newSpan.Area, currentSpan.Area)
		}

		// Remove the current span since it's now merged with newSpan.
		// Keep going because there might be other overlapping spans that also need to be merged.
		next := currentSpan.Next
		if previousSpan != nil {
			previousSpan.Next = next
		} else {
			heightfield.Spans[columnIndex] = next
		}
		currentSpan = next
	}

	// Insert new span after prev
	if previousSpan != nil {
		newSpan.Next = previousSpan.Next
		previousSpan.Next = newSpan
	} else {
		// This span should go before the others in the list
		newSpan.Next = heightfield.Spans[columnIndex]
		heightfield.Spans[columnIndex] = newSpan
	}
	return nil
}
