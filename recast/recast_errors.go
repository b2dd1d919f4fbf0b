package recast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParam reports an input that cannot be processed at all.
	ErrInvalidParam = errors.New("recast: invalid parameter")
	// ErrBadOutline reports a region that has hole contours but no outline.
	// Contour simplification is then almost always too aggressive.
	ErrBadOutline = errors.New("recast: region has holes but no outline")
	// ErrMultipleOutlines reports a region that produced more than one outline.
	ErrMultipleOutlines = errors.New("recast: region has multiple outlines")
)

// ContourError ties a fatal contour build failure to the region that caused it.
// Retrying with the same maxError and maxEdgeLen gives the same result.
type ContourError struct {
	Region int
	Err    error
}

func (e *ContourError) Error() string {
	switch {
	case errors.Is(e.Err, ErrBadOutline):
		return fmt.Sprintf("rcBuildContours: bad outline for region %d, contour simplification is likely too aggressive", e.Region)
	case errors.Is(e.Err, ErrMultipleOutlines):
		return fmt.Sprintf("rcBuildContours: multiple outlines for region %d", e.Region)
	}
	return fmt.Sprintf("rcBuildContours: region %d: %v", e.Region, e.Err)
}

func (e *ContourError) Unwrap() error {
	return e.Err
}
