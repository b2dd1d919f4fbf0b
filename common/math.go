package common

import "cmp"

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// / Returns the square of the value.
// / @param[in]		a	The value.
// / @return The square of the value.
func Sqr[T IT](a T) T {
	return a * a
}

// / Returns the absolute value.
// / @param[in]		a	The value.
// / @return The absolute value of the specified value.
func Abs[T IT](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

// / Clamps the value to the specified range.
// / @param[in]		value			The value to clamp.
// / @param[in]		minInclusive	The minimum permitted return value.
// / @param[in]		maxInclusive	The maximum permitted return value.
// / @return The value, clamped to the specified range.
func Clamp[T cmp.Ordered](value, minInclusive, maxInclusive T) T {
	if value < minInclusive {
		return minInclusive
	}
	if value > maxInclusive {
		return maxInclusive
	}
	return value
}

// / Gets the direction for the specified offset. One of x and y should be 0.
// / @param[in]		offsetX		The x offset. [Limits: -1 <= value <= 1]
// / @param[in]		offsetZ		The z offset. [Limits: -1 <= value <= 1]
// / @return The direction that represents the offset.
func GetDirForOffset(offsetX, offsetZ int) int {
	dirs := [5]int{3, 0, -1, 2, 1}
	return dirs[((offsetZ+1)<<1)+offsetX]
}

// / Gets the standard width (x-axis) offset for the specified direction.
// / @param[in]		direction		The direction. [Limits: 0 <= value < 4]
// / @return The width offset to apply to the current cell position to move in the direction.
func GetDirOffsetX(direction int) int {
	offset := [4]int{-1, 0, 1, 0}
	return offset[direction&0x03]
}

// / Gets the standard height (z-axis) offset for the specified direction.
// / @param[in]		direction		The direction. [Limits: 0 <= value < 4]
// / @return The height offset to apply to the current cell position to move in the direction.
func GetDirOffsetY(direction int) int {
	offset := [4]int{0, 1, 0, -1}
	return offset[direction&0x03]
}

// RotateCW turns a grid direction a quarter step clockwise.
func RotateCW(direction int) int {
	return (direction + 1) & 0x3
}

// RotateCCW turns a grid direction a quarter step counter-clockwise.
func RotateCCW(direction int) int {
	return (direction + 3) & 0x3
}
