// Package hwy provides the portable vector layer the ksz kernels are written
// against.
//
// Kernels load a vector's worth of lanes, operate on whole vectors, and
// finish the remainder with a scalar tail. In this build every operation is
// the pure Go lane loop; the detected SIMD level only decides the logical
// vector width, so a kernel written once behaves identically on every host.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-ksz/hwy"
//
//	inv := hwy.Set[float64](1 / step)
//	v := hwy.PromoteF32ToF64(hwy.Load(data))
//	grid := hwy.Round(hwy.Mul(v, inv))
//	hwy.Store(hwy.DemoteF64ToF32(grid), data)
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Codes is a constraint for the unsigned integer types used to hold
// quantization codes.
type Codes interface {
	~uint8 | ~uint16 | ~uint32
}

// Lanes is a constraint for all types that can be stored in vector lanes.
type Lanes interface {
	Floats | Codes | ~int32 | ~int64
}

// Vec is a portable vector handle. It wraps a slice of exactly MaxLanes[T]
// elements (fewer only for a partial load at the end of a slice).
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Data returns the underlying lanes. Intended for tests.
func (v Vec[T]) Data() []T {
	return v.data
}

// Mask is the result of a lane-wise comparison. Use it with IfThenElseZero,
// IfThenZeroElse, MaskLoad and MaskStore.
type Mask[T Lanes] struct {
	bits []bool
}

// NumLanes returns the number of lanes in this mask.
func (m Mask[T]) NumLanes() int {
	return len(m.bits)
}

// AllTrue returns true if all lanes in the mask are active.
func (m Mask[T]) AllTrue() bool {
	for _, bit := range m.bits {
		if !bit {
			return false
		}
	}
	return true
}

// CountTrue returns the number of active lanes in the mask.
func (m Mask[T]) CountTrue() int {
	count := 0
	for _, bit := range m.bits {
		if bit {
			count++
		}
	}
	return count
}

// GetBit returns whether lane i is active.
func (m Mask[T]) GetBit(i int) bool {
	if i < 0 || i >= len(m.bits) {
		return false
	}
	return m.bits[i]
}
