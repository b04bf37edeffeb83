// Copyright 2026 intgemm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vec512 models a 512-bit SIMD register as a set of fixed-lane value
// types and provides the handful of integer and float primitives the wide
// GEMM kernels are written against: load/store, multiply-and-round
// conversion, saturating packs, absolute value, sign masking, conditional
// negation, pairwise multiply-accumulate, saturating int16 addition,
// pairwise widening and horizontal reduction.
//
// These are portable scalar implementations. Each primitive corresponds to a
// single vector instruction on a 512-bit target, so per-target replacements
// can be dropped in without touching the kernels.
package vec512

import "math"

// Lane counts for one 512-bit register per element type.
const (
	F32Lanes = 16
	I32Lanes = 16
	I16Lanes = 32
	I8Lanes  = 64
)

// F32x16 is one register of 16 float32 lanes.
type F32x16 [F32Lanes]float32

// I32x16 is one register of 16 int32 lanes.
type I32x16 [I32Lanes]int32

// I16x32 is one register of 32 int16 lanes.
type I16x32 [I16Lanes]int16

// I8x64 is one register of 64 int8 lanes.
type I8x64 [I8Lanes]int8

// Mask64 is a per-lane predicate for I8x64; bit i covers lane i.
type Mask64 uint64

// LoadF32 loads 16 consecutive float32 values from src.
func LoadF32(src []float32) F32x16 {
	var v F32x16
	copy(v[:], src[:F32Lanes])
	return v
}

// LoadI16 loads 32 consecutive int16 values from src.
func LoadI16(src []int16) I16x32 {
	var v I16x32
	copy(v[:], src[:I16Lanes])
	return v
}

// LoadI8 loads 64 consecutive int8 values from src.
func LoadI8(src []int8) I8x64 {
	var v I8x64
	copy(v[:], src[:I8Lanes])
	return v
}

// StoreI16 writes all 32 lanes of v to dst.
func StoreI16(v I16x32, dst []int16) {
	copy(dst[:I16Lanes], v[:])
}

// StoreI8 writes all 64 lanes of v to dst.
func StoreI8(v I8x64, dst []int8) {
	copy(dst[:I8Lanes], v[:])
}

// StoreF32 writes all 16 lanes of v to dst.
func StoreF32(v F32x16, dst []float32) {
	copy(dst[:F32Lanes], v[:])
}

// StoreSatI16 narrows each int32 lane to int16 with saturation and writes
// the 16 results to dst. This models the combined collapse-and-store the
// 16-bit quantizer uses.
func StoreSatI16(v I32x16, dst []int16) {
	for i, x := range v {
		dst[i] = satI16(x)
	}
}

// StoreSatI8 narrows each int32 lane to int8 with saturation and writes the
// 16 results to dst. This models the combined collapse-and-store the 8-bit
// quantizer uses.
func StoreSatI8(v I32x16, dst []int8) {
	for i, x := range v {
		dst[i] = satI8(x)
	}
}

// SetF32 broadcasts value to all 16 lanes.
func SetF32(value float32) F32x16 {
	var v F32x16
	for i := range v {
		v[i] = value
	}
	return v
}

// SetI32 broadcasts value to all 16 lanes.
func SetI32(value int32) I32x16 {
	var v I32x16
	for i := range v {
		v[i] = value
	}
	return v
}

// SetI16 broadcasts value to all 32 lanes.
func SetI16(value int16) I16x32 {
	var v I16x32
	for i := range v {
		v[i] = value
	}
	return v
}

// MulF32 performs lane-wise multiplication.
func MulF32(a, b F32x16) F32x16 {
	var r F32x16
	for i := range r {
		r[i] = a[i] * b[i]
	}
	return r
}

// AbsF32 computes the lane-wise absolute value.
func AbsF32(v F32x16) F32x16 {
	var r F32x16
	for i := range r {
		r[i] = float32(math.Abs(float64(v[i])))
	}
	return r
}

// MaxF32 returns the lane-wise maximum.
func MaxF32(a, b F32x16) F32x16 {
	var r F32x16
	for i := range r {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// RoundI32 converts each float32 lane to int32, rounding half to even (the
// hardware conversion rounding mode) and saturating values outside the int32
// range.
func RoundI32(v F32x16) I32x16 {
	var r I32x16
	for i := range r {
		f := math.RoundToEven(float64(v[i]))
		switch {
		case f >= math.MaxInt32:
			r[i] = math.MaxInt32
		case f <= math.MinInt32:
			r[i] = math.MinInt32
		default:
			r[i] = int32(f)
		}
	}
	return r
}

// MaxI32 returns the lane-wise maximum.
func MaxI32(a, b I32x16) I32x16 {
	var r I32x16
	for i := range r {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// MaxI8 returns the lane-wise maximum.
func MaxI8(a, b I8x64) I8x64 {
	var r I8x64
	for i := range r {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// PackSatI16 narrows two int32 registers into one int16 register with
// saturation. Lanes 0..15 come from a, lanes 16..31 from b.
func PackSatI16(a, b I32x16) I16x32 {
	var r I16x32
	for i := range a {
		r[i] = satI16(a[i])
		r[I32Lanes+i] = satI16(b[i])
	}
	return r
}

// PackSatI8 narrows two int16 registers into one int8 register with
// saturation. Lanes 0..31 come from a, lanes 32..63 from b.
func PackSatI8(a, b I16x32) I8x64 {
	var r I8x64
	for i := range a {
		r[i] = satI8(int32(a[i]))
		r[I16Lanes+i] = satI8(int32(b[i]))
	}
	return r
}

// SignMaskI8 returns a mask with bit i set where lane i is negative.
func SignMaskI8(v I8x64) Mask64 {
	var m Mask64
	for i := range v {
		if v[i] < 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

// AbsI8 computes the lane-wise absolute value with wraparound: like the
// hardware instruction, -128 stays -128. Kernels only feed it values
// quantized into [-127, 127], where the result is always non-negative.
func AbsI8(v I8x64) I8x64 {
	var r I8x64
	for i := range v {
		if v[i] < 0 {
			r[i] = -v[i]
		} else {
			r[i] = v[i]
		}
	}
	return r
}

// CondNegI8 negates (as 0 - lane, wrapping) every lane whose mask bit is
// set and passes the rest through.
func CondNegI8(v I8x64, m Mask64) I8x64 {
	r := v
	for i := range v {
		if m&(1<<uint(i)) != 0 {
			r[i] = -v[i]
		}
	}
	return r
}

// MulAddAdjUS multiplies lanes of a (treated as unsigned) with lanes of b
// (signed) and sums adjacent pairs into int16 lanes with saturation:
//
//	r[i] = sat16(uint8(a[2i])*b[2i] + uint8(a[2i+1])*b[2i+1])
//
// This is the unsigned×signed pairwise multiply-accumulate the 8-bit kernel
// builds its sign-corrected dot product on.
func MulAddAdjUS(a, b I8x64) I16x32 {
	var r I16x32
	for i := range r {
		p := int32(uint8(a[2*i]))*int32(b[2*i]) + int32(uint8(a[2*i+1]))*int32(b[2*i+1])
		r[i] = satI16(p)
	}
	return r
}

// AddSatI16 performs lane-wise saturating int16 addition.
func AddSatI16(a, b I16x32) I16x32 {
	var r I16x32
	for i := range r {
		r[i] = satI16(int32(a[i]) + int32(b[i]))
	}
	return r
}

// MulAddAdjI16 multiplies int16 lanes pairwise and sums adjacent pairs into
// int32 lanes:
//
//	r[i] = a[2i]*b[2i] + a[2i+1]*b[2i+1]
//
// The sum wraps at int32 like the hardware instruction; inputs produced by
// 16-bit quantization cannot reach the wrap point in a single pair.
func MulAddAdjI16(a, b I16x32) I32x16 {
	var r I32x16
	for i := range r {
		r[i] = int32(a[2*i])*int32(b[2*i]) + int32(a[2*i+1])*int32(b[2*i+1])
	}
	return r
}

// WidenAdjI16 widens int16 lanes to int32, summing adjacent pairs. It is the
// multiply-against-all-ones finish used to leave saturating 16-bit
// accumulation.
func WidenAdjI16(v I16x32) I32x16 {
	var r I32x16
	for i := range r {
		r[i] = int32(v[2*i]) + int32(v[2*i+1])
	}
	return r
}

// AddI32 performs lane-wise (wrapping) int32 addition.
func AddI32(a, b I32x16) I32x16 {
	var r I32x16
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

// ReduceI32 sums all 16 int32 lanes, wrapping on overflow.
func ReduceI32(v I32x16) int32 {
	var sum int32
	for i := range v {
		sum += v[i]
	}
	return sum
}

func satI16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func satI8(v int32) int8 {
	if v > math.MaxInt8 {
		return math.MaxInt8
	}
	if v < math.MinInt8 {
		return math.MinInt8
	}
	return int8(v)
}
