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

package wide

import (
	"fmt"

	"github.com/kroketio/intgemm/callbacks"
	"github.com/kroketio/intgemm/vec512"
)

// Multiply16 computes A×B over a quantized row-major aRows×width A and a
// packed width×bCols B from PrepareB16, handing each 8-column strip of int32
// dot products to cb. Pairs of adjacent int16 products are widened to int32
// on multiply and accumulated in int32, so there is no intermediate
// saturation in the 16-bit variant.
//
// width must be a multiple of 32 (one register of int16) and bCols a
// multiple of TileCols. cb runs exactly aRows*(bCols/TileCols) times, outer
// loop over column strips, inner loop over rows.
func Multiply16(a, b []int16, aRows, width, bCols int, cb callbacks.Func) {
	checkMultiplyShape(aRows, width, bCols, vec512.I16Lanes, len(a), len(b))
	chunks := width / vec512.I16Lanes
	var totals [TileCols]int32
	for colStart := 0; colStart < bCols; colStart += TileCols {
		bStrip := b[colStart*width:]
		for row := range aRows {
			aRow := a[row*width:]
			var sums [TileCols]vec512.I32x16
			for k := range chunks {
				av := vec512.LoadI16(aRow[k*vec512.I16Lanes:])
				base := k * TileCols * vec512.I16Lanes
				for j := range TileCols {
					bv := vec512.LoadI16(bStrip[base+j*vec512.I16Lanes:])
					sums[j] = vec512.AddI32(sums[j], vec512.MulAddAdjI16(av, bv))
				}
			}
			for j := range sums {
				totals[j] = vec512.ReduceI32(sums[j])
			}
			cb(totals[:], row, colStart, aRows, width, bCols)
		}
	}
}

// Multiply8 computes A×B over a quantized row-major aRows×width A and a
// packed width×bCols B from PrepareB8, handing each 8-column strip of int32
// dot products to cb.
//
// The pairwise 8-bit multiply-accumulate treats its first operand as
// unsigned, so each A register is split into a sign mask and its absolute
// value, and the mask conditionally negates the B registers before the
// multiply: a*b == |a| * (sign(a)*b). PrepareB8's ban on -128 makes the
// negation safe.
//
// Per-strip sums accumulate in saturating int16 across the shared dimension
// and are widened to int32 only at the end. The saturation is a deliberate
// throughput/accuracy trade-off: the error is bounded clamping, not
// wraparound, on top of the error quantization already introduces.
//
// width must be a multiple of 64 (one register of int8) and bCols a multiple
// of TileCols. cb runs exactly aRows*(bCols/TileCols) times, outer loop over
// column strips, inner loop over rows.
func Multiply8(a, b []int8, aRows, width, bCols int, cb callbacks.Func) {
	checkMultiplyShape(aRows, width, bCols, vec512.I8Lanes, len(a), len(b))
	chunks := width / vec512.I8Lanes
	var totals [TileCols]int32
	for colStart := 0; colStart < bCols; colStart += TileCols {
		bStrip := b[colStart*width:]
		for row := range aRows {
			aRow := a[row*width:]
			var sums [TileCols]vec512.I16x32
			for k := range chunks {
				av := vec512.LoadI8(aRow[k*vec512.I8Lanes:])
				neg := vec512.SignMaskI8(av)
				aPos := vec512.AbsI8(av)
				base := k * TileCols * vec512.I8Lanes
				for j := range TileCols {
					bv := vec512.LoadI8(bStrip[base+j*vec512.I8Lanes:])
					bv = vec512.CondNegI8(bv, neg)
					sums[j] = vec512.AddSatI16(sums[j], vec512.MulAddAdjUS(aPos, bv))
				}
			}
			// Widen the packed 16-bit sums to 32-bit and reduce per column.
			for j := range sums {
				totals[j] = vec512.ReduceI32(vec512.WidenAdjI16(sums[j]))
			}
			cb(totals[:], row, colStart, aRows, width, bCols)
		}
	}
}

func checkMultiplyShape(aRows, width, bCols, lanes, aLen, bLen int) {
	if aRows <= 0 {
		panic(fmt.Sprintf("wide: A rows %d not positive", aRows))
	}
	if width <= 0 || width%lanes != 0 {
		panic(fmt.Sprintf("wide: width %d not a positive multiple of %d", width, lanes))
	}
	if bCols <= 0 || bCols%TileCols != 0 {
		panic(fmt.Sprintf("wide: B cols %d not a positive multiple of %d", bCols, TileCols))
	}
	if aLen < aRows*width {
		panic(fmt.Sprintf("wide: A length %d < %d", aLen, aRows*width))
	}
	if bLen < width*bCols {
		panic(fmt.Sprintf("wide: packed B length %d < %d", bLen, width*bCols))
	}
}
