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

// Package callbacks provides the output stage of the multiply kernels: small
// pure functions that receive one strip of raw int32 accumulators plus
// position metadata and materialize them into the caller's output buffer,
// either as-is or rescaled back to float32.
package callbacks

// StripCols is the number of B columns covered by one callback invocation.
const StripCols = 8

// Func consumes the accumulators for one (row, 8-column strip) pair.
//
// sums holds StripCols int32 dot products; it is only valid for the duration
// of the call and must not be retained. row is the A row index, colStart the
// first B column of the strip. aRows, width and bCols echo the multiply
// dimensions so a callback can address a row-major output buffer.
//
// Implementations must depend only on sums and the position arguments, never
// on the order of calls across different (row, strip) pairs.
type Func func(sums []int32, row, colStart, aRows, width, bCols int)

// Write stores raw accumulators into a row-major aRows×bCols int32 buffer.
func Write(output []int32) Func {
	return func(sums []int32, row, colStart, _, _, bCols int) {
		copy(output[row*bCols+colStart:], sums[:StripCols])
	}
}

// Unquantize rescales accumulators by unquantMult and stores them into a
// row-major aRows×bCols float32 buffer. For A quantized with multiplier qa
// and B with qb, unquantMult is 1/(qa*qb).
func Unquantize(unquantMult float32, output []float32) Func {
	return func(sums []int32, row, colStart, _, _, bCols int) {
		base := row*bCols + colStart
		for i, s := range sums[:StripCols] {
			output[base+i] = unquantMult * float32(s)
		}
	}
}

// UnquantizeAddBias rescales accumulators by unquantMult, adds the per-column
// bias and stores the result into a row-major aRows×bCols float32 buffer.
// bias has one entry per B column.
func UnquantizeAddBias(unquantMult float32, bias, output []float32) Func {
	return func(sums []int32, row, colStart, _, _, bCols int) {
		base := row*bCols + colStart
		for i, s := range sums[:StripCols] {
			output[base+i] = unquantMult*float32(s) + bias[colStart+i]
		}
	}
}
