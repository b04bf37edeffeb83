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
	"math/rand/v2"
	"testing"

	"github.com/kroketio/intgemm/callbacks"
)

// intMatMul is the exact integer reference: out[r][c] = sum_k a[r][k]*b[k][c]
// over the quantized values, b given row-major (unpacked).
func intMatMul8(a []int8, b []int8, rows, width, cols int) []int32 {
	out := make([]int32, rows*cols)
	for r := range rows {
		for c := range cols {
			var sum int32
			for k := range width {
				sum += int32(a[r*width+k]) * int32(b[k*cols+c])
			}
			out[r*cols+c] = sum
		}
	}
	return out
}

func intMatMul16(a []int16, b []int16, rows, width, cols int) []int32 {
	out := make([]int32, rows*cols)
	for r := range rows {
		for c := range cols {
			var sum int32
			for k := range width {
				sum += int32(a[r*width+k]) * int32(b[k*cols+c])
			}
			out[r*cols+c] = sum
		}
	}
	return out
}

// smallIntMatrix returns floats holding exact small integers so quantMult=1
// quantizes without any rounding and the integer reference is exact.
func smallIntMatrix(rng *rand.Rand, n, span int) []float32 {
	m := make([]float32, n)
	for i := range m {
		m[i] = float32(rng.IntN(2*span+1) - span)
	}
	return m
}

func TestMultiply8MatchesIntegerReference(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		width int
		cols  int
	}{
		{"one chunk one strip", 1, 64, 8},
		{"multi chunk", 4, 256, 8},
		{"multi strip", 3, 128, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(51, 0))
			aFloat := smallIntMatrix(rng, tt.rows*tt.width, 3)
			bFloat := smallIntMatrix(rng, tt.width*tt.cols, 3)

			qa := make([]int8, len(aFloat))
			qb := make([]int8, len(bFloat))
			PrepareA8(aFloat, qa, 1, tt.rows, tt.width)
			PrepareB8(bFloat, qb, 1, tt.width, tt.cols)

			// Unpacked quantized B for the reference.
			rawB := make([]int8, len(bFloat))
			for i, v := range bFloat {
				rawB[i] = int8(v)
			}
			want := intMatMul8(qa, rawB, tt.rows, tt.width, tt.cols)

			got := make([]int32, tt.rows*tt.cols)
			Multiply8(qa, qb, tt.rows, tt.width, tt.cols, callbacks.Write(got))
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("cell %d: got %d, want %d", i, got[i], want[i])
				}
			}
		})
	}
}

func TestMultiply16MatchesIntegerReference(t *testing.T) {
	const rows, width, cols = 5, 96, 16
	rng := rand.New(rand.NewPCG(53, 0))
	aFloat := smallIntMatrix(rng, rows*width, 100)
	bFloat := smallIntMatrix(rng, width*cols, 100)

	qa := make([]int16, len(aFloat))
	qb := make([]int16, len(bFloat))
	PrepareA16(aFloat, qa, 1, rows, width)
	PrepareB16(bFloat, qb, 1, width, cols)

	rawB := make([]int16, len(bFloat))
	for i, v := range bFloat {
		rawB[i] = int16(v)
	}
	want := intMatMul16(qa, rawB, rows, width, cols)

	got := make([]int32, rows*cols)
	Multiply16(qa, qb, rows, width, cols, callbacks.Write(got))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMultiplyZeroOperand(t *testing.T) {
	const rows, width, cols = 2, 128, 16
	rng := rand.New(rand.NewPCG(57, 0))

	zero := make([]float32, rows*width)
	bFloat := smallIntMatrix(rng, width*cols, 3)

	qa := make([]int8, rows*width)
	qb := make([]int8, width*cols)
	PrepareA8(zero, qa, 1, rows, width)
	PrepareB8(bFloat, qb, 1, width, cols)

	got := make([]int32, rows*cols)
	for i := range got {
		got[i] = -1
	}
	Multiply8(qa, qb, rows, width, cols, callbacks.Write(got))
	for i, v := range got {
		if v != 0 {
			t.Fatalf("cell %d: got %d, want 0 for zero A", i, v)
		}
	}
}

func TestMultiply8CallbackCountAndOrder(t *testing.T) {
	const rows, width, cols = 3, 64, 24
	qa := make([]int8, rows*width)
	qb := make([]int8, width*cols)

	type visit struct{ row, colStart int }
	var visits []visit
	Multiply8(qa, qb, rows, width, cols, func(sums []int32, row, colStart, aRows, w, bCols int) {
		if len(sums) != TileCols {
			t.Fatalf("sums length %d, want %d", len(sums), TileCols)
		}
		if aRows != rows || w != width || bCols != cols {
			t.Fatalf("dims echoed wrong: %d %d %d", aRows, w, bCols)
		}
		visits = append(visits, visit{row, colStart})
	})

	if want := rows * (cols / TileCols); len(visits) != want {
		t.Fatalf("callback ran %d times, want %d", len(visits), want)
	}
	// Strips outer, rows inner.
	i := 0
	for colStart := 0; colStart < cols; colStart += TileCols {
		for row := range rows {
			if visits[i] != (visit{row, colStart}) {
				t.Fatalf("visit %d: got %+v, want row=%d colStart=%d", i, visits[i], row, colStart)
			}
			i++
		}
	}
}

func TestMultiply16OnesCountsColumns(t *testing.T) {
	// A is a single row of 32 ones; B marks one slot per 8-row group in a
	// rotating pattern, so every column holds exactly four 1.0 entries.
	// The raw accumulators must be those counts, exactly.
	const width, cols = 32, 8
	aFloat := make([]float32, width)
	for i := range aFloat {
		aFloat[i] = 1
	}
	bFloat := make([]float32, width*cols)
	for r := range width {
		bFloat[r*cols+r%cols] = 1
	}

	qa := make([]int16, width)
	qb := make([]int16, width*cols)
	PrepareA16(aFloat, qa, 1, 1, width)
	PrepareB16(bFloat, qb, 1, width, cols)

	got := make([]int32, cols)
	Multiply16(qa, qb, 1, width, cols, callbacks.Write(got))
	for c, v := range got {
		if v != 4 {
			t.Fatalf("column %d: got %d, want 4", c, v)
		}
	}
}

func TestMultiply8SaturatingAccumulation(t *testing.T) {
	// All-maximal inputs drive the packed int16 sums into saturation: the
	// result clamps instead of wrapping. With width 128 every 16-bit lane
	// saturates at 32767 after the second chunk, so each column total is
	// 16 widened lane pairs of 2*32767.
	const rows, width, cols = 1, 128, 8
	aFloat := make([]float32, rows*width)
	bFloat := make([]float32, width*cols)
	for i := range aFloat {
		aFloat[i] = 127
	}
	for i := range bFloat {
		bFloat[i] = 127
	}

	qa := make([]int8, rows*width)
	qb := make([]int8, width*cols)
	PrepareA8(aFloat, qa, 1, rows, width)
	PrepareB8(bFloat, qb, 1, width, cols)

	got := make([]int32, rows*cols)
	Multiply8(qa, qb, rows, width, cols, callbacks.Write(got))

	const exact = int32(width) * 127 * 127 // 2064512, unreachable
	const clamped = 16 * 2 * 32767         // 1048544
	for c, v := range got {
		if v != clamped {
			t.Fatalf("column %d: got %d, want clamped %d", c, v, clamped)
		}
		if v >= exact {
			t.Fatalf("column %d: %d not clamped below exact %d", c, v, exact)
		}
	}
}

func TestMultiplyShapePanics(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		width int
		cols  int
	}{
		{"width not register multiple", 1, 96, 8},
		{"cols not strip multiple", 1, 64, 12},
		{"zero rows", 0, 64, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("Multiply8(%d,%d,%d) did not panic", tt.rows, tt.width, tt.cols)
				}
			}()
			a := make([]int8, tt.rows*tt.width)
			b := make([]int8, tt.width*tt.cols)
			Multiply8(a, b, tt.rows, tt.width, tt.cols, func([]int32, int, int, int, int, int) {})
		})
	}
}
