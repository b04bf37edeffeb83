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

	"github.com/kroketio/intgemm/vec512"
)

// Tile dimensions for packed B. B's row count must be a multiple of the
// per-element-width tile row count and its column count a multiple of
// TileCols.
const (
	Tile16Rows = 32
	Tile8Rows  = 64
	TileCols   = 8
)

// packedIndex is the element-position bijection shared by PrepareB,
// SelectColumnsB and the multiply kernels. It maps element (row, col) of a
// rows×cols matrix to its offset in the packed buffer:
//
//   - columns are grouped into strips of TileCols,
//   - rows are grouped into blocks of tileRows (one 512-bit register of
//     elements),
//   - within a (strip, block) tile each column's tileRows elements are
//     contiguous, so one register load yields tileRows consecutive inner-
//     dimension values of a single column.
//
// Positions only; values are untouched apart from quantization.
func packedIndex(row, col, rows, tileRows int) int {
	strip := col / TileCols
	block := row / tileRows
	return strip*rows*TileCols +
		block*tileRows*TileCols +
		(col%TileCols)*tileRows +
		row%tileRows
}

// PrepareB16 quantizes a row-major rows×cols float weight matrix with
// quantMult and writes it in the packed tiled layout Multiply16 streams.
// Packing is a one-time cost; the result can be reused across multiplies
// and fed to SelectColumnsB16.
//
// rows must be a multiple of Tile16Rows and cols a multiple of TileCols.
func PrepareB16(input []float32, output []int16, quantMult float32, rows, cols int) {
	checkBShape(rows, cols, Tile16Rows, len(input), len(output))
	mult := vec512.SetF32(quantMult)
	var colBuf [Tile16Rows]float32
	for strip := 0; strip < cols; strip += TileCols {
		for block := 0; block < rows; block += Tile16Rows {
			for c := range TileCols {
				col := strip + c
				for r := range Tile16Rows {
					colBuf[r] = input[(block+r)*cols+col]
				}
				dst := output[packedIndex(block, col, rows, Tile16Rows):]
				for i := 0; i < Tile16Rows; i += vec512.F32Lanes {
					g := vec512.RoundI32(vec512.MulF32(vec512.LoadF32(colBuf[i:]), mult))
					vec512.StoreSatI16(g, dst[i:])
				}
			}
		}
	}
}

// PrepareB8 quantizes a row-major rows×cols float weight matrix with
// quantMult and writes it in the packed tiled layout Multiply8 streams.
// Quantized values are clamped to [-127, 127]; -128 never appears, which
// Multiply8's conditional negation relies on.
//
// rows must be a multiple of Tile8Rows and cols a multiple of TileCols.
func PrepareB8(input []float32, output []int8, quantMult float32, rows, cols int) {
	checkBShape(rows, cols, Tile8Rows, len(input), len(output))
	mult := vec512.SetF32(quantMult)
	neg127 := vec512.SetI32(-127)
	var colBuf [Tile8Rows]float32
	for strip := 0; strip < cols; strip += TileCols {
		for block := 0; block < rows; block += Tile8Rows {
			for c := range TileCols {
				col := strip + c
				for r := range Tile8Rows {
					colBuf[r] = input[(block+r)*cols+col]
				}
				dst := output[packedIndex(block, col, rows, Tile8Rows):]
				for i := 0; i < Tile8Rows; i += vec512.F32Lanes {
					g := vec512.RoundI32(vec512.MulF32(vec512.LoadF32(colBuf[i:]), mult))
					vec512.StoreSatI8(vec512.MaxI32(g, neg127), dst[i:])
				}
			}
		}
	}
}

func checkBShape(rows, cols, tileRows, inLen, outLen int) {
	if rows <= 0 || rows%tileRows != 0 {
		panic(fmt.Sprintf("wide: B rows %d not a positive multiple of %d", rows, tileRows))
	}
	if cols <= 0 || cols%TileCols != 0 {
		panic(fmt.Sprintf("wide: B cols %d not a positive multiple of %d", cols, TileCols))
	}
	if inLen < rows*cols {
		panic(fmt.Sprintf("wide: B input length %d < %d", inLen, rows*cols))
	}
	if outLen < rows*cols {
		panic(fmt.Sprintf("wide: B output length %d < %d", outLen, rows*cols))
	}
}
