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

import "fmt"

// SelectColumnsB16 copies the listed columns out of a packed 16-bit B into a
// smaller packed B, tile structure intact, without touching source floats.
// cols may repeat and may be in any order; its length must be a multiple of
// TileCols so the result is whole strips. rows is the packed matrix's row
// count (a multiple of Tile16Rows).
func SelectColumnsB16(input, output []int16, rows int, cols []int) {
	selectColumns(input, output, rows, Tile16Rows, cols)
}

// SelectColumnsB8 copies the listed columns out of a packed 8-bit B into a
// smaller packed B, tile structure intact. Same contract as
// SelectColumnsB16 with Tile8Rows row blocks.
func SelectColumnsB8(input, output []int8, rows int, cols []int) {
	selectColumns(input, output, rows, Tile8Rows, cols)
}

// selectColumns moves whole tile-rows: each selected column is rows/tileRows
// contiguous register-sized blocks in the source, copied verbatim to the
// column's position in the destination strip.
func selectColumns[T int8 | int16](input, output []T, rows, tileRows int, cols []int) {
	if rows <= 0 || rows%tileRows != 0 {
		panic(fmt.Sprintf("wide: packed B rows %d not a positive multiple of %d", rows, tileRows))
	}
	if len(cols)%TileCols != 0 {
		panic(fmt.Sprintf("wide: selected column count %d not a multiple of %d", len(cols), TileCols))
	}
	if len(output) < rows*len(cols) {
		panic(fmt.Sprintf("wide: select output length %d < %d", len(output), rows*len(cols)))
	}
	for i, col := range cols {
		for block := 0; block < rows; block += tileRows {
			src := input[packedIndex(block, col, rows, tileRows):]
			dst := output[packedIndex(block, i, rows, tileRows):]
			copy(dst[:tileRows], src[:tileRows])
		}
	}
}
