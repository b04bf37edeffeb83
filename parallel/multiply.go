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

package parallel

import (
	"github.com/kroketio/intgemm/callbacks"
	"github.com/kroketio/intgemm/wide"
)

// Multiply8 runs wide.Multiply8 with rows of A striped across the pool's
// workers. Each worker issues an independent single-threaded kernel call on
// its row range; b is shared read-only. cb sees original row indices but may
// be invoked concurrently for different rows, so it must only write cells
// addressed by its position arguments.
func Multiply8(pool *Pool, a, b []int8, aRows, width, bCols int, cb callbacks.Func) {
	pool.run(aRows, func(start, end int) {
		wide.Multiply8(a[start*width:end*width], b, end-start, width, bCols,
			func(sums []int32, row, colStart, _, w, bc int) {
				cb(sums, start+row, colStart, aRows, w, bc)
			})
	})
}

// Multiply16 runs wide.Multiply16 with rows of A striped across the pool's
// workers. Same contract as Multiply8.
func Multiply16(pool *Pool, a, b []int16, aRows, width, bCols int, cb callbacks.Func) {
	pool.run(aRows, func(start, end int) {
		wide.Multiply16(a[start*width:end*width], b, end-start, width, bCols,
			func(sums []int32, row, colStart, _, w, bc int) {
				cb(sums, start+row, colStart, aRows, w, bc)
			})
	})
}
