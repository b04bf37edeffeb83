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

package intgemm_test

import (
	"fmt"

	"github.com/kroketio/intgemm/callbacks"
	"github.com/kroketio/intgemm/wide"
)

// The full 8-bit pipeline: quantize activations, pack weights once, multiply,
// and let the callback rescale accumulators back to floats.
func Example() {
	const rows, width, cols = 1, 64, 8

	a := make([]float32, rows*width)
	b := make([]float32, width*cols)
	for i := range a {
		a[i] = 0.5
	}
	for i := range b {
		b[i] = 0.25
	}

	quantA := 127 / wide.MaxAbsolute(a)
	quantB := 127 / wide.MaxAbsolute(b)

	qa := make([]int8, rows*width)
	qb := make([]int8, width*cols)
	wide.PrepareA8(a, qa, quantA, rows, width)
	wide.PrepareB8(b, qb, quantB, width, cols)

	out := make([]float32, rows*cols)
	wide.Multiply8(qa, qb, rows, width, cols,
		callbacks.Unquantize(1/(quantA*quantB), out))

	fmt.Printf("%.1f\n", out[0])
	// Output: 8.0
}
