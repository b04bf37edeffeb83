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

import "github.com/kroketio/intgemm/vec512"

// MaxAbsolute returns the largest absolute value in input. Callers typically
// derive the quantization multiplier from it, e.g. 127 / MaxAbsolute(b) for
// the 8-bit pipeline.
func MaxAbsolute(input []float32) float32 {
	maxReg := vec512.SetF32(0)
	i := 0
	for ; i+vec512.F32Lanes <= len(input); i += vec512.F32Lanes {
		maxReg = vec512.MaxF32(maxReg, vec512.AbsF32(vec512.LoadF32(input[i:])))
	}

	var buf [vec512.F32Lanes]float32
	vec512.StoreF32(maxReg, buf[:])
	max := buf[0]
	for _, v := range buf[1:] {
		if v > max {
			max = v
		}
	}

	// Scalar tail.
	for ; i < len(input); i++ {
		v := input[i]
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}
