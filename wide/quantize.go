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

// Quantize16 converts size floats to int16:
//
//	output[i] = sat16(roundEven(input[i] * quantMult))
//
// Values whose scaled magnitude exceeds the int16 range saturate instead of
// wrapping, bounding the quantization error.
//
// size must be a multiple of 16 (one float register); size is taken from
// len(input) and output must hold at least that many elements.
func Quantize16(input []float32, output []int16, quantMult float32) {
	size := len(input)
	checkQuantizeShape(size, len(output))
	mult := vec512.SetF32(quantMult)
	for i := 0; i < size; i += vec512.F32Lanes {
		g := vec512.RoundI32(vec512.MulF32(vec512.LoadF32(input[i:]), mult))
		vec512.StoreSatI16(g, output[i:])
	}
}

// Quantize8 converts size floats to int8:
//
//	output[i] = sat8(max(roundEven(input[i] * quantMult), -127))
//
// The result range is [-127, 127]; -128 is banned so the multiply kernel can
// negate any quantized value without overflow.
//
// size must be a multiple of 16 (one float register); size is taken from
// len(input) and output must hold at least that many elements.
func Quantize8(input []float32, output []int8, quantMult float32) {
	size := len(input)
	checkQuantizeShape(size, len(output))
	mult := vec512.SetF32(quantMult)
	neg127 := vec512.SetI32(-127)
	for i := 0; i < size; i += vec512.F32Lanes {
		g := vec512.RoundI32(vec512.MulF32(vec512.LoadF32(input[i:]), mult))
		vec512.StoreSatI8(vec512.MaxI32(g, neg127), output[i:])
	}
}

// PrepareA16 quantizes a row-major rows×cols activation matrix for
// Multiply16. rows*cols must be a multiple of 16.
func PrepareA16(input []float32, output []int16, quantMult float32, rows, cols int) {
	Quantize16(input[:rows*cols], output, quantMult)
}

// PrepareA8 quantizes a row-major rows×cols activation matrix for Multiply8.
// rows*cols must be a multiple of 16.
func PrepareA8(input []float32, output []int8, quantMult float32, rows, cols int) {
	Quantize8(input[:rows*cols], output, quantMult)
}

func checkQuantizeShape(size, outLen int) {
	if size%vec512.F32Lanes != 0 {
		panic(fmt.Sprintf("wide: quantize size %d not a multiple of %d", size, vec512.F32Lanes))
	}
	if outLen < size {
		panic(fmt.Sprintf("wide: quantize output length %d < input length %d", outLen, size))
	}
}
