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

package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/urfave/cli/v3"

	"github.com/kroketio/intgemm/callbacks"
	"github.com/kroketio/intgemm/wide"
)

func selftestCmd() *cli.Command {
	return &cli.Command{
		Name:  "selftest",
		Usage: "Run the quantize/pack/multiply pipeline against a float reference",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rows", Value: 8, Usage: "rows of A"},
			&cli.IntFlag{Name: "width", Value: 256, Usage: "shared dimension"},
			&cli.IntFlag{Name: "cols", Value: 64, Usage: "columns of B"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "PRNG seed"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := commandLogger(cmd)
			rows := int(cmd.Int("rows"))
			width := int(cmd.Int("width"))
			cols := int(cmd.Int("cols"))
			if width%64 != 0 || cols%wide.TileCols != 0 {
				return fmt.Errorf("selftest: width must be a multiple of 64 and cols a multiple of %d", wide.TileCols)
			}

			rng := rand.New(rand.NewPCG(uint64(cmd.Int("seed")), 0))
			a := randomMatrix(rng, rows*width)
			b := randomMatrix(rng, width*cols)
			ref := referenceMultiply(a, b, rows, width, cols)

			for _, bits := range []int{8, 16} {
				maxErr, tol := runPipeline(bits, a, b, ref, rows, width, cols)
				log.Info("selftest pipeline done", "bits", bits, "max_error", maxErr, "tolerance", tol)
				if maxErr > tol {
					return fmt.Errorf("selftest: %d-bit max error %g exceeds tolerance %g", bits, maxErr, tol)
				}
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func randomMatrix(rng *rand.Rand, n int) []float32 {
	m := make([]float32, n)
	for i := range m {
		m[i] = float32(rng.Float64()*2 - 1)
	}
	return m
}

func referenceMultiply(a, b []float32, rows, width, cols int) []float64 {
	ref := make([]float64, rows*cols)
	for r := range rows {
		for c := range cols {
			var sum float64
			for k := range width {
				sum += float64(a[r*width+k]) * float64(b[k*cols+c])
			}
			ref[r*cols+c] = sum
		}
	}
	return ref
}

// runPipeline quantizes, packs and multiplies with the requested element
// width, returning the max absolute deviation from ref and the a-priori
// quantization error bound for these inputs.
func runPipeline(bits int, a, b []float32, ref []float64, rows, width, cols int) (maxErr, tol float64) {
	maxA := wide.MaxAbsolute(a)
	maxB := wide.MaxAbsolute(b)
	out := make([]float32, rows*cols)

	var quantA, quantB float32
	switch bits {
	case 8:
		quantA = 127 / maxA
		quantB = 127 / maxB
		qa := make([]int8, rows*width)
		qb := make([]int8, width*cols)
		wide.PrepareA8(a, qa, quantA, rows, width)
		wide.PrepareB8(b, qb, quantB, width, cols)
		wide.Multiply8(qa, qb, rows, width, cols, callbacks.Unquantize(1/(quantA*quantB), out))
	case 16:
		quantA = 1024
		quantB = 1024
		qa := make([]int16, rows*width)
		qb := make([]int16, width*cols)
		wide.PrepareA16(a, qa, quantA, rows, width)
		wide.PrepareB16(b, qb, quantB, width, cols)
		wide.Multiply16(qa, qb, rows, width, cols, callbacks.Unquantize(1/(quantA*quantB), out))
	default:
		panic("unsupported element width")
	}

	for i, want := range ref {
		err := float64(out[i]) - want
		if err < 0 {
			err = -err
		}
		if err > maxErr {
			maxErr = err
		}
	}

	// Each product's error is at most Δa·|b| + Δb·|a| + Δa·Δb with
	// Δ = 0.5/quantMult, summed over the shared dimension.
	da := 0.5 / float64(quantA)
	db := 0.5 / float64(quantB)
	tol = float64(width) * (da*float64(maxB) + db*float64(maxA) + da*db)
	return maxErr, tol
}
