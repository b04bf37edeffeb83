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
	"os"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/kroketio/intgemm"
	"github.com/kroketio/intgemm/callbacks"
	"github.com/kroketio/intgemm/parallel"
	"github.com/kroketio/intgemm/wide"
)

type benchShape struct {
	Rows  int `yaml:"rows"`
	Width int `yaml:"width"`
	Cols  int `yaml:"cols"`
}

type benchConfig struct {
	Shapes  []benchShape `yaml:"shapes"`
	Repeats int          `yaml:"repeats"`
}

type benchResult struct {
	Rows               int     `json:"rows"`
	Width              int     `json:"width"`
	Cols               int     `json:"cols"`
	Bits               int     `json:"bits"`
	PrepareBNs         int64   `json:"prepare_b_ns"`
	MultiplyNs         int64   `json:"multiply_ns"`
	MultiplyParallelNs int64   `json:"multiply_parallel_ns"`
	GOPS               float64 `json:"gops"`
}

type benchReport struct {
	RunID    string        `json:"run_id"`
	Detected string        `json:"detected"`
	Arch     string        `json:"arch"`
	Workers  int           `json:"workers"`
	Results  []benchResult `json:"results"`
}

func defaultBenchConfig() benchConfig {
	return benchConfig{
		Shapes: []benchShape{
			{Rows: 64, Width: 256, Cols: 256},
			{Rows: 128, Width: 512, Cols: 512},
		},
		Repeats: 3,
	}
}

func loadBenchConfig(path string) (benchConfig, error) {
	cfg := defaultBenchConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("bench: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("bench: parse config: %w", err)
	}
	if cfg.Repeats <= 0 {
		cfg.Repeats = 1
	}
	return cfg, nil
}

func benchCmd() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Time PrepareB and Multiply for a set of shapes, emit a JSON report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML file with shapes and repeats"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := commandLogger(cmd)
			cfg, err := loadBenchConfig(cmd.String("config"))
			if err != nil {
				return err
			}

			pool := parallel.NewPool(0)
			defer pool.Close()

			report := benchReport{
				RunID:    uuid.NewString(),
				Detected: intgemm.Detected().String(),
				Arch:     runtime.GOARCH,
				Workers:  pool.NumWorkers(),
			}

			for _, s := range cfg.Shapes {
				if s.Width%64 != 0 || s.Cols%wide.TileCols != 0 || s.Rows <= 0 {
					return fmt.Errorf("bench: shape %dx%dx%d: width must be a multiple of 64, cols a multiple of %d",
						s.Rows, s.Width, s.Cols, wide.TileCols)
				}
				for _, bits := range []int{8, 16} {
					r := benchOne(pool, s, bits, cfg.Repeats)
					log.Info("bench shape done",
						"rows", s.Rows, "width", s.Width, "cols", s.Cols,
						"bits", bits, "gops", r.GOPS)
					report.Results = append(report.Results, r)
				}
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("bench: encode report: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func benchOne(pool *parallel.Pool, s benchShape, bits, repeats int) benchResult {
	rng := rand.New(rand.NewPCG(42, 0))
	a := randomMatrix(rng, s.Rows*s.Width)
	b := randomMatrix(rng, s.Width*s.Cols)
	out := make([]float32, s.Rows*s.Cols)

	res := benchResult{Rows: s.Rows, Width: s.Width, Cols: s.Cols, Bits: bits}

	switch bits {
	case 8:
		quantA := 127 / wide.MaxAbsolute(a)
		quantB := 127 / wide.MaxAbsolute(b)
		qa := make([]int8, s.Rows*s.Width)
		qb := make([]int8, s.Width*s.Cols)
		wide.PrepareA8(a, qa, quantA, s.Rows, s.Width)
		cb := callbacks.Unquantize(1/(quantA*quantB), out)

		res.PrepareBNs = bestOf(repeats, func() {
			wide.PrepareB8(b, qb, quantB, s.Width, s.Cols)
		})
		res.MultiplyNs = bestOf(repeats, func() {
			wide.Multiply8(qa, qb, s.Rows, s.Width, s.Cols, cb)
		})
		res.MultiplyParallelNs = bestOf(repeats, func() {
			parallel.Multiply8(pool, qa, qb, s.Rows, s.Width, s.Cols, cb)
		})
	case 16:
		const quant = 1024
		qa := make([]int16, s.Rows*s.Width)
		qb := make([]int16, s.Width*s.Cols)
		wide.PrepareA16(a, qa, quant, s.Rows, s.Width)
		cb := callbacks.Unquantize(1.0/(quant*quant), out)

		res.PrepareBNs = bestOf(repeats, func() {
			wide.PrepareB16(b, qb, quant, s.Width, s.Cols)
		})
		res.MultiplyNs = bestOf(repeats, func() {
			wide.Multiply16(qa, qb, s.Rows, s.Width, s.Cols, cb)
		})
		res.MultiplyParallelNs = bestOf(repeats, func() {
			parallel.Multiply16(pool, qa, qb, s.Rows, s.Width, s.Cols, cb)
		})
	}

	ops := 2 * float64(s.Rows) * float64(s.Width) * float64(s.Cols)
	if res.MultiplyNs > 0 {
		res.GOPS = ops / float64(res.MultiplyNs)
	}
	return res
}

func bestOf(repeats int, fn func()) int64 {
	best := int64(-1)
	for range repeats {
		start := time.Now()
		fn()
		elapsed := time.Since(start).Nanoseconds()
		if best < 0 || elapsed < best {
			best = elapsed
		}
	}
	return best
}
