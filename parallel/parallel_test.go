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
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/kroketio/intgemm/callbacks"
	"github.com/kroketio/intgemm/wide"
)

func TestPoolRunCoversRange(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 103
	var mu sync.Mutex
	covered := make([]int, n)
	pool.run(n, func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		for i := start; i < end; i++ {
			covered[i]++
		}
	})
	for i, c := range covered {
		if c != 1 {
			t.Fatalf("index %d covered %d times", i, c)
		}
	}
}

func TestClosedPoolRunsSequentially(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	ran := false
	pool.run(10, func(start, end int) {
		if start != 0 || end != 10 {
			t.Fatalf("closed pool split work: [%d,%d)", start, end)
		}
		ran = true
	})
	if !ran {
		t.Fatal("closed pool dropped work")
	}
}

func TestParallelMultiplyMatchesSerial(t *testing.T) {
	const rows, width, cols = 37, 128, 16
	rng := rand.New(rand.NewPCG(61, 0))
	aFloat := make([]float32, rows*width)
	bFloat := make([]float32, width*cols)
	for i := range aFloat {
		aFloat[i] = float32(rng.Float64()*2 - 1)
	}
	for i := range bFloat {
		bFloat[i] = float32(rng.Float64()*2 - 1)
	}

	qa := make([]int8, rows*width)
	qb := make([]int8, width*cols)
	wide.PrepareA8(aFloat, qa, 127, rows, width)
	wide.PrepareB8(bFloat, qb, 127, width, cols)

	serial := make([]int32, rows*cols)
	wide.Multiply8(qa, qb, rows, width, cols, callbacks.Write(serial))

	pool := NewPool(4)
	defer pool.Close()
	striped := make([]int32, rows*cols)
	Multiply8(pool, qa, qb, rows, width, cols, callbacks.Write(striped))

	for i := range serial {
		if striped[i] != serial[i] {
			t.Fatalf("cell %d: parallel %d != serial %d", i, striped[i], serial[i])
		}
	}
}

func TestParallelMultiply16MatchesSerial(t *testing.T) {
	const rows, width, cols = 9, 64, 8
	rng := rand.New(rand.NewPCG(67, 0))
	aFloat := make([]float32, rows*width)
	bFloat := make([]float32, width*cols)
	for i := range aFloat {
		aFloat[i] = float32(rng.Float64()*2 - 1)
	}
	for i := range bFloat {
		bFloat[i] = float32(rng.Float64()*2 - 1)
	}

	qa := make([]int16, rows*width)
	qb := make([]int16, width*cols)
	wide.PrepareA16(aFloat, qa, 1024, rows, width)
	wide.PrepareB16(bFloat, qb, 1024, width, cols)

	serial := make([]int32, rows*cols)
	wide.Multiply16(qa, qb, rows, width, cols, callbacks.Write(serial))

	pool := NewPool(3)
	defer pool.Close()
	striped := make([]int32, rows*cols)
	Multiply16(pool, qa, qb, rows, width, cols, callbacks.Write(striped))

	for i := range serial {
		if striped[i] != serial[i] {
			t.Fatalf("cell %d: parallel %d != serial %d", i, striped[i], serial[i])
		}
	}
}
