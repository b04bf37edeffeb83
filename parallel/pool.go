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

// Package parallel stripes multiply calls across rows of A using a
// persistent worker pool. The GEMM core itself is single-threaded per
// invocation; this package is the caller-side parallelization the core's
// contract allows: disjoint row ranges, sharing the read-only packed B.
package parallel

import (
	"runtime"
	"sync"
)

// Pool is a persistent worker pool, created once and reused across many
// multiplies so per-call goroutine spawning does not dominate small kernels.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     bool
	mu         sync.RWMutex
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// NewPool creates a pool with numWorkers persistent workers. If
// numWorkers <= 0 it uses GOMAXPROCS.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts the pool down after pending work completes. Safe to call more
// than once; a closed pool runs further work sequentially.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.workC)
	})
}

// run executes fn for contiguous index ranges covering [0, n), blocking
// until all ranges complete.
func (p *Pool) run(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		start := i * chunk
		end := min(start+chunk, n)
		if start >= n {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn:      func() { fn(start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}
