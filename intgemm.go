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

// Package intgemm is the dispatch boundary for the quantized integer GEMM
// backends: it detects the host CPU's vector capability and keeps a registry
// of backend descriptors (name, required feature, tile shape, element width)
// that backends publish at init time. The kernels themselves live in the
// backend packages (see wide).
package intgemm

import (
	"os"
	"sort"
)

// Feature is a CPU vector capability level. Levels are ordered; a host at
// level L runs natively every backend whose Uses is <= L.
type Feature int

const (
	Scalar Feature = iota
	SSE2
	AVX2
	AVX512BW
)

// String returns the conventional lowercase name of the feature level.
func (f Feature) String() string {
	switch f {
	case Scalar:
		return "scalar"
	case SSE2:
		return "sse2"
	case AVX2:
		return "avx2"
	case AVX512BW:
		return "avx512bw"
	default:
		return "unknown"
	}
}

// Backend describes one backend variant for dispatch purposes. Descriptors
// are immutable capability metadata; the entry points are the backend
// package's exported functions.
type Backend struct {
	// Name is the display name, e.g. "8-bit wide".
	Name string
	// Uses is the capability the backend's native vector form requires.
	Uses Feature
	// ElemBits is the quantized element width: 8 or 16.
	ElemBits int
	// TileRows and TileCols are the PrepareB tile dimensions; B's shape
	// must be a multiple of them.
	TileRows int
	TileCols int
}

var (
	detected Feature
	registry []Backend
)

// Detected reports the capability level of the host CPU, as determined at
// program start. Setting INTGEMM_NO_SIMD in the environment forces Scalar.
func Detected() Feature {
	return detected
}

// Native reports whether b's native vector form runs on this host.
func Native(b Backend) bool {
	return b.Uses <= detected
}

// Register publishes a backend descriptor. Backend packages call it from
// init; later registrations of equal element width with a higher feature
// requirement sort first in Backends.
func Register(b Backend) {
	registry = append(registry, b)
	sort.SliceStable(registry, func(i, j int) bool {
		if registry[i].ElemBits != registry[j].ElemBits {
			return registry[i].ElemBits < registry[j].ElemBits
		}
		return registry[i].Uses > registry[j].Uses
	})
}

// Backends returns the registered descriptors, widest-capability first
// within each element width.
func Backends() []Backend {
	out := make([]Backend, len(registry))
	copy(out, registry)
	return out
}

func noSimdEnv() bool {
	return os.Getenv("INTGEMM_NO_SIMD") != ""
}
