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

//go:build amd64

package intgemm

import "golang.org/x/sys/cpu"

func init() {
	if noSimdEnv() {
		detected = Scalar
		return
	}
	detected = detectCPUFeatures()
}

// detectCPUFeatures picks the highest supported level. The wide backend
// needs both AVX512BW (byte/word integer ops) and AVX512DQ (the float
// insert used while packing), matching mainstream AVX-512 parts from
// Skylake Xeons on.
func detectCPUFeatures() Feature {
	switch {
	case cpu.X86.HasAVX512BW && cpu.X86.HasAVX512DQ:
		return AVX512BW
	case cpu.X86.HasAVX2:
		return AVX2
	default:
		// SSE2 is baseline for amd64.
		return SSE2
	}
}
