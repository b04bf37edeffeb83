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

// Package wide implements the 512-bit-register quantized GEMM backend in its
// 16-bit and 8-bit element variants: quantization of activations (PrepareA /
// Quantize), one-time packing of weights into the tiled layout the multiply
// kernel streams (PrepareB), tile-preserving column selection on packed
// weights (SelectColumnsB), and the multiply kernels themselves, which hand
// raw int32 accumulators to a callbacks.Func per (row, 8-column strip) pair.
//
// The three operations that touch packed weights — PrepareB, SelectColumnsB
// and Multiply — agree on a single element-position bijection (see
// packedIndex); the packed buffer is a layout contract, not a value
// encoding.
//
// Shape preconditions are programmer-error contracts and are enforced with
// panics; see the individual functions. All operations are single-threaded
// and touch only their arguments, so concurrent calls on disjoint buffers
// (or sharing a read-only packed B) are safe.
package wide
