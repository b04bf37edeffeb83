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

import "github.com/kroketio/intgemm"

// Backend descriptors for the dispatch registry. Both variants' native
// vector form is the 512-bit byte/word instruction set.
var (
	Backend16 = intgemm.Backend{
		Name:     "16-bit wide",
		Uses:     intgemm.AVX512BW,
		ElemBits: 16,
		TileRows: Tile16Rows,
		TileCols: TileCols,
	}

	Backend8 = intgemm.Backend{
		Name:     "8-bit wide",
		Uses:     intgemm.AVX512BW,
		ElemBits: 8,
		TileRows: Tile8Rows,
		TileCols: TileCols,
	}
)

func init() {
	intgemm.Register(Backend16)
	intgemm.Register(Backend8)
}
