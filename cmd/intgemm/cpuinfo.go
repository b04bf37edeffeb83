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
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/kroketio/intgemm"
	_ "github.com/kroketio/intgemm/wide" // register backends
)

func cpuinfoCmd() *cli.Command {
	return &cli.Command{
		Name:  "cpuinfo",
		Usage: "Report detected CPU capability and registered backends",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("arch:     %s\n", runtime.GOARCH)
			fmt.Printf("detected: %s\n", intgemm.Detected())
			fmt.Println("backends:")
			for _, b := range intgemm.Backends() {
				native := "portable"
				if intgemm.Native(b) {
					native = "native"
				}
				fmt.Printf("  %-12s uses=%-9s tile=%dx%d elem=%d-bit (%s)\n",
					b.Name, b.Uses, b.TileRows, b.TileCols, b.ElemBits, native)
			}
			return nil
		},
	}
}
