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
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kroketio/intgemm/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "intgemm",
		Usage: "Quantized integer GEMM toolkit",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json-log",
				Usage: "emit logs as JSON on stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			cpuinfoCmd(),
			selftestCmd(),
			benchCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commandLogger(cmd *cli.Command) *slog.Logger {
	if cmd.Root().Bool("json-log") {
		return logger.JSON(os.Stderr, slog.LevelInfo)
	}
	return logger.Default()
}
