// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qdrant-backup/pkg/backup"
	"github.com/NVIDIA/qdrant-backup/pkg/header"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "report",
		EnableShellCompletion: true,
		Usage:                 "Render a saved run report",
		ArgsUsage:             "<report.json|report.yaml>",
		Description: `Read a report written by "run --report" and print it in another format.

# Examples

  qbackup report /var/lib/qbackup/last-run.json
  qbackup report --format yaml last-run.json`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one report path, got %d", cmd.Args().Len())
			}
			outFormat, err := parseOutputFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			run, err := serializer.FromFile[backup.Run](cmd.Args().First())
			if err != nil {
				return err
			}
			if !run.Is(header.KindBackupRun) {
				return fmt.Errorf("%s is a %s document, not a %s report",
					cmd.Args().First(), run.Kind, header.KindBackupRun)
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, run)
		},
	}
}
