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
	"strings"

	"github.com/urfave/cli/v3"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
)

func collectionsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collections",
		EnableShellCompletion: true,
		Usage:                 "List the collections a run would back up",
		Description: `Query the database API for its collections without triggering any
snapshot. Useful to check connectivity and the collectionsField setting.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "database API base URL"},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.APIBaseURL) == "" {
				return qberrors.New(qberrors.ErrCodeConfig, "apiBaseURL is required")
			}

			client, err := newDBClient(cfg)
			if err != nil {
				return err
			}
			names, err := client.ListCollections(ctx)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, map[string]any{"collections": names})
		},
	}
}
