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
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	"github.com/NVIDIA/qdrant-backup/pkg/header"
	"github.com/NVIDIA/qdrant-backup/pkg/retention"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
	"github.com/NVIDIA/qdrant-backup/pkg/snapshot"
)

// TagInfo describes the retention slot used on a given day.
type TagInfo struct {
	header.Header `json:",inline" yaml:",inline"`

	Date  string            `json:"date" yaml:"date"`
	Tag   retention.Tag     `json:"tag" yaml:"tag"`
	Other retention.Tag     `json:"other" yaml:"other"`
	Keys  map[string]string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

func tagCmd() *cli.Command {
	return &cli.Command{
		Name:                  "tag",
		EnableShellCompletion: true,
		Usage:                 "Show the retention tag and object keys for a day",
		ArgsUsage:             "[collection...]",
		Description: `Print the retention tag a run would use and, for each collection
given as an argument, the object key it would upload to.

# Examples

  qbackup tag
  qbackup tag --date 2024-03-14 StoreA_Customers StoreA_Employees`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "date",
				Usage: "day to evaluate, YYYY-MM-DD (default: today)",
			},
			&cli.StringFlag{
				Name:  "suffix",
				Usage: "snapshot file suffix",
				Value: defaults.SnapshotSuffix,
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			day := time.Now()
			if v := cmd.String("date"); v != "" {
				if day, err = time.ParseInLocation(time.DateOnly, v, time.Local); err != nil {
					return fmt.Errorf("invalid --date %q: %w", v, err)
				}
			}

			info, err := tagInfo(day, cmd.String("suffix"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, info)
		},
	}
}

func tagInfo(day time.Time, suffix string, collections []string) (*TagInfo, error) {
	tag := retention.TagFor(day)
	info := &TagInfo{
		Date:  day.Format(time.DateOnly),
		Tag:   tag,
		Other: tag.Other(),
	}
	info.Init(header.KindTagInfo, version, time.Now())
	if len(collections) == 0 {
		return info, nil
	}
	info.Keys = make(map[string]string, len(collections))
	for _, c := range collections {
		if err := snapshot.ValidateCollection(c); err != nil {
			return nil, err
		}
		info.Keys[c] = retention.ObjectKey(c, tag, suffix)
	}
	return info, nil
}
