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
	"path"
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	"github.com/NVIDIA/qdrant-backup/pkg/header"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
	"github.com/NVIDIA/qdrant-backup/pkg/snapshot"
)

// ObjectListing maps each collection to the keys stored for it.
type ObjectListing struct {
	header.Header `json:",inline" yaml:",inline"`

	Bucket  string              `json:"bucket" yaml:"bucket"`
	Objects map[string][]string `json:"objects" yaml:"objects"`
}

// TableHeader implements serializer.Table.
func (l *ObjectListing) TableHeader() []string {
	return []string{"COLLECTION", "OBJECT"}
}

// TableRows implements serializer.Table.
func (l *ObjectListing) TableRows() [][]string {
	names := make([]string, 0, len(l.Objects))
	for c := range l.Objects {
		names = append(names, c)
	}
	sort.Strings(names)

	var rows [][]string
	for _, c := range names {
		if len(l.Objects[c]) == 0 {
			rows = append(rows, []string{c, "-"})
			continue
		}
		for _, k := range l.Objects[c] {
			rows = append(rows, []string{c, l.Bucket + "/" + k})
		}
	}
	return rows
}

func objectsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "objects",
		EnableShellCompletion: true,
		Usage:                 "List backed up objects in the bucket",
		ArgsUsage:             "[collection...]",
		Description: `List the snapshot objects stored per collection. Without arguments
every object in the bucket is listed, grouped by collection prefix.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bucket", Usage: "destination bucket"},
			&cli.StringFlag{Name: "alias", Usage: "object store alias from the configuration"},
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
			if cfg.BucketName == "" {
				return qberrors.New(qberrors.ErrCodeConfig, "bucketName is required")
			}
			objects, err := newObjectStore(cfg)
			if err != nil {
				return err
			}

			lctx, cancel := context.WithTimeout(ctx, defaults.BucketCheckTimeout)
			defer cancel()

			listing := &ObjectListing{Bucket: cfg.BucketName, Objects: map[string][]string{}}
			listing.Init(header.KindObjectListing, version, time.Now())
			collections := cmd.Args().Slice()
			if len(collections) == 0 {
				keys, err := objects.ListPrefix(lctx, cfg.BucketName, "")
				if err != nil {
					return err
				}
				for _, k := range keys {
					c := path.Dir(k)
					listing.Objects[c] = append(listing.Objects[c], k)
				}
			}
			for _, c := range collections {
				if err := snapshot.ValidateCollection(c); err != nil {
					return err
				}
				keys, err := objects.ListPrefix(lctx, cfg.BucketName, c+"/")
				if err != nil {
					return err
				}
				listing.Objects[c] = keys
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, listing)
		},
	}
}
