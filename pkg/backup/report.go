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

package backup

import (
	"time"

	"github.com/dustin/go-humanize"
)

// TableHeader implements serializer.Table.
func (r *Run) TableHeader() []string {
	return []string{"COLLECTION", "STATUS", "OBJECT", "SIZE", "DURATION", "DETAIL"}
}

// TableRows implements serializer.Table. Each outcome is one row.
func (r *Run) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		size, object, detail := "-", "-", "-"
		if o.Status == StatusUploaded {
			size = humanize.IBytes(uint64(o.Size))
		}
		if o.ObjectKey != "" {
			object = r.Bucket + "/" + o.ObjectKey
		}
		switch {
		case o.Status == StatusUploaded && o.OriginalName != "":
			detail = o.OriginalName
		case o.Status == StatusNotFound:
			detail = o.SearchedPath
		case o.Reason != "":
			detail = o.Reason
		}
		rows = append(rows, []string{
			o.Collection,
			string(o.Status),
			object,
			size,
			o.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}
	return rows
}
