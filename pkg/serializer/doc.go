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

// Package serializer writes and reads run reports as JSON, YAML or a
// table.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "/var/lib/qbackup/last-run.yaml")
//	defer w.Close()
//	if err := w.Serialize(ctx, run); err != nil {
//	    return err
//	}
//
// Values implementing Table are printed as aligned rows. Everything else is
// flattened into FIELD/VALUE pairs with dotted keys.
//
// Reading back a saved report, with the format taken from the extension:
//
//	run, err := serializer.FromFile[backup.Run]("last-run.json")
//
// Table output is write-only.
package serializer
