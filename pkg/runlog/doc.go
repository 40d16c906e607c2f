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

// Package runlog writes the human-readable backup run log.
//
// Each line has the form
//
//	[2024-03-14 02:00:01] INFO Backup run started
//
// where the level is one of INFO, WARNING or ERROR. The file is opened in
// append mode so successive runs accumulate in one log, and every line is
// mirrored to the structured slog logger.
package runlog
