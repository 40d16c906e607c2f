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

// Package retention derives the two-generation rotation tag used to name
// uploaded snapshots.
//
// The tag depends only on the parity of the day of the month, so every
// collection uploaded during one run shares a tag and a same-day rerun
// overwrites the same object key. Even-day and odd-day generations coexist in
// the bucket without explicit deletion:
//
//	tag := retention.TagFor(time.Now())
//	key := retention.ObjectKey("StoreA_Customers", tag, ".snapshot")
//	// StoreA_Customers/StoreA_Customers_Chan.snapshot on an even day
//
// Month boundaries with 31 days yield two consecutive odd days (31st, 1st);
// the older generation is still preserved by the even-day slot.
package retention
