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

// Package retry provides a bounded poll-until-true combinator.
//
// Until evaluates a condition up to MaxAttempts times with a fixed Delay in
// between, built on github.com/cenkalti/backoff/v4:
//
//	err := retry.Until(ctx, retry.Policy{MaxAttempts: 5, Delay: 2 * time.Second},
//	    func(ctx context.Context, attempt int) (bool, error) {
//	        return fileExists(path), nil
//	    })
//	if errors.Is(err, retry.ErrExhausted) {
//	    // condition never held
//	}
//
// The condition is never evaluated after ctx is done.
package retry
