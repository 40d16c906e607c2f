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

package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted is returned by Until when the condition never held within
// the configured number of attempts.
var ErrExhausted = errors.New("retry attempts exhausted")

// errNotYet signals the backoff loop that the condition is not satisfied.
var errNotYet = errors.New("condition not met")

// Condition is evaluated once per attempt. It returns true when done.
// A non-nil error stops the loop immediately and is returned to the caller.
type Condition func(ctx context.Context, attempt int) (bool, error)

// Policy bounds a polling loop with a fixed delay between attempts.
type Policy struct {
	// MaxAttempts is the total number of evaluations, including the first.
	MaxAttempts int
	// Delay is the pause between two consecutive evaluations.
	Delay time.Duration
	// OnRetry, if set, is called after a failed attempt before sleeping.
	OnRetry func(attempt int, wait time.Duration)
}

// Validate checks the policy bounds.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %v", p.Delay)
	}
	return nil
}

// Until evaluates cond until it reports true, returns an error, the attempts
// are used up (ErrExhausted) or ctx is done (ctx.Err()). The wait between
// attempts blocks on a timer and is interrupted by ctx cancellation.
func Until(ctx context.Context, p Policy, cond Condition) error {
	if err := p.Validate(); err != nil {
		return err
	}

	attempt := 0
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++
		done, err := cond(ctx, attempt)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errNotYet
		}
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(p.MaxAttempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(operation, b, func(_ error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait)
		}
	})
	if errors.Is(err, errNotYet) {
		return fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
	}
	return err
}
