// Copyright 2025 Poiesic Systems
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


package vectorize

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how a failing remote call is retried.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts including the first
	BaseDelay   time.Duration // Lower bound of every wait and the first ceiling
	MaxDelay    time.Duration // Upper bound of every wait
}

// DefaultRetryPolicy returns the embedding service policy: up to 10 attempts
// waiting between 1s and 40s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 10,
		BaseDelay:   time.Second,
		MaxDelay:    40 * time.Second,
	}
}

// Validate checks that the policy is usable.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if p.BaseDelay <= 0 || p.MaxDelay < p.BaseDelay {
		return ErrInvalidDelay
	}
	return nil
}

// jitteredBackOff implements backoff.BackOff. The n-th wait is drawn
// uniformly from [base, min(max, base*2^(n-1))].
type jitteredBackOff struct {
	base    time.Duration
	max     time.Duration
	retries int
	random  func() float64
}

func newJitteredBackOff(p RetryPolicy) *jitteredBackOff {
	return &jitteredBackOff{base: p.BaseDelay, max: p.MaxDelay, random: rand.Float64}
}

func (b *jitteredBackOff) NextBackOff() time.Duration {
	ceiling := b.base
	for i := 0; i < b.retries && ceiling < b.max; i++ {
		ceiling *= 2
	}
	if ceiling > b.max {
		ceiling = b.max
	}
	b.retries++
	return b.base + time.Duration(b.random()*float64(ceiling-b.base))
}

func (b *jitteredBackOff) Reset() {
	b.retries = 0
}

// Permanent marks err as not worth retrying. RetryWithBackoff returns the
// wrapped error immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// RetryWithBackoff retries an operation with randomized exponential backoff.
// It returns nil on the first success, the error of the final attempt once
// policy.MaxAttempts is reached, or the context error if ctx ends first.
// Errors wrapped with Permanent stop the loop at once.
func RetryWithBackoff(ctx context.Context, operation func() error, policy RetryPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	attempt := 0
	counted := func() error {
		attempt++
		return operation()
	}
	notify := func(err error, wait time.Duration) {
		slog.Debug("operation failed, will retry",
			"attempt", attempt,
			"maxAttempts", policy.MaxAttempts,
			"wait", wait,
			"error", err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(newJitteredBackOff(policy), uint64(policy.MaxAttempts-1)),
		ctx)

	err := backoff.RetryNotify(counted, b, notify)
	if err == nil && attempt > 1 {
		slog.Debug("operation succeeded after retry", "attempt", attempt)
	}
	return err
}
