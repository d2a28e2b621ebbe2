/*
 * MIT License
 *
 * Copyright (c) 2024 EASL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package core

import "time"

type ActivitySample struct {
	ActiveEntities int
	Reachable      bool
	RTT            time.Duration
	SampledAt      time.Time
}

type ControllerState struct {
	CurrentTier      Tier
	AutoEnabled      bool
	SuspendedUntil   *time.Time
	LastTransitionAt time.Time
}

func (s ControllerState) Suspended(now time.Time) bool {
	return s.SuspendedUntil != nil && now.Before(*s.SuspendedUntil)
}

// Copy returns a snapshot that does not share the suspension deadline.
func (s ControllerState) Copy() ControllerState {
	res := s
	if s.SuspendedUntil != nil {
		until := *s.SuspendedUntil
		res.SuspendedUntil = &until
	}

	return res
}
