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

package policy

import (
	"fmt"
	"sort"
	"time"

	"droplet_manager/internal/core"
)

type WindowSpec struct {
	Start string
	Tier  string
}

// Window starts at Start (offset since midnight) and lasts until the start
// of the next window. The last window wraps around midnight.
type Window struct {
	Start time.Duration
	Tier  core.Tier
}

type Schedule struct {
	windows []Window
}

// ParseClock parses an "HH:MM" wall clock time into an offset since midnight.
func ParseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid window start %q, expected HH:MM: %w", value, err)
	}

	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func NewSchedule(specs []WindowSpec, tiers *core.TierTable) (*Schedule, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("schedule needs at least one window")
	}

	windows := make([]Window, 0, len(specs))
	starts := make(map[time.Duration]struct{}, len(specs))

	for _, spec := range specs {
		start, err := ParseClock(spec.Start)
		if err != nil {
			return nil, err
		}

		if _, ok := starts[start]; ok {
			return nil, fmt.Errorf("two schedule windows start at %s", spec.Start)
		}
		starts[start] = struct{}{}

		tier, err := tiers.Lookup(spec.Tier)
		if err != nil {
			return nil, fmt.Errorf("schedule window %s: %w", spec.Start, err)
		}

		windows = append(windows, Window{Start: start, Tier: tier})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start < windows[j].Start
	})

	return &Schedule{windows: windows}, nil
}

// TierAt returns the tier of the window containing the wall clock time of now.
func (s *Schedule) TierAt(now time.Time) core.Tier {
	offset := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	// first window starting after offset; the one before it contains offset
	idx := sort.Search(len(s.windows), func(i int) bool {
		return s.windows[i].Start > offset
	})
	if idx == 0 {
		return s.windows[len(s.windows)-1].Tier
	}

	return s.windows[idx-1].Tier
}

func (s *Schedule) Windows() []Window {
	res := make([]Window, len(s.windows))
	copy(res, s.windows)

	return res
}
