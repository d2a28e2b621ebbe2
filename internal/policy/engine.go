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
	"time"

	"droplet_manager/internal/core"
)

// DefaultIdleThreshold treats zero and one active players alike.
const DefaultIdleThreshold = 1

type Decision struct {
	Target       core.Tier
	NoOp         bool
	IdleDemotion bool
	Reason       string
}

// Engine maps time of day and activity onto a target tier. It holds no
// mutable state, so Decide is safe for concurrent use.
type Engine struct {
	schedule      *Schedule
	tiers         *core.TierTable
	location      *time.Location
	idleThreshold int
}

func NewEngine(schedule *Schedule, tiers *core.TierTable, location *time.Location, idleThreshold int) *Engine {
	if location == nil {
		location = time.Local
	}
	if idleThreshold < 0 {
		idleThreshold = DefaultIdleThreshold
	}

	return &Engine{
		schedule:      schedule,
		tiers:         tiers,
		location:      location,
		idleThreshold: idleThreshold,
	}
}

func (e *Engine) Decide(now time.Time, activeEntities int, reachable bool, current core.Tier) Decision {
	var decision Decision

	switch {
	case !reachable:
		// no confirmed activity when the host itself does not answer
		decision = Decision{
			Target:       e.tiers.Idle(),
			IdleDemotion: true,
			Reason:       fmt.Sprintf("host unreachable (%d players reported)", activeEntities),
		}
	case activeEntities <= e.idleThreshold:
		decision = Decision{
			Target:       e.tiers.Idle(),
			IdleDemotion: true,
			Reason:       fmt.Sprintf("idle (%d active players)", activeEntities),
		}
	default:
		local := now.In(e.location)
		decision = Decision{
			Target: e.schedule.TierAt(local),
			Reason: fmt.Sprintf("schedule at %s with %d active players", local.Format("15:04"), activeEntities),
		}
	}

	decision.NoOp = !current.IsUnknown() && decision.Target.Name == current.Name

	return decision
}

// IsDowngrade reports whether moving from current to target lowers capacity.
// An unknown current tier counts as a downgrade so idle demotions are still
// debounced after a failed ground-truth sync.
func IsDowngrade(current, target core.Tier) bool {
	return current.IsUnknown() || target.Rank < current.Rank
}
