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

import (
	"fmt"
	"sort"
)

// Tier is a named capacity level of the droplet. The provider size slug and
// the hourly cost travel together so the two can never drift apart.
type Tier struct {
	Name       string
	Slug       string
	HourlyCost float64
	Rank       int
	PowerOff   bool
}

// IsUnknown reports whether the tier is the zero value, used when the
// provider state could not be mapped to any configured tier.
func (t Tier) IsUnknown() bool {
	return t.Name == ""
}

func (t Tier) String() string {
	if t.IsUnknown() {
		return "unknown"
	}

	return t.Name
}

type TierTable struct {
	tiers  []Tier
	byName map[string]Tier
}

// NewTierTable validates the tier definitions and orders them by rank. The
// lowest ranked tier is the idle tier. If a power-off tier is configured it
// has to be the lowest ranked one.
func NewTierTable(tiers []Tier) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("no tiers configured")
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})

	byName := make(map[string]Tier, len(sorted))
	ranks := make(map[int]string, len(sorted))
	offTiers := 0

	for idx, t := range sorted {
		if t.Name == "" {
			return nil, fmt.Errorf("tier with rank %d has no name", t.Rank)
		}
		if _, ok := byName[t.Name]; ok {
			return nil, fmt.Errorf("duplicate tier name %q", t.Name)
		}
		if other, ok := ranks[t.Rank]; ok {
			return nil, fmt.Errorf("tiers %q and %q share rank %d", other, t.Name, t.Rank)
		}
		if t.HourlyCost < 0 {
			return nil, fmt.Errorf("tier %q has a negative hourly cost", t.Name)
		}

		if t.PowerOff {
			offTiers++
			if idx != 0 {
				return nil, fmt.Errorf("power-off tier %q must have the lowest rank", t.Name)
			}
		} else if t.Slug == "" {
			return nil, fmt.Errorf("%w: tier %q has no size slug", ErrInvalidTarget, t.Name)
		}

		byName[t.Name] = t
		ranks[t.Rank] = t.Name
	}

	if offTiers > 1 {
		return nil, fmt.Errorf("at most one power-off tier can be configured, got %d", offTiers)
	}

	return &TierTable{
		tiers:  sorted,
		byName: byName,
	}, nil
}

func (tt *TierTable) Lookup(name string) (Tier, error) {
	t, ok := tt.byName[name]
	if !ok {
		return Tier{}, fmt.Errorf("%w: %q", ErrInvalidTarget, name)
	}

	return t, nil
}

// Idle returns the lowest ranked tier.
func (tt *TierTable) Idle() Tier {
	return tt.tiers[0]
}

func (tt *TierTable) Off() (Tier, bool) {
	if tt.tiers[0].PowerOff {
		return tt.tiers[0], true
	}

	return Tier{}, false
}

// All returns the tiers ordered by rank.
func (tt *TierTable) All() []Tier {
	res := make([]Tier, len(tt.tiers))
	copy(res, tt.tiers)

	return res
}

// Running returns the tiers a powered-on droplet can be resized to.
func (tt *TierTable) Running() []Tier {
	var res []Tier
	for _, t := range tt.tiers {
		if !t.PowerOff {
			res = append(res, t)
		}
	}

	return res
}

// FromMachine maps provider ground truth onto a configured tier. A powered
// off droplet maps onto the power-off tier when there is one. Slugs that do
// not belong to any tier yield the unknown tier.
func (tt *TierTable) FromMachine(info MachineInfo) Tier {
	if info.Status == MachineStatusOff {
		if off, ok := tt.Off(); ok {
			return off
		}
	}

	for _, t := range tt.tiers {
		if !t.PowerOff && t.Slug == info.Slug {
			return t
		}
	}

	return Tier{}
}
