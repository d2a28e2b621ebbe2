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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTiers() []Tier {
	return []Tier{
		{Name: "high", Slug: "s-8vcpu-16gb-amd", HourlyCost: 0.25, Rank: 3},
		{Name: "off", Slug: "s-2vcpu-8gb-amd", Rank: 0, PowerOff: true},
		{Name: "low", Slug: "s-2vcpu-8gb-amd", HourlyCost: 0.0625, Rank: 1},
		{Name: "medium", Slug: "s-4vcpu-16gb-amd", HourlyCost: 0.125, Rank: 2},
	}
}

func TestNewTierTableOrdersByRank(t *testing.T) {
	table, err := NewTierTable(testTiers())
	require.NoError(t, err, "valid tiers rejected")

	var names []string
	for _, tier := range table.All() {
		names = append(names, tier.Name)
	}

	assert.Equal(t, []string{"off", "low", "medium", "high"}, names)
	assert.Equal(t, "off", table.Idle().Name)
	assert.Len(t, table.Running(), 3)

	off, ok := table.Off()
	assert.True(t, ok)
	assert.True(t, off.PowerOff)
}

func TestNewTierTableRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
	}{
		{name: "empty", tiers: nil},
		{name: "duplicate_name", tiers: []Tier{{Name: "a", Slug: "x", Rank: 0}, {Name: "a", Slug: "y", Rank: 1}}},
		{name: "duplicate_rank", tiers: []Tier{{Name: "a", Slug: "x", Rank: 0}, {Name: "b", Slug: "y", Rank: 0}}},
		{name: "missing_slug", tiers: []Tier{{Name: "a", Rank: 0}}},
		{name: "off_not_lowest", tiers: []Tier{{Name: "a", Slug: "x", Rank: 0}, {Name: "off", Rank: 1, PowerOff: true}}},
		{name: "negative_cost", tiers: []Tier{{Name: "a", Slug: "x", Rank: 0, HourlyCost: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTierTable(tt.tiers)
			assert.Error(t, err)
		})
	}
}

func TestTierTableLookup(t *testing.T) {
	table, err := NewTierTable(testTiers())
	require.NoError(t, err)

	tier, err := table.Lookup("medium")
	assert.NoError(t, err)
	assert.Equal(t, "s-4vcpu-16gb-amd", tier.Slug)

	_, err = table.Lookup("ultra")
	assert.True(t, errors.Is(err, ErrInvalidTarget), "unknown tier should be an invalid target")
}

func TestTierTableFromMachine(t *testing.T) {
	table, err := NewTierTable(testTiers())
	require.NoError(t, err)

	assert.Equal(t, "off", table.FromMachine(MachineInfo{Slug: "s-2vcpu-8gb-amd", Status: MachineStatusOff}).Name)
	assert.Equal(t, "low", table.FromMachine(MachineInfo{Slug: "s-2vcpu-8gb-amd", Status: MachineStatusActive}).Name)
	assert.Equal(t, "high", table.FromMachine(MachineInfo{Slug: "s-8vcpu-16gb-amd", Status: MachineStatusActive}).Name)
	assert.True(t, table.FromMachine(MachineInfo{Slug: "s-1vcpu-1gb", Status: MachineStatusActive}).IsUnknown())
}
