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

package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err     error
	stats   *probing.Statistics
	block   chan struct{}
	stopped bool
}

func (f *fakePinger) Run() error {
	if f.block != nil {
		<-f.block
	}

	return f.err
}

func (f *fakePinger) Stop() {
	f.stopped = true
	if f.block != nil {
		close(f.block)
	}
}

func (f *fakePinger) Statistics() *probing.Statistics {
	return f.stats
}

func probeWith(p pinger, err error) *ICMPProbe {
	icmp := NewICMPProbe("203.0.113.10", time.Second, false)
	icmp.newPinger = func(string, time.Duration, bool) (pinger, error) {
		return p, err
	}

	return icmp
}

func TestProbeReachable(t *testing.T) {
	p := &fakePinger{stats: &probing.Statistics{PacketsSent: 1, PacketsRecv: 1, AvgRtt: 12 * time.Millisecond}}

	result := probeWith(p, nil).Probe(context.Background())

	assert.True(t, result.Reachable)
	assert.Equal(t, 12*time.Millisecond, result.RTT)
}

func TestProbeTimeoutIsUnreachable(t *testing.T) {
	p := &fakePinger{stats: &probing.Statistics{PacketsSent: 1, PacketsRecv: 0}}

	assert.False(t, probeWith(p, nil).Probe(context.Background()).Reachable)
}

func TestProbeErrorsAreUnreachable(t *testing.T) {
	assert.False(t, probeWith(&fakePinger{err: errors.New("socket: permission denied")}, nil).Probe(context.Background()).Reachable)
	assert.False(t, probeWith(nil, errors.New("no such host")).Probe(context.Background()).Reachable)
}

func TestProbeCancelled(t *testing.T) {
	p := &fakePinger{block: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := probeWith(p, nil).Probe(ctx)

	assert.False(t, result.Reachable)
	assert.True(t, p.stopped)
}

func TestAlwaysReachable(t *testing.T) {
	assert.True(t, AlwaysReachable{}.Probe(context.Background()).Reachable)
}
