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
	"time"

	"droplet_manager/internal/core"

	probing "github.com/prometheus-community/pro-bing"
	"github.com/sirupsen/logrus"
)

type pinger interface {
	Run() error
	Stop()
	Statistics() *probing.Statistics
}

type pingerFactory func(address string, timeout time.Duration, privileged bool) (pinger, error)

func newProBingPinger(address string, timeout time.Duration, privileged bool) (pinger, error) {
	p, err := probing.NewPinger(address)
	if err != nil {
		return nil, err
	}

	p.Count = 1
	p.Timeout = timeout
	p.SetPrivileged(privileged)

	return p, nil
}

// ICMPProbe pings the droplet's public address once per call.
type ICMPProbe struct {
	address    string
	timeout    time.Duration
	privileged bool

	newPinger pingerFactory
}

func NewICMPProbe(address string, timeout time.Duration, privileged bool) *ICMPProbe {
	return &ICMPProbe{
		address:    address,
		timeout:    timeout,
		privileged: privileged,
		newPinger:  newProBingPinger,
	}
}

func (p *ICMPProbe) Probe(ctx context.Context) core.ProbeResult {
	pinger, err := p.newPinger(p.address, p.timeout, p.privileged)
	if err != nil {
		logrus.Warnf("Failed to create pinger for %s (error : %v)", p.address, err)
		return core.ProbeResult{}
	}

	done := make(chan error, 1)
	go func() {
		done <- pinger.Run()
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		pinger.Stop()
		<-done
		return core.ProbeResult{}
	}

	if err != nil {
		logrus.Debugf("Ping to %s failed (error : %v)", p.address, err)
		return core.ProbeResult{}
	}

	stats := pinger.Statistics()
	if stats == nil || stats.PacketsRecv == 0 {
		logrus.Debugf("Ping to %s timed out after %s", p.address, p.timeout)
		return core.ProbeResult{}
	}

	return core.ProbeResult{
		Reachable: true,
		RTT:       stats.AvgRtt,
	}
}

// AlwaysReachable is used when no probe address is configured.
type AlwaysReachable struct{}

func (AlwaysReachable) Probe(_ context.Context) core.ProbeResult {
	return core.ProbeResult{Reachable: true}
}
