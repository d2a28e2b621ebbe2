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
	"context"
	"time"
)

type PowerAction string

const (
	PowerOn  PowerAction = "power_on"
	PowerOff PowerAction = "power_off"
	Reboot   PowerAction = "reboot"
	Shutdown PowerAction = "shutdown"
)

const (
	MachineStatusActive = "active"
	MachineStatusOff    = "off"
)

// MachineInfo is the provider's view of the droplet.
type MachineInfo struct {
	Slug   string
	Status string
}

type ComputeClient interface {
	PowerAction(ctx context.Context, action PowerAction) error
	Resize(ctx context.Context, sizeSlug string) error
	GetMachine(ctx context.Context) (MachineInfo, error)
}

type TelemetryClient interface {
	ActiveEntities(ctx context.Context) (int, error)
}

type ProbeResult struct {
	Reachable bool
	RTT       time.Duration
}

// ReachabilityProbe never fails; an inconclusive probe is reported as unreachable.
type ReachabilityProbe interface {
	Probe(ctx context.Context) ProbeResult
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notifier interface {
	Notify(title, body string, severity Severity)
}
