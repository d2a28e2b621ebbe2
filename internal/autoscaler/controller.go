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

package autoscaler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"droplet_manager/internal/core"
	"droplet_manager/internal/metrics"
	"droplet_manager/internal/policy"
	"droplet_manager/pkg/tracing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/clock"
)

type Config struct {
	TickInterval   time.Duration
	DebounceWindow time.Duration
	SettleDelay    time.Duration

	SyncInterval time.Duration
	SyncTimeout  time.Duration
}

type Outcome string

const (
	OutcomeSuspended Outcome = "suspended"
	OutcomeNoOp      Outcome = "noop"
	OutcomeAborted   Outcome = "aborted"
	OutcomeConverged Outcome = "converged"
	OutcomeFailed    Outcome = "failed"
	OutcomeBusy      Outcome = "busy"
	OutcomeCancelled Outcome = "cancelled"
)

type Dependencies struct {
	Tiers     *core.TierTable
	Engine    *policy.Engine
	Compute   core.ComputeClient
	Telemetry core.TelemetryClient
	Probe     core.ReachabilityProbe
	Notifier  core.Notifier
	Metrics   *metrics.Metrics
	Trace     *tracing.TracingService[tracing.TransitionLogEntry]
	Clock     clock.WithTicker
}

// Controller drives the droplet toward the tier chosen by the policy engine.
// Ticks are serialized; Suspend, Resume, Invalidate and State may be called
// from any goroutine while a tick is waiting on a debounce or settle delay.
type Controller struct {
	cfg Config

	tiers     *core.TierTable
	engine    *policy.Engine
	compute   core.ComputeClient
	telemetry core.TelemetryClient
	probe     core.ReachabilityProbe
	notifier  core.Notifier
	metrics   *metrics.Metrics
	trace     *tracing.TracingService[tracing.TransitionLogEntry]
	clock     clock.WithTicker

	ticking int32

	stateLock     sync.Mutex
	state         core.ControllerState
	stale         bool
	lastSample    core.ActivitySample
	telemetryDown bool
}

func NewController(cfg Config, deps Dependencies) *Controller {
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}

	return &Controller{
		cfg:       cfg,
		tiers:     deps.Tiers,
		engine:    deps.Engine,
		compute:   deps.Compute,
		telemetry: deps.Telemetry,
		probe:     deps.Probe,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		trace:     deps.Trace,
		clock:     deps.Clock,
		state: core.ControllerState{
			AutoEnabled: true,
		},
		stale: true,
	}
}

// Sync initializes the remembered tier from provider ground truth, retrying
// until SyncTimeout. On failure the tier stays unknown and the next tick
// tries again.
func (c *Controller) Sync(ctx context.Context) {
	interval := c.cfg.SyncInterval
	if interval <= 0 {
		interval = time.Second
	}

	var lastErr error
	err := wait.PollUntilContextTimeout(ctx, interval, c.cfg.SyncTimeout, true, func(ctx context.Context) (bool, error) {
		if lastErr = c.resync(ctx); lastErr != nil {
			logrus.Warnf("Failed to read droplet state (error : %v)", lastErr)
			return false, nil
		}

		return true, nil
	})

	if err != nil {
		c.observeTier(core.Tier{})
		c.notify("Droplet state unknown", fmt.Sprintf("Could not read the droplet size at startup: %v", lastErr), core.SeverityWarning)
		return
	}

	logrus.Infof("Droplet is currently on tier %s", c.State().CurrentTier)
}

func (c *Controller) Run(ctx context.Context) {
	logrus.Infof("Starting autoscaling loop (tick every %s)", c.cfg.TickInterval)

	ticker := c.clock.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			c.Tick(ctx)
		case <-ctx.Done():
			logrus.Info("Autoscaling loop stopped")
			return
		}
	}
}

// Tick runs one evaluation. It never returns an error; every failure ends in
// a notification and the next tick retries naturally.
func (c *Controller) Tick(ctx context.Context) Outcome {
	if !atomic.CompareAndSwapInt32(&c.ticking, 0, 1) {
		logrus.Debug("Previous autoscaling tick still running, skipping")
		return OutcomeBusy
	}
	defer atomic.StoreInt32(&c.ticking, 0)

	outcome := c.tick(ctx)
	if c.metrics != nil {
		c.metrics.Ticks.WithLabelValues(string(outcome)).Inc()
	}

	return outcome
}

func (c *Controller) tick(ctx context.Context) Outcome {
	if c.suspended() {
		logrus.Trace("Autoscaling suspended, skipping tick")
		return OutcomeSuspended
	}

	if c.isStale() {
		if err := c.resync(ctx); err != nil {
			logrus.Warnf("Failed to refresh droplet state, using remembered tier (error : %v)", err)
		}
	}

	current := c.State().CurrentTier
	sample := c.sample(ctx)
	decision := c.engine.Decide(sample.SampledAt, sample.ActiveEntities, sample.Reachable, current)

	if decision.NoOp {
		logrus.Debugf("Droplet already on tier %s (%s)", current, decision.Reason)
		return OutcomeNoOp
	}

	if decision.IdleDemotion && policy.IsDowngrade(current, decision.Target) {
		confirmed, ok := c.debounce(ctx, current, decision)
		if !ok {
			return OutcomeCancelled
		}
		if !confirmed {
			c.notify("Downscale aborted",
				fmt.Sprintf("Activity resumed within %s, staying on tier %s.", c.cfg.DebounceWindow, current),
				core.SeverityInfo)
			return OutcomeAborted
		}
		if c.suspended() {
			return OutcomeSuspended
		}
	}

	if c.converge(ctx, current, decision) {
		return OutcomeConverged
	}

	return OutcomeFailed
}

// debounce waits for the debounce window and takes a second sample. The
// transition is confirmed only if the second decision is the same idle
// demotion.
func (c *Controller) debounce(ctx context.Context, current core.Tier, first policy.Decision) (confirmed bool, ok bool) {
	logrus.Debugf("Idle sample suggests %s -> %s, confirming in %s", current, first.Target.Name, c.cfg.DebounceWindow)

	if !c.sleep(ctx, c.cfg.DebounceWindow) {
		return false, false
	}

	sample := c.sample(ctx)
	second := c.engine.Decide(sample.SampledAt, sample.ActiveEntities, sample.Reachable, current)

	return second.IdleDemotion && second.Target.Name == first.Target.Name, true
}

func (c *Controller) converge(ctx context.Context, from core.Tier, decision policy.Decision) bool {
	target := decision.Target
	id := uuid.New().String()
	log := logrus.WithFields(logrus.Fields{
		"convergence": id,
		"from":        from.String(),
		"to":          target.Name,
	})

	if target.Slug == "" && !target.PowerOff {
		c.fail(id, "resize", from, target, fmt.Errorf("%w: tier %q has no size slug", core.ErrInvalidTarget, target.Name))
		return false
	}

	log.Infof("Converging (%s)", decision.Reason)

	resized := false
	if target.Slug != "" && target.Slug != from.Slug {
		if !c.step(ctx, id, "resize", from, target, func(ctx context.Context) error {
			return c.compute.Resize(ctx, target.Slug)
		}) {
			return false
		}

		resized = true
		c.commit(target)
		c.notify("Resize accepted",
			fmt.Sprintf("Resizing droplet from %s to %s (%s, $%.4f/h). Reason: %s.", from, target.Name, target.Slug, target.HourlyCost, decision.Reason),
			core.SeverityInfo)
	}

	if target.PowerOff {
		if !c.step(ctx, id, string(core.PowerOff), from, target, func(ctx context.Context) error {
			return c.compute.PowerAction(ctx, core.PowerOff)
		}) {
			return false
		}

		c.commit(target)
		c.notify("Droplet powered off", fmt.Sprintf("Droplet switched to %s without reboot. Reason: %s.", target.Name, decision.Reason), core.SeverityInfo)
		return true
	}

	followUp := core.Reboot
	if from.PowerOff {
		followUp = core.PowerOn
	} else if !resized {
		// same size, different tier name: nothing to apply on the machine
		c.commit(target)
		log.Info("Tier changed without a size change")
		return true
	}

	if resized {
		log.Debugf("Waiting %s before %s", c.cfg.SettleDelay, followUp)
		if !c.sleep(ctx, c.cfg.SettleDelay) {
			c.markStale()
			return false
		}
	}

	if !c.step(ctx, id, string(followUp), from, target, func(ctx context.Context) error {
		return c.compute.PowerAction(ctx, followUp)
	}) {
		return false
	}

	c.commit(target)
	if followUp == core.PowerOn {
		c.notify("Droplet powered on", fmt.Sprintf("Droplet started on tier %s.", target.Name), core.SeverityInfo)
	} else {
		c.notify("Reboot issued", fmt.Sprintf("Droplet rebooted to apply tier %s.", target.Name), core.SeverityInfo)
	}

	return true
}

// step runs one remote call and records it. On failure the remembered tier is
// left alone and the state is marked stale.
func (c *Controller) step(ctx context.Context, id, name string, from, target core.Tier, call func(context.Context) error) bool {
	started := c.clock.Now()
	err := call(ctx)
	c.record(id, name, from, target, started, err)

	if err != nil {
		c.fail(id, name, from, target, err)
		return false
	}

	return true
}

func (c *Controller) fail(id, step string, from, target core.Tier, err error) {
	logrus.WithField("convergence", id).Errorf("Step %s failed (error : %v)", step, err)

	c.markStale()

	title := "Autoscale step failed"
	if errors.Is(err, core.ErrInvalidTarget) {
		title = "Invalid autoscale target"
	}

	c.notify(title, fmt.Sprintf("%s from %s to %s failed: %v", step, from, target.Name, err), core.SeverityError)
}

func (c *Controller) record(id, step string, from, target core.Tier, started time.Time, err error) {
	result := "success"
	detail := ""
	if err != nil {
		result = "failure"
		detail = err.Error()
	}

	if c.metrics != nil {
		c.metrics.Transitions.WithLabelValues(step, target.Name, result).Inc()
	}

	if c.trace != nil {
		c.trace.Offer(tracing.TransitionLogEntry{
			Timestamp:     started,
			ConvergenceID: id,
			Step:          step,
			From:          from.String(),
			To:            target.Name,
			Slug:          target.Slug,
			Success:       err == nil,
			Duration:      c.clock.Since(started),
			Detail:        detail,
		})
	}
}

func (c *Controller) sample(ctx context.Context) core.ActivitySample {
	count, err := c.telemetry.ActiveEntities(ctx)
	if err != nil || count < 0 {
		logrus.Warnf("Telemetry unavailable, assuming no active players (error : %v)", err)
		count = 0
	}
	c.trackTelemetry(err)

	result := c.probe.Probe(ctx)

	s := core.ActivitySample{
		ActiveEntities: count,
		Reachable:      result.Reachable,
		RTT:            result.RTT,
		SampledAt:      c.clock.Now(),
	}

	c.stateLock.Lock()
	c.lastSample = s
	c.stateLock.Unlock()

	if c.metrics != nil {
		c.metrics.ObserveSample(s.ActiveEntities, s.Reachable)
	}

	logrus.Debugf("Sampled %d active players, reachable=%t (rtt %s)", s.ActiveEntities, s.Reachable, s.RTT)

	return s
}

// trackTelemetry notifies only when telemetry goes down or comes back, so a
// long outage does not flood the log channel.
func (c *Controller) trackTelemetry(err error) {
	c.stateLock.Lock()
	wasDown := c.telemetryDown
	c.telemetryDown = err != nil
	c.stateLock.Unlock()

	if err != nil && !wasDown {
		c.notify("Telemetry unavailable", fmt.Sprintf("Treating active players as 0: %v", err), core.SeverityWarning)
	} else if err == nil && wasDown {
		c.notify("Telemetry restored", "Active player counts are available again.", core.SeverityInfo)
	}
}

func (c *Controller) resync(ctx context.Context) error {
	info, err := c.compute.GetMachine(ctx)
	if err != nil {
		return err
	}

	tier := c.tiers.FromMachine(info)
	if tier.IsUnknown() {
		logrus.Warnf("Droplet size %s (status %s) does not match any tier", info.Slug, info.Status)
	}

	c.stateLock.Lock()
	c.state.CurrentTier = tier
	c.stale = false
	c.stateLock.Unlock()

	c.observeTier(tier)

	return nil
}

func (c *Controller) commit(tier core.Tier) {
	c.stateLock.Lock()
	c.state.CurrentTier = tier
	c.state.LastTransitionAt = c.clock.Now()
	c.stateLock.Unlock()

	c.observeTier(tier)
}

func (c *Controller) observeTier(tier core.Tier) {
	if c.metrics != nil {
		c.metrics.ObserveTier(tier.Rank, !tier.IsUnknown(), tier.HourlyCost)
	}
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-c.clock.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Controller) notify(title, body string, severity core.Severity) {
	if c.notifier != nil {
		c.notifier.Notify(title, body, severity)
	}
}

func (c *Controller) isStale() bool {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	return c.stale
}

func (c *Controller) markStale() {
	c.stateLock.Lock()
	c.stale = true
	c.stateLock.Unlock()
}

// Invalidate makes the next tick re-read provider ground truth. Manual panel
// actions call it since they change the droplet behind the controller.
func (c *Controller) Invalidate() {
	c.markStale()
}

func (c *Controller) State() core.ControllerState {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	return c.state.Copy()
}

func (c *Controller) LastSample() core.ActivitySample {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	return c.lastSample
}

// Suspend disables automatic resizing for d. A later call replaces the
// previous deadline.
func (c *Controller) Suspend(d time.Duration) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, fmt.Errorf("suspension must be positive, got %s", d)
	}

	until := c.clock.Now().Add(d)

	c.stateLock.Lock()
	c.state.AutoEnabled = false
	c.state.SuspendedUntil = &until
	c.stateLock.Unlock()

	if c.metrics != nil {
		c.metrics.ObserveSuspended(true)
	}

	logrus.Infof("Automatic resizing suspended until %s", until.Format(time.RFC3339))

	return until, nil
}

// Resume re-enables automatic resizing. It reports whether a suspension was
// actually active.
func (c *Controller) Resume() bool {
	c.stateLock.Lock()
	wasSuspended := c.state.Suspended(c.clock.Now())
	c.state.AutoEnabled = true
	c.state.SuspendedUntil = nil
	c.stateLock.Unlock()

	if c.metrics != nil {
		c.metrics.ObserveSuspended(false)
	}

	if wasSuspended {
		logrus.Info("Automatic resizing resumed")
	}

	return wasSuspended
}

// suspended also clears an expired suspension, so the first tick after the
// deadline resumes normal evaluation.
func (c *Controller) suspended() bool {
	now := c.clock.Now()

	c.stateLock.Lock()
	if c.state.SuspendedUntil == nil {
		c.stateLock.Unlock()
		return false
	}
	if c.state.Suspended(now) {
		c.stateLock.Unlock()
		return true
	}

	c.state.AutoEnabled = true
	c.state.SuspendedUntil = nil
	c.stateLock.Unlock()

	if c.metrics != nil {
		c.metrics.ObserveSuspended(false)
	}
	c.notify("Automatic resizing resumed", "The manual suspension has expired.", core.SeverityInfo)

	return false
}
