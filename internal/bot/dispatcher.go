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

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"droplet_manager/internal/core"

	"github.com/cznic/mathutil"
	"github.com/sirupsen/logrus"
)

const (
	permissionDenied = "You do not have permission to use this."

	panelPrefix   = "panel:"
	confirmPrefix = "confirm:"
	cancelID      = "cancel"
	resizeAction  = "resize:"
)

type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota
	StyleSecondary
	StyleSuccess
	StyleDanger
)

type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
}

// Reply is a chat-platform independent response to a command or button.
type Reply struct {
	Content   string
	Ephemeral bool
	Buttons   []Button
}

// Actor identifies who issued a command.
type Actor struct {
	UserID  string
	RoleIDs []string
}

type Autoscaler interface {
	Suspend(d time.Duration) (time.Time, error)
	Resume() bool
	Invalidate()
	State() core.ControllerState
	LastSample() core.ActivitySample
}

type PermissionChecker interface {
	Allowed(userID string, roleIDs []string) bool
	Authorized(userID string, roleIDs []string) bool
	AddRoles(ctx context.Context, ids ...int64) error
	AddUsers(ctx context.Context, ids ...int64) error
	Reload(ctx context.Context) error
}

type Dispatcher struct {
	autoscaler  Autoscaler
	permissions PermissionChecker
	compute     core.ComputeClient
	telemetry   core.TelemetryClient
	probe       core.ReachabilityProbe
	tiers       *core.TierTable
	notifier    core.Notifier

	maxSuspendHours int
}

func NewDispatcher(autoscaler Autoscaler, permissions PermissionChecker, compute core.ComputeClient, telemetry core.TelemetryClient,
	probe core.ReachabilityProbe, tiers *core.TierTable, notifier core.Notifier, maxSuspendHours int) *Dispatcher {
	if maxSuspendHours < 1 {
		maxSuspendHours = 1
	}

	return &Dispatcher{
		autoscaler:      autoscaler,
		permissions:     permissions,
		compute:         compute,
		telemetry:       telemetry,
		probe:           probe,
		tiers:           tiers,
		notifier:        notifier,
		maxSuspendHours: maxSuspendHours,
	}
}

func (d *Dispatcher) allowed(actor Actor) bool {
	return d.permissions.Allowed(actor.UserID, actor.RoleIDs)
}

func denied() Reply {
	return Reply{Content: permissionDenied, Ephemeral: true}
}

func (d *Dispatcher) DisableAuto(actor Actor, hours int) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	hours = mathutil.Clamp(hours, 1, d.maxSuspendHours)

	until, err := d.autoscaler.Suspend(time.Duration(hours) * time.Hour)
	if err != nil {
		return Reply{Content: fmt.Sprintf("Failed to disable automatic resizing: %v", err), Ephemeral: true}
	}

	d.notifier.Notify("Automatic resizing disabled",
		fmt.Sprintf("<@%s> disabled automatic resizing for %d hours.", actor.UserID, hours), core.SeverityInfo)

	return Reply{Content: fmt.Sprintf("Automatic resizing disabled for %d hours (until %s).", hours, until.Format(time.RFC1123))}
}

func (d *Dispatcher) EnableAuto(actor Actor) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	if !d.autoscaler.Resume() {
		return Reply{Content: "Automatic resizing is already enabled."}
	}

	d.notifier.Notify("Automatic resizing enabled", fmt.Sprintf("<@%s> re-enabled automatic resizing.", actor.UserID), core.SeverityInfo)

	return Reply{Content: "Automatic resizing enabled."}
}

func (d *Dispatcher) Players(ctx context.Context, actor Actor) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	count, err := d.telemetry.ActiveEntities(ctx)
	if err != nil {
		logrus.Warnf("Failed to fetch player count (error : %v)", err)
		return Reply{Content: "Could not fetch the player count right now.", Ephemeral: true}
	}

	return Reply{Content: fmt.Sprintf("There are currently %d active players.", count)}
}

func (d *Dispatcher) ForceRestart(ctx context.Context, actor Actor) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	return d.powerAction(ctx, actor, core.Reboot)
}

func (d *Dispatcher) Ping(ctx context.Context) Reply {
	result := d.probe.Probe(ctx)
	if !result.Reachable {
		return Reply{Content: "Ping failed: request timed out. Please check the server status."}
	}

	return Reply{Content: fmt.Sprintf("Ping successful! Time: %.2f ms", float64(result.RTT.Microseconds())/1000)}
}

func (d *Dispatcher) Status() Reply {
	state := d.autoscaler.State()
	sample := d.autoscaler.LastSample()

	var sb strings.Builder

	tier := state.CurrentTier
	if tier.IsUnknown() {
		sb.WriteString("Tier: unknown\n")
	} else {
		fmt.Fprintf(&sb, "Tier: %s (%s, $%.4f/h)\n", tier.Name, tier.Slug, tier.HourlyCost)
	}

	if state.Suspended(time.Now()) {
		fmt.Fprintf(&sb, "Automatic resizing: suspended until %s\n", state.SuspendedUntil.Format(time.RFC1123))
	} else {
		sb.WriteString("Automatic resizing: enabled\n")
	}

	if !state.LastTransitionAt.IsZero() {
		fmt.Fprintf(&sb, "Last transition: %s\n", state.LastTransitionAt.Format(time.RFC1123))
	}

	if !sample.SampledAt.IsZero() {
		fmt.Fprintf(&sb, "Last sample: %d players, reachable=%t at %s\n", sample.ActiveEntities, sample.Reachable, sample.SampledAt.Format(time.RFC1123))
	}

	return Reply{Content: strings.TrimSuffix(sb.String(), "\n")}
}

func (d *Dispatcher) AddRoles(ctx context.Context, actor Actor, raw []string) Reply {
	return d.addIDs(ctx, actor, raw, "roles", d.permissions.AddRoles)
}

func (d *Dispatcher) AddUsers(ctx context.Context, actor Actor, raw []string) Reply {
	return d.addIDs(ctx, actor, raw, "users", d.permissions.AddUsers)
}

// addIDs requires listed membership even while the list is empty, so the
// first entries have to be written to the store directly.
func (d *Dispatcher) addIDs(ctx context.Context, actor Actor, raw []string, kind string, add func(context.Context, ...int64) error) Reply {
	if !d.permissions.Authorized(actor.UserID, actor.RoleIDs) {
		return denied()
	}

	ids, err := parseIDs(raw)
	if err != nil {
		return Reply{Content: err.Error(), Ephemeral: true}
	}

	if err := add(ctx, ids...); err != nil {
		logrus.Errorf("Failed to update authorized %s (error : %v)", kind, err)
		return Reply{Content: fmt.Sprintf("Failed to update authorized %s.", kind), Ephemeral: true}
	}

	return Reply{Content: fmt.Sprintf("Authorized %s updated successfully.", kind)}
}

func (d *Dispatcher) Reload(ctx context.Context, actor Actor) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	if err := d.permissions.Reload(ctx); err != nil {
		logrus.Errorf("Failed to reload permissions (error : %v)", err)
		return Reply{Content: "Failed to reload settings.", Ephemeral: true}
	}

	return Reply{Content: "Reloaded settings successfully!"}
}

func parseIDs(raw []string) ([]int64, error) {
	var fields []string
	for _, r := range raw {
		fields = append(fields, strings.FieldsFunc(r, func(c rune) bool {
			return c == ',' || c == ' '
		})...)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no ids given")
	}

	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(strings.Trim(f, "<@&!>"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id", f)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// Panel returns the droplet management panel: one resize button per running
// tier followed by the power buttons.
func (d *Dispatcher) Panel(actor Actor) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	var buttons []Button
	for _, t := range d.tiers.Running() {
		buttons = append(buttons, Button{
			Label:    fmt.Sprintf("Resize to %s", t.Name),
			CustomID: panelPrefix + resizeAction + t.Name,
			Style:    StylePrimary,
		})
	}

	buttons = append(buttons,
		Button{Label: "Power On", CustomID: panelPrefix + string(core.PowerOn), Style: StyleSuccess},
		Button{Label: "Power Off", CustomID: panelPrefix + string(core.PowerOff), Style: StyleDanger},
		Button{Label: "Reboot", CustomID: panelPrefix + string(core.Reboot), Style: StyleSecondary},
	)

	return Reply{
		Content: "Droplet management: resize the droplet for low and high usage, or power it on, off or reboot it.",
		Buttons: buttons,
	}
}

// Button handles a pressed panel or confirmation button.
func (d *Dispatcher) Button(ctx context.Context, actor Actor, customID string) Reply {
	if !d.allowed(actor) {
		return denied()
	}

	switch {
	case customID == cancelID:
		return Reply{Content: "Action cancelled.", Ephemeral: true}
	case strings.HasPrefix(customID, panelPrefix):
		action := strings.TrimPrefix(customID, panelPrefix)
		return Reply{
			Content:   fmt.Sprintf("Are you sure you want to %s the droplet?", describe(action)),
			Ephemeral: true,
			Buttons: []Button{
				{Label: "Confirm", CustomID: confirmPrefix + action, Style: StyleDanger},
				{Label: "Cancel", CustomID: cancelID, Style: StyleSecondary},
			},
		}
	case strings.HasPrefix(customID, confirmPrefix):
		return d.confirm(ctx, actor, strings.TrimPrefix(customID, confirmPrefix))
	default:
		return Reply{Content: "Unknown action.", Ephemeral: true}
	}
}

func describe(action string) string {
	if strings.HasPrefix(action, resizeAction) {
		return "resize to " + strings.TrimPrefix(action, resizeAction)
	}

	return strings.ReplaceAll(action, "_", " ")
}

func (d *Dispatcher) confirm(ctx context.Context, actor Actor, action string) Reply {
	if strings.HasPrefix(action, resizeAction) {
		return d.resize(ctx, actor, strings.TrimPrefix(action, resizeAction))
	}

	switch core.PowerAction(action) {
	case core.PowerOn, core.PowerOff, core.Reboot:
		return d.powerAction(ctx, actor, core.PowerAction(action))
	default:
		return Reply{Content: "Unknown action.", Ephemeral: true}
	}
}

func (d *Dispatcher) resize(ctx context.Context, actor Actor, tierName string) Reply {
	tier, err := d.tiers.Lookup(tierName)
	if err != nil || tier.PowerOff {
		return Reply{Content: fmt.Sprintf("Unknown size %q.", tierName), Ephemeral: true}
	}

	err = d.compute.Resize(ctx, tier.Slug)
	d.autoscaler.Invalidate()

	if err != nil {
		logrus.Errorf("Manual resize to %s failed (error : %v)", tier.Name, err)
		return Reply{Content: fmt.Sprintf("Failed to resize droplet: %v", err), Ephemeral: true}
	}

	d.notifier.Notify("Manual resize",
		fmt.Sprintf("<@%s> resized the droplet to %s (%s).", actor.UserID, tier.Name, tier.Slug), core.SeverityInfo)

	return Reply{Content: "Droplet resizing initiated successfully.", Ephemeral: true}
}

func (d *Dispatcher) powerAction(ctx context.Context, actor Actor, action core.PowerAction) Reply {
	err := d.compute.PowerAction(ctx, action)
	d.autoscaler.Invalidate()

	if err != nil {
		logrus.Errorf("Manual %s failed (error : %v)", action, err)
		return Reply{Content: fmt.Sprintf("Failed to %s droplet: %v", describe(string(action)), err), Ephemeral: true}
	}

	d.notifier.Notify("Manual power action",
		fmt.Sprintf("<@%s> issued %s.", actor.UserID, describe(string(action))), core.SeverityInfo)

	return Reply{Content: fmt.Sprintf("Droplet %s initiated successfully.", describe(string(action))), Ephemeral: true}
}
