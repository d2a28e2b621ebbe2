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

package compute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"droplet_manager/internal/core"
	"droplet_manager/pkg/utils"

	"github.com/digitalocean/godo"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const maxDetailLength = 512

// DigitalOceanClient issues droplet actions. Every call is fire-and-forget:
// a 201 only means the provider accepted the action.
type DigitalOceanClient struct {
	client    *godo.Client
	dropletID int
}

func NewDigitalOceanClient(token string, dropletID int, baseURL string) (*DigitalOceanClient, error) {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	httpClient.Timeout = utils.ComputeAPITimeout

	opts := []godo.ClientOpt{godo.SetUserAgent("droplet_manager")}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, godo.SetBaseURL(baseURL))
	}

	client, err := godo.New(httpClient, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute API client: %w", err)
	}

	return &DigitalOceanClient{
		client:    client,
		dropletID: dropletID,
	}, nil
}

func (c *DigitalOceanClient) PowerAction(ctx context.Context, action core.PowerAction) error {
	var accepted *godo.Action
	var resp *godo.Response
	var err error

	switch action {
	case core.PowerOn:
		accepted, resp, err = c.client.DropletActions.PowerOn(ctx, c.dropletID)
	case core.PowerOff:
		accepted, resp, err = c.client.DropletActions.PowerOff(ctx, c.dropletID)
	case core.Reboot:
		accepted, resp, err = c.client.DropletActions.Reboot(ctx, c.dropletID)
	case core.Shutdown:
		accepted, resp, err = c.client.DropletActions.Shutdown(ctx, c.dropletID)
	default:
		return &core.RemoteCallFailedError{Op: string(action), Reason: "unsupported power action"}
	}

	logrus.Debugf("Droplet %d %s requested", c.dropletID, action)

	return checkAccepted(string(action), accepted, resp, err)
}

func (c *DigitalOceanClient) Resize(ctx context.Context, sizeSlug string) error {
	if sizeSlug == "" {
		return fmt.Errorf("%w: empty size slug", core.ErrInvalidTarget)
	}

	accepted, resp, err := c.client.DropletActions.Resize(ctx, c.dropletID, sizeSlug, false)
	logrus.Debugf("Droplet %d resize to %s requested", c.dropletID, sizeSlug)

	return checkAccepted("resize", accepted, resp, err)
}

func (c *DigitalOceanClient) GetMachine(ctx context.Context) (core.MachineInfo, error) {
	droplet, _, err := c.client.Droplets.Get(ctx, c.dropletID)
	if err != nil {
		return core.MachineInfo{}, toRemoteError("get droplet", err)
	}

	slug := droplet.SizeSlug
	if slug == "" && droplet.Size != nil {
		slug = droplet.Size.Slug
	}

	return core.MachineInfo{
		Slug:   slug,
		Status: droplet.Status,
	}, nil
}

func checkAccepted(op string, action *godo.Action, resp *godo.Response, err error) error {
	if err != nil {
		return toRemoteError(op, err)
	}

	if resp == nil || resp.Response == nil {
		return &core.RemoteCallFailedError{Op: op, Reason: "no response"}
	}
	if resp.StatusCode != http.StatusCreated {
		return &core.RemoteCallFailedError{Op: op, StatusCode: resp.StatusCode, Reason: responseDetail(action)}
	}

	return nil
}

// responseDetail renders the action body godo already decoded, since the
// client drains and closes the raw body before returning.
func responseDetail(action *godo.Action) string {
	if action == nil {
		return "empty response body"
	}

	body, err := json.Marshal(map[string]*godo.Action{"action": action})
	if err != nil {
		return fmt.Sprintf("undecodable response body (error : %v)", err)
	}

	if len(body) > maxDetailLength {
		return string(body[:maxDetailLength]) + "..."
	}

	return string(body)
}

func toRemoteError(op string, err error) error {
	var errResp *godo.ErrorResponse
	if errors.As(err, &errResp) {
		remote := &core.RemoteCallFailedError{Op: op, Reason: errResp.Message}
		if errResp.Response != nil {
			remote.StatusCode = errResp.Response.StatusCode
		}

		return remote
	}

	return &core.RemoteCallFailedError{Op: op, Reason: err.Error()}
}
