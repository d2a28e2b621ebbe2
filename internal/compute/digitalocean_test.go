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
	"net/http"
	"net/http/httptest"
	"testing"

	"droplet_manager/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAction struct {
	Type string `json:"type"`
	Size string `json:"size"`
}

func newTestServer(t *testing.T, status int, body string, actions *[]recordedAction) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/droplets/42/actions":
			var action recordedAction
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&action))
			*actions = append(*actions, action)
		case r.Method == http.MethodGet && r.URL.Path == "/v2/droplets/42":
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestResizeAccepted(t *testing.T) {
	var actions []recordedAction
	server := newTestServer(t, http.StatusCreated, `{"action":{"id":1,"status":"in-progress","type":"resize"}}`, &actions)

	client, err := NewDigitalOceanClient("secret-token", 42, server.URL)
	require.NoError(t, err)

	err = client.Resize(context.Background(), "s-4vcpu-16gb-amd")
	assert.NoError(t, err, "201 must be treated as accepted")

	require.Len(t, actions, 1)
	assert.Equal(t, "resize", actions[0].Type)
	assert.Equal(t, "s-4vcpu-16gb-amd", actions[0].Size)
}

func TestPowerActions(t *testing.T) {
	tests := []struct {
		action   core.PowerAction
		expected string
	}{
		{action: core.PowerOn, expected: "power_on"},
		{action: core.PowerOff, expected: "power_off"},
		{action: core.Reboot, expected: "reboot"},
		{action: core.Shutdown, expected: "shutdown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var actions []recordedAction
			server := newTestServer(t, http.StatusCreated, `{"action":{"id":1,"status":"in-progress"}}`, &actions)

			client, err := NewDigitalOceanClient("secret-token", 42, server.URL)
			require.NoError(t, err)

			assert.NoError(t, client.PowerAction(context.Background(), tt.action))
			require.Len(t, actions, 1)
			assert.Equal(t, tt.expected, actions[0].Type)
		})
	}
}

func TestResizeRejected(t *testing.T) {
	var actions []recordedAction
	server := newTestServer(t, http.StatusUnprocessableEntity, `{"id":"unprocessable_entity","message":"Droplet is currently on. Please power it off to run this event."}`, &actions)

	client, err := NewDigitalOceanClient("secret-token", 42, server.URL)
	require.NoError(t, err)

	err = client.Resize(context.Background(), "s-8vcpu-16gb-amd")
	require.Error(t, err)

	var remote *core.RemoteCallFailedError
	require.True(t, errors.As(err, &remote), "expected a remote call failure, got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.StatusCode)
	assert.Contains(t, remote.Reason, "power it off")
}

func TestNonCreatedStatusIsFailure(t *testing.T) {
	var actions []recordedAction
	server := newTestServer(t, http.StatusOK, `{"action":{"id":7,"status":"errored","type":"reboot"}}`, &actions)

	client, err := NewDigitalOceanClient("secret-token", 42, server.URL)
	require.NoError(t, err)

	err = client.PowerAction(context.Background(), core.Reboot)

	var remote *core.RemoteCallFailedError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusOK, remote.StatusCode)
	assert.Contains(t, remote.Reason, `"status":"errored"`, "the response body is the failure detail")
	assert.Contains(t, remote.Reason, `"id":7`)
}

func TestNonCreatedStatusWithoutBody(t *testing.T) {
	var actions []recordedAction
	server := newTestServer(t, http.StatusAccepted, `{}`, &actions)

	client, err := NewDigitalOceanClient("secret-token", 42, server.URL)
	require.NoError(t, err)

	err = client.Resize(context.Background(), "s-4vcpu-16gb-amd")

	var remote *core.RemoteCallFailedError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusAccepted, remote.StatusCode)
	assert.Equal(t, "empty response body", remote.Reason)
}

func TestResizeEmptySlug(t *testing.T) {
	client, err := NewDigitalOceanClient("secret-token", 42, "http://127.0.0.1:1")
	require.NoError(t, err)

	err = client.Resize(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrInvalidTarget)
}

func TestGetMachine(t *testing.T) {
	var actions []recordedAction
	server := newTestServer(t, http.StatusOK, `{"droplet":{"id":42,"name":"fx","size_slug":"s-2vcpu-8gb-amd","status":"off"}}`, &actions)

	client, err := NewDigitalOceanClient("secret-token", 42, server.URL)
	require.NoError(t, err)

	info, err := client.GetMachine(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.MachineInfo{Slug: "s-2vcpu-8gb-amd", Status: core.MachineStatusOff}, info)
	assert.Empty(t, actions)
}
