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

package tracing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTraceAppends(t *testing.T) {
	output := filepath.Join(t.TempDir(), "traces", "transitions.csv")

	for run := 0; run < 2; run++ {
		service := NewTransitionTracingService(output)
		service.Offer(TransitionLogEntry{
			Timestamp:     time.Unix(0, 42),
			ConvergenceID: "abc",
			Step:          "resize",
			From:          "low",
			To:            "high",
			Slug:          "s-8vcpu-16gb-amd",
			Success:       true,
			Duration:      1500 * time.Millisecond,
			Detail:        "schedule, 5 players",
		})
		close(service.InputChannel)

		require.NoError(t, service.StartTracingService(context.Background()))
	}

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header is written once, entries are appended")
	assert.Equal(t, strings.TrimSpace(transitionLogHeader), lines[0])
	assert.Equal(t, `42,abc,resize,low,high,s-8vcpu-16gb-amd,true,1500,"schedule, 5 players"`, lines[1])
}

func TestOfferDropsWhenFull(t *testing.T) {
	service := &TracingService[int]{InputChannel: make(chan int, 1)}

	service.Offer(1)
	service.Offer(2)

	assert.Len(t, service.InputChannel, 1)
}

func TestStartTracingServiceStopsOnCancel(t *testing.T) {
	service := NewTransitionTracingService(filepath.Join(t.TempDir(), "transitions.csv"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, service.StartTracingService(ctx))
}
