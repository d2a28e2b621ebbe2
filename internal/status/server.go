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

package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"droplet_manager/internal/core"
	"droplet_manager/pkg/config"
	"droplet_manager/pkg/profiler"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type StateSource interface {
	State() core.ControllerState
	LastSample() core.ActivitySample
}

type TierView struct {
	Name       string  `json:"name"`
	Slug       string  `json:"slug,omitempty"`
	HourlyCost float64 `json:"hourlyCost"`
	PowerOff   bool    `json:"powerOff,omitempty"`
}

type SampleView struct {
	ActiveEntities int       `json:"activeEntities"`
	Reachable      bool      `json:"reachable"`
	RTTMillis      float64   `json:"rttMs"`
	SampledAt      time.Time `json:"sampledAt"`
}

type Response struct {
	Tier             TierView    `json:"tier"`
	AutoEnabled      bool        `json:"autoEnabled"`
	SuspendedUntil   *time.Time  `json:"suspendedUntil,omitempty"`
	LastTransitionAt *time.Time  `json:"lastTransitionAt,omitempty"`
	LastSample       *SampleView `json:"lastSample,omitempty"`
}

type httpServer struct {
	source StateSource
}

func NewHTTPServer(addr string, source StateSource, gatherer prometheus.Gatherer, profilerConfig config.ProfilerConfig) *http.Server {
	server := &httpServer{
		source: source,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", server.healthz).Methods("GET")
	r.HandleFunc("/status", server.status).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	profiler.Register(r, profilerConfig)

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve runs the server until the context is cancelled.
func Serve(ctx context.Context, server *http.Server) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("Failed to shut down status server (error : %v)", err)
		}
	}()

	logrus.Infof("Status server listening on %s", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *httpServer) status(w http.ResponseWriter, _ *http.Request) {
	response := BuildResponse(s.source.State(), s.source.LastSample())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logrus.Errorf("Failed to encode status (error : %v)", err)
	}
}

func BuildResponse(state core.ControllerState, sample core.ActivitySample) Response {
	res := Response{
		Tier: TierView{
			Name:       state.CurrentTier.String(),
			Slug:       state.CurrentTier.Slug,
			HourlyCost: state.CurrentTier.HourlyCost,
			PowerOff:   state.CurrentTier.PowerOff,
		},
		AutoEnabled:    state.AutoEnabled,
		SuspendedUntil: state.SuspendedUntil,
	}

	if !state.LastTransitionAt.IsZero() {
		at := state.LastTransitionAt
		res.LastTransitionAt = &at
	}

	if !sample.SampledAt.IsZero() {
		res.LastSample = &SampleView{
			ActiveEntities: sample.ActiveEntities,
			Reachable:      sample.Reachable,
			RTTMillis:      float64(sample.RTT.Microseconds()) / 1000,
			SampledAt:      sample.SampledAt,
		}
	}

	return res
}
