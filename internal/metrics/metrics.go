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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Ticks          *prometheus.CounterVec
	Transitions    *prometheus.CounterVec
	ActiveEntities prometheus.Gauge
	Reachable      prometheus.Gauge
	TierRank       prometheus.Gauge
	HourlyCost     prometheus.Gauge
	Suspended      prometheus.Gauge
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "droplet_autoscaler_ticks_total",
				Help: "Autoscaler ticks by outcome",
			},
			[]string{"outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "droplet_autoscaler_transition_steps_total",
				Help: "Convergence steps issued against the compute API",
			},
			[]string{"step", "to", "result"},
		),
		ActiveEntities: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "droplet_active_players",
			Help: "Active players reported by the last sample",
		}),
		Reachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "droplet_reachable",
			Help: "1 if the last reachability probe succeeded",
		}),
		TierRank: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "droplet_tier_rank",
			Help: "Rank of the tier the autoscaler believes is current, -1 when unknown",
		}),
		HourlyCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "droplet_hourly_cost",
			Help: "Hourly cost of the current tier",
		}),
		Suspended: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "droplet_autoscaler_suspended",
			Help: "1 while automatic resizing is suspended",
		}),
	}

	registerer.MustRegister(m.Ticks, m.Transitions, m.ActiveEntities, m.Reachable, m.TierRank, m.HourlyCost, m.Suspended)

	return m
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}

	return 0
}

func (m *Metrics) ObserveSample(activeEntities int, reachable bool) {
	m.ActiveEntities.Set(float64(activeEntities))
	m.Reachable.Set(boolToFloat(reachable))
}

func (m *Metrics) ObserveTier(rank int, known bool, hourlyCost float64) {
	if !known {
		m.TierRank.Set(-1)
		m.HourlyCost.Set(0)
		return
	}

	m.TierRank.Set(float64(rank))
	m.HourlyCost.Set(hourlyCost)
}

func (m *Metrics) ObserveSuspended(suspended bool) {
	m.Suspended.Set(boolToFloat(suspended))
}
