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

package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"droplet_manager/internal/autoscaler"
	"droplet_manager/internal/bot"
	"droplet_manager/internal/compute"
	"droplet_manager/internal/core"
	"droplet_manager/internal/metrics"
	"droplet_manager/internal/notify"
	"droplet_manager/internal/permissions"
	"droplet_manager/internal/policy"
	"droplet_manager/internal/probe"
	"droplet_manager/internal/status"
	"droplet_manager/internal/telemetry"
	"droplet_manager/pkg/config"
	"droplet_manager/pkg/logger"
	"droplet_manager/pkg/redis_client"
	"droplet_manager/pkg/tracing"
	"droplet_manager/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = pflag.String("config", utils.DefaultConfigPath, "Configuration file path")
)

func main() {
	pflag.Parse()

	cfg, err := config.ReadConfiguration(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to read configuration file (error : %v)", err)
	}

	logger.SetupLogger(cfg.Verbosity)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	computeToken, err := config.ReadSecret(cfg.Compute.TokenFile, config.EnvPrefix+"_COMPUTE_TOKEN")
	if err != nil {
		logrus.Fatalf("Failed to read compute API token (error : %v)", err)
	}

	discordToken, err := config.ReadSecret(cfg.Discord.TokenFile, config.EnvPrefix+"_DISCORD_TOKEN")
	if err != nil {
		logrus.Fatalf("Failed to read Discord token (error : %v)", err)
	}

	tiers, err := cfg.TierTable()
	if err != nil {
		logrus.Fatalf("Invalid tier table (error : %v)", err)
	}

	schedule, err := cfg.BuildSchedule(tiers)
	if err != nil {
		logrus.Fatalf("Invalid schedule (error : %v)", err)
	}

	location, err := cfg.Location()
	if err != nil {
		logrus.Fatalf("Invalid timezone (error : %v)", err)
	}

	computeClient, err := compute.NewDigitalOceanClient(computeToken, cfg.Compute.DropletID, cfg.Compute.BaseURL)
	if err != nil {
		logrus.Fatalf("Failed to create compute client (error : %v)", err)
	}

	telemetryClient, err := telemetry.NewHTTPClient(cfg.Telemetry.BaseURL, cfg.Telemetry.PerPage)
	if err != nil {
		logrus.Fatalf("Failed to create telemetry client (error : %v)", err)
	}

	var reachability core.ReachabilityProbe = probe.AlwaysReachable{}
	if cfg.Probe.Address != "" {
		reachability = probe.NewICMPProbe(cfg.Probe.Address, cfg.Probe.Timeout, cfg.Probe.Privileged)
	} else {
		logrus.Warn("No probe address configured, the droplet is always considered reachable")
	}

	var redisClient *redis.Client
	if cfg.RedisConf.Enabled {
		redisClient, err = redis_client.CreateRedisClient(ctx, cfg.RedisConf)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis (error : %v)", err)
		}
		defer redisClient.Close()
	}

	session, err := bot.NewSession(discordToken)
	if err != nil {
		logrus.Fatalf("Failed to create Discord session (error : %v)", err)
	}

	notifiers := notify.Fanout{
		notify.LogNotifier{},
		notify.NewDiscordNotifier(session, cfg.Discord.LogChannelID),
	}
	if redisClient != nil {
		notifiers = append(notifiers, notify.NewRedisQueueNotifier(redisClient, cfg.RedisConf.NotificationQueue, cfg.RedisConf.QueueLength))
	}

	var store permissions.Store = &permissions.FileStore{Path: cfg.Permissions.File}
	if cfg.Permissions.Backend == utils.PermissionsBackendRedis {
		store = &permissions.RedisStore{Client: redisClient}
	}

	checker, err := permissions.NewChecker(ctx, store)
	if err != nil {
		logrus.Fatalf("Failed to load permissions (error : %v)", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	var trace *tracing.TracingService[tracing.TransitionLogEntry]
	if cfg.TraceOutputFolder != "" {
		trace = tracing.NewTransitionTracingService(filepath.Join(cfg.TraceOutputFolder, "transitions_"+strconv.Itoa(cfg.Compute.DropletID)+".csv"))
	}

	controller := autoscaler.NewController(autoscaler.Config{
		TickInterval:   cfg.Autoscale.TickInterval,
		DebounceWindow: cfg.Autoscale.DebounceWindow,
		SettleDelay:    cfg.Autoscale.SettleDelay,
		SyncInterval:   cfg.Autoscale.SyncInterval,
		SyncTimeout:    cfg.Autoscale.SyncTimeout,
	}, autoscaler.Dependencies{
		Tiers:     tiers,
		Engine:    policy.NewEngine(schedule, tiers, location, cfg.Autoscale.IdleThreshold),
		Compute:   computeClient,
		Telemetry: telemetryClient,
		Probe:     reachability,
		Notifier:  notifiers,
		Metrics:   m,
		Trace:     trace,
	})

	dispatcher := bot.NewDispatcher(controller, checker, computeClient, telemetryClient, reachability, tiers, notifiers, cfg.Discord.MaxSuspendHours)
	discordBot := bot.NewBot(session, dispatcher, cfg.Discord.GuildID)

	g, ctx := errgroup.WithContext(ctx)

	if trace != nil {
		g.Go(func() error {
			return trace.StartTracingService(ctx)
		})
	}

	if cfg.Status.Enabled {
		g.Go(func() error {
			return status.Serve(ctx, status.NewHTTPServer(cfg.Status.Address, controller, registry, cfg.Status.Profiler))
		})
	}

	g.Go(func() error {
		return discordBot.Run(ctx)
	})

	g.Go(func() error {
		controller.Sync(ctx)
		controller.Run(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logrus.Errorf("Droplet manager stopped with an error (error : %v)", err)
		return
	}

	logrus.Info("Received interruption signal, gracefully stopped")
}
