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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"droplet_manager/internal/core"
	"droplet_manager/internal/policy"
	"droplet_manager/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "DROPLET_MANAGER"

type Config struct {
	Verbosity         string `mapstructure:"verbosity" validate:"oneof=info debug trace"`
	TraceOutputFolder string `mapstructure:"traceOutputFolder"`

	Compute     ComputeConf     `mapstructure:"compute"`
	Telemetry   TelemetryConf   `mapstructure:"telemetry"`
	Probe       ProbeConf       `mapstructure:"probe"`
	Discord     DiscordConf     `mapstructure:"discord"`
	Autoscale   AutoscaleConf   `mapstructure:"autoscale"`
	Permissions PermissionsConf `mapstructure:"permissions"`
	RedisConf   RedisConf       `mapstructure:"redis"`
	Status      StatusConf      `mapstructure:"status"`

	Tiers    []TierConf   `mapstructure:"tiers" validate:"required,min=1,dive"`
	Schedule []WindowConf `mapstructure:"schedule" validate:"required,min=1,dive"`
}

type ComputeConf struct {
	DropletID int    `mapstructure:"dropletId" validate:"required,gt=0"`
	BaseURL   string `mapstructure:"baseUrl" validate:"omitempty,url"`
	TokenFile string `mapstructure:"tokenFile"`
}

type TelemetryConf struct {
	BaseURL string `mapstructure:"baseUrl" validate:"required,url"`
	PerPage int    `mapstructure:"perPage" validate:"gt=0"`
}

type ProbeConf struct {
	Address    string        `mapstructure:"address"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Privileged bool          `mapstructure:"privileged"`
}

type DiscordConf struct {
	TokenFile       string `mapstructure:"tokenFile"`
	GuildID         string `mapstructure:"guildId"`
	LogChannelID    string `mapstructure:"logChannelId"`
	MaxSuspendHours int    `mapstructure:"maxSuspendHours" validate:"gt=0"`
}

type AutoscaleConf struct {
	TickInterval   time.Duration `mapstructure:"tickInterval" validate:"gt=0"`
	DebounceWindow time.Duration `mapstructure:"debounceWindow" validate:"gte=0"`
	SettleDelay    time.Duration `mapstructure:"settleDelay" validate:"gte=0"`
	SyncInterval   time.Duration `mapstructure:"syncInterval" validate:"gt=0"`
	SyncTimeout    time.Duration `mapstructure:"syncTimeout" validate:"gt=0"`
	IdleThreshold  int           `mapstructure:"idleThreshold" validate:"gte=0"`
	Timezone       string        `mapstructure:"timezone"`
}

type PermissionsConf struct {
	Backend string `mapstructure:"backend" validate:"oneof=file redis"`
	File    string `mapstructure:"file"`
}

type RedisConf struct {
	Enabled           bool   `mapstructure:"enabled"`
	Address           string `mapstructure:"address" validate:"required_if=Enabled true"`
	Password          string `mapstructure:"password"`
	Db                int    `mapstructure:"db"`
	NotificationQueue string `mapstructure:"notificationQueue"`
	QueueLength       int64  `mapstructure:"queueLength" validate:"gte=0"`
}

type StatusConf struct {
	Enabled  bool           `mapstructure:"enabled"`
	Address  string         `mapstructure:"address" validate:"required_if=Enabled true"`
	Profiler ProfilerConfig `mapstructure:"profiler"`
}

type ProfilerConfig struct {
	Enable bool `mapstructure:"enable"`
	Mutex  bool `mapstructure:"mutex"`
}

type TierConf struct {
	Name       string  `mapstructure:"name" validate:"required"`
	Slug       string  `mapstructure:"slug"`
	HourlyCost float64 `mapstructure:"hourlyCost" validate:"gte=0"`
	Rank       int     `mapstructure:"rank"`
	PowerOff   bool    `mapstructure:"powerOff"`
}

type WindowConf struct {
	Start string `mapstructure:"start" validate:"required"`
	Tier  string `mapstructure:"tier" validate:"required"`
}

func parseConfigPath(configPath string) (string, string, string) {
	configFolder, configName := filepath.Split(configPath)
	configName = strings.TrimSuffix(configName, filepath.Ext(configName))
	configType := strings.ReplaceAll(filepath.Ext(configPath), ".", "")

	if configFolder == "" {
		configFolder = "./"
	}

	return configFolder, configName, configType
}

func setupViper(configPath string) (*viper.Viper, error) {
	configFolder, configName, configType := parseConfigPath(configPath)

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configFolder)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return v, v.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbosity", "info")
	v.SetDefault("traceOutputFolder", "")

	v.SetDefault("compute.dropletId", 0)
	v.SetDefault("compute.baseUrl", "")
	v.SetDefault("compute.tokenFile", "keys/digitaloceanapi.key")

	v.SetDefault("telemetry.perPage", utils.DefaultTelemetryPerPage)

	v.SetDefault("probe.address", "")
	v.SetDefault("probe.timeout", "2s")
	v.SetDefault("probe.privileged", false)

	v.SetDefault("discord.tokenFile", "keys/discordapi.key")
	v.SetDefault("discord.guildId", "")
	v.SetDefault("discord.logChannelId", "")
	v.SetDefault("discord.maxSuspendHours", 72)

	v.SetDefault("autoscale.tickInterval", "60s")
	v.SetDefault("autoscale.debounceWindow", "120s")
	v.SetDefault("autoscale.settleDelay", "30s")
	v.SetDefault("autoscale.syncInterval", "5s")
	v.SetDefault("autoscale.syncTimeout", "1m")
	v.SetDefault("autoscale.idleThreshold", policy.DefaultIdleThreshold)
	v.SetDefault("autoscale.timezone", "Local")

	v.SetDefault("permissions.backend", utils.PermissionsBackendFile)
	v.SetDefault("permissions.file", "settings.json")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.notificationQueue", utils.DefaultNotificationQueue)
	v.SetDefault("redis.queueLength", 1000)

	v.SetDefault("status.enabled", false)
	v.SetDefault("status.address", ":9090")
	v.SetDefault("status.profiler.enable", false)
	v.SetDefault("status.profiler.mutex", false)
}

func ReadConfiguration(configPath string) (Config, error) {
	v, err := setupViper(configPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks field constraints first and then the tier table and the
// schedule as a whole.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Permissions.Backend == utils.PermissionsBackendRedis && !c.RedisConf.Enabled {
		return errors.New("redis permission backend requires redis to be enabled")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	tiers, err := c.TierTable()
	if err != nil {
		return err
	}

	_, err = c.BuildSchedule(tiers)
	return err
}

func (c *Config) TierTable() (*core.TierTable, error) {
	tiers := make([]core.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, core.Tier{
			Name:       t.Name,
			Slug:       t.Slug,
			HourlyCost: t.HourlyCost,
			Rank:       t.Rank,
			PowerOff:   t.PowerOff,
		})
	}

	return core.NewTierTable(tiers)
}

func (c *Config) BuildSchedule(tiers *core.TierTable) (*policy.Schedule, error) {
	specs := make([]policy.WindowSpec, 0, len(c.Schedule))
	for _, w := range c.Schedule {
		specs = append(specs, policy.WindowSpec{Start: w.Start, Tier: w.Tier})
	}

	return policy.NewSchedule(specs, tiers)
}

func (c *Config) Location() (*time.Location, error) {
	if c.Autoscale.Timezone == "" {
		return time.Local, nil
	}

	location, err := time.LoadLocation(c.Autoscale.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Autoscale.Timezone, err)
	}

	return location, nil
}

// ReadSecret prefers the environment variable and falls back to the key file.
func ReadSecret(path, env string) (string, error) {
	if value := strings.TrimSpace(os.Getenv(env)); value != "" {
		return value, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("secret not found in %s or $%s: %w", path, env, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("secret file %s is empty", path)
	}

	return value, nil
}
