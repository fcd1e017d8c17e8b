/*
Package config loads the settings of pathpioneer with viper.

Defaults are taken from the packages' DefaultConfig functions. A config file
pathpioneer.cfg.json in the config directory overrides them, and environment
variables override both: authoring.largeMove is read from
PATHPIONEER_AUTHORING_LARGEMOVE.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/npillmayer/pathpioneer/authoring"
	"github.com/npillmayer/pathpioneer/lens"
	"github.com/npillmayer/pathpioneer/pace"
	"github.com/npillmayer/pathpioneer/walking"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/viper"
)

// tracer writes to trace with key 'config'
func tracer() tracing.Trace {
	return tracing.Select("config")
}

// FileName is the name of the config file.
const FileName = "pathpioneer.cfg.json"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "PATHPIONEER"

// StoreConfig holds the path store settings.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"` // sqlite data source; empty disables the store
}

// Load sets default values and reads the config file from configDir, if
// there is one. A missing file is not an error.
func Load(configDir string) error {
	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if configDir == "" {
		return nil
	}
	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			tracer().Infof("no config file in %s, using defaults", configDir)
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	tracer().Infof("config read from %s", viper.ConfigFileUsed())
	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("traceLevel", "error")
	viper.SetDefault("pace.interval", pace.DefaultInterval.String())
	viper.SetDefault("store.dsn", "")

	a := authoring.DefaultConfig()
	viper.SetDefault("authoring.traceSpacing", a.TraceSpacing)
	viper.SetDefault("authoring.paintTrail", a.PaintTrail)
	viper.SetDefault("authoring.lookBlendDistance", a.LookBlendDistance)
	viper.SetDefault("authoring.feedbackSamples", a.FeedbackSamples)
	viper.SetDefault("authoring.largeMove", a.LargeMove)
	viper.SetDefault("authoring.minStartDistance", a.MinStartDistance)
	viper.SetDefault("authoring.loopHorizontal", a.LoopHorizontal)
	viper.SetDefault("authoring.loopVertical", a.LoopVertical)
	viper.SetDefault("authoring.minHintPoints", a.MinHintPoints)
	viper.SetDefault("authoring.slowPace", a.SlowPace)
	viper.SetDefault("authoring.resampleSpacing", a.ResampleSpacing)
	viper.SetDefault("authoring.splineResolution", a.SplineResolution)
	viper.SetDefault("authoring.calibrationOffset", a.CalibrationOffset)
	viper.SetDefault("authoring.minPathPoints", a.MinPathPoints)
	viper.SetDefault("authoring.ribbonWidth", a.RibbonWidth)

	w := walking.DefaultConfig()
	viper.SetDefault("walking.gateWidth", w.GateWidth)
	viper.SetDefault("walking.gateDepth", w.GateDepth)
	viper.SetDefault("walking.ribbonWidth", w.RibbonWidth)
	viper.SetDefault("walking.trackWidth", w.TrackWidth)
	viper.SetDefault("walking.speedWarningMPH", w.SpeedWarningMPH)
	viper.SetDefault("walking.arrows.maxArrows", w.Arrows.MaxArrows)
	viper.SetDefault("walking.arrows.minimalDistance", w.Arrows.MinimalDistance)
	viper.SetDefault("walking.arrows.revealDistance", w.Arrows.RevealDistance)
	viper.SetDefault("walking.arrows.radius", w.Arrows.Radius)
	viper.SetDefault("walking.arrows.height", w.Arrows.Height)
	viper.SetDefault("walking.arrows.trim", w.Arrows.Trim)
}

// Session returns the settings of a lens session.
func Session() (lens.Config, error) {
	var conf lens.Config
	if err := viper.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("decoding session config: %w", err)
	}
	return conf, nil
}

// Store returns the path store settings.
func Store() (StoreConfig, error) {
	var conf StoreConfig
	if err := viper.UnmarshalKey("store", &conf); err != nil {
		return conf, fmt.Errorf("decoding store config: %w", err)
	}
	return conf, nil
}

// PaceInterval is the minimum interval between pace samples.
func PaceInterval() time.Duration {
	return viper.GetDuration("pace.interval")
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// Set overrides a config value, e.g. from a command line flag.
func Set(key string, value any) {
	viper.Set(key, value)
}
