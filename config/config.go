// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config loads the parameters the reserve engine needs to run as a
// standalone tool: fee constants, reserve basket limits and logging, by the
// same three-stage scheme the teacher uses for its node — defaults, then a
// YAML file on disk, then command line flags, each layer overriding the last.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"gitlab.com/jaxnet/reservecore/chaincfg"
	"gitlab.com/jaxnet/reservecore/corelog"
)

const (
	defaultConfigFilename = "reservecore.yaml"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "reservecore.log"
)

var defaultHomeDir = AppDataDir("reservecore", false)

// Config is the full set of engine parameters, loadable from a YAML file and
// overridable from the command line. The core packages never see this type;
// they take a chaincfg.ReserveParams built from it by Params.
type Config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file" yaml:"-"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store data" yaml:"data_dir"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}" yaml:"debug_level"`

	MaxReserveCurrencies   int   `long:"maxreservecurrencies" description:"Maximum number of currencies in a reserve basket" yaml:"max_reserve_currencies"`
	DefaultPerStepFee      int64 `long:"perstepfee" description:"Base transfer fee, in satoshis" yaml:"default_per_step_fee"`
	SuccessFee             int64 `long:"successfee" description:"Conversion fee rate, as a fraction of SATOSHIDEN" yaml:"success_fee"`
	MinSuccessFee          int64 `long:"minsuccessfee" description:"Floor on a conversion fee, in satoshis" yaml:"min_success_fee"`
	DestinationByteDivisor int64 `long:"destbytedivisor" description:"Divisor used to scale transfer fee by destination size" yaml:"destination_byte_divisor"`

	Logging corelog.Config `yaml:"logging"`
}

// Default returns the built-in configuration, equivalent to the teacher's
// defaultConfig() but for ReserveParams fields instead of node/P2P/RPC ones.
func Default() Config {
	return Config{
		DataDir:                defaultHomeDir,
		DebugLevel:             defaultLogLevel,
		MaxReserveCurrencies:   chaincfg.MainNetParams.MaxReserveCurrencies,
		DefaultPerStepFee:      chaincfg.MainNetParams.DefaultPerStepFee,
		SuccessFee:             chaincfg.MainNetParams.SuccessFee,
		MinSuccessFee:          chaincfg.MainNetParams.MinSuccessFee,
		DestinationByteDivisor: chaincfg.MainNetParams.DestinationByteDivisor,
		Logging:                corelog.Config{}.Default(),
	}
}

// Params projects the loaded Config down to the chaincfg.ReserveParams value
// the reserve package actually consumes (Design Notes §9 "Global state" —
// parameters are threaded explicitly, never read from a package global).
func (c Config) Params() chaincfg.ReserveParams {
	return chaincfg.ReserveParams{
		MaxReserveCurrencies:   c.MaxReserveCurrencies,
		DefaultPerStepFee:      c.DefaultPerStepFee,
		SuccessFee:             c.SuccessFee,
		MinSuccessFee:          c.MinSuccessFee,
		DestinationByteDivisor: c.DestinationByteDivisor,
	}
}

// Load builds a Config from defaults, an optional YAML file, then command
// line flags, in that order of increasing precedence, mirroring the
// teacher's loadConfig three-stage precedence.
func Load(args []string) (Config, []string, error) {
	cfg := Default()

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default&^flags.HelpFlag|flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		return cfg, nil, err
	}

	if preCfg.ConfigFile != "" {
		if err := loadYAML(preCfg.ConfigFile, &cfg); err != nil {
			return cfg, nil, err
		}
	} else {
		defaultPath := filepath.Join(defaultHomeDir, defaultConfigFilename)
		if fileExists(defaultPath) {
			if err := loadYAML(defaultPath, &cfg); err != nil {
				return cfg, nil, err
			}
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return cfg, nil, err
	}

	if !validLogLevel(cfg.DebugLevel) {
		return cfg, nil, fmt.Errorf("the specified debug level [%v] is invalid", cfg.DebugLevel)
	}

	if cfg.Logging.Directory == "" {
		cfg.Logging.Directory = filepath.Join(cfg.DataDir, defaultLogDirname)
	}
	if cfg.Logging.Filename == "" {
		cfg.Logging.Filename = defaultLogFilename
	}

	return cfg, remaining, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func validLogLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
