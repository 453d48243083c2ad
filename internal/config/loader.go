// Package config loads the console settings from YAML and BDE_* environment
// variables, fills defaults and validates the result.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

const envPrefix = "BDE"

// newViper maps every key to an environment variable: service.base_url is
// read from BDE_SERVICE_BASE_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)
	return v
}

// Load reads the YAML file at path with environment overrides on top.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfig, "failed to read config file").
			WithDetail(path + ": " + err.Error())
	}
	return decode(v)
}

// LoadFromEnv builds the configuration from defaults and BDE_* variables
// alone.
func LoadFromEnv() (*Config, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfig, "failed to decode configuration").WithDetail(err.Error())
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfig, "invalid configuration").WithDetail(err.Error())
	}
	return &cfg, nil
}

//Personal.AI order the ending
