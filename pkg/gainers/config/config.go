// Package config loads settings from defaults, a YAML file, .env and the
// environment, in increasing priority. Flags bound to the viper instance win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/komsit37/gainers/pkg/gainers/iex"
	"github.com/komsit37/gainers/pkg/gainers/types"
)

const EnvPrefix = "GAINERS"

type IEX struct {
	Token   string `mapstructure:"token" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type Alerts struct {
	GateOnConnectivity bool `mapstructure:"gate_on_connectivity"`
}

type Display struct {
	// Decimals < 0 prints the shortest form.
	Decimals int `mapstructure:"decimals" validate:"gte=-1,lte=8"`
}

type Quote struct {
	// Fallback names extra quote backends tried after IEX, in order.
	Fallback []string `mapstructure:"fallback" validate:"dive,oneof=yahoo"`
}

type Connectivity struct {
	ProbeAddr string        `mapstructure:"probe_addr" validate:"required,hostname_port"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Offline   bool          `mapstructure:"offline"`
}

type Symbols struct {
	File    string `mapstructure:"file"`
	Filter  string `mapstructure:"filter"`
	Default string `mapstructure:"default" validate:"required"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

type Metrics struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

type Config struct {
	IEX          IEX          `mapstructure:"iex"`
	HTTP         HTTP         `mapstructure:"http"`
	Alerts       Alerts       `mapstructure:"alerts"`
	Display      Display      `mapstructure:"display"`
	Quote        Quote        `mapstructure:"quote"`
	Connectivity Connectivity `mapstructure:"connectivity"`
	Symbols      Symbols      `mapstructure:"symbols"`
	Log          Log          `mapstructure:"log"`
	Metrics      Metrics      `mapstructure:"metrics"`
}

// SetDefaults registers every key so the environment can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("iex.token", "")
	v.SetDefault("iex.base_url", iex.DefaultBaseURL)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("alerts.gate_on_connectivity", false)
	v.SetDefault("display.decimals", -1)
	v.SetDefault("quote.fallback", []string{})
	v.SetDefault("connectivity.probe_addr", "1.1.1.1:53")
	v.SetDefault("connectivity.timeout", time.Second)
	v.SetDefault("connectivity.offline", false)
	v.SetDefault("symbols.file", "")
	v.SetDefault("symbols.filter", "")
	v.SetDefault("symbols.default", types.DefaultSymbol)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.addr", "")
}

type LoadOptions struct {
	// File is an explicit config file; empty searches the working directory
	// and ~/.config/gainers for gainers.yaml.
	File string
	// EnvFile is loaded into the environment when present. Defaults to ".env".
	EnvFile string
}

// Load fills a Config from v. Callers bind flags to v before calling.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("iex.token", EnvPrefix+"_IEX_TOKEN", "IEX_TOKEN"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, err
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("gainers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gainers"))
		}
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})
	return v
}()

// Validate reports every invalid field by its config key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", keyOf(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// keyOf turns "Config.iex.token" into "iex.token".
func keyOf(ns string) string {
	return strings.TrimPrefix(ns, "Config.")
}
