package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ProcessConfig holds configuration for the process command.
type ProcessConfig struct {
	Input       string
	PGDSN       string
	StateFile   string
	Dump        string
	FromTime    string
	ETHUSDCPair string
	CROUSDCPair string
	LogLevel    string
}

// LoadProcess merges config file, environment variables, and flags into ProcessConfig.
func LoadProcess(cfgFile string, flags *pflag.FlagSet) (ProcessConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("STAKESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ProcessConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return ProcessConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return ProcessConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := ProcessConfig{
		Input:       v.GetString("in"),
		PGDSN:       v.GetString("pg-dsn"),
		StateFile:   v.GetString("state-file"),
		Dump:        v.GetString("dump"),
		FromTime:    v.GetString("from-time"),
		ETHUSDCPair: v.GetString("eth-usdc-pair"),
		CROUSDCPair: v.GetString("cro-usdc-pair"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339).
func ParseTimestamp(input string) (uint64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseUint(input, 10, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return 0, err
	}
	return uint64(tm.Unix()), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
