package main

import (
	"github.com/spf13/viper"
	"github.com/turbot/tailpipe-sales-etl/config"
)

// loadConfig builds the run configuration.
// Precedence, lowest first: defaults, config file, SALES_ETL_* env vars, flags.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString(flagConfig); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if v.IsSet(flagInput) {
		cfg.InputPath = v.GetString(flagInput)
	}
	if v.IsSet(flagOutput) {
		cfg.OutputPath = v.GetString(flagOutput)
	}
	if v.IsSet(flagThreshold) {
		threshold := v.GetFloat64(flagThreshold)
		cfg.Transform.Threshold = &threshold
	}
	if v.IsSet(flagInclusive) {
		inclusive := v.GetBool(flagInclusive)
		cfg.Transform.Inclusive = &inclusive
	}
	if v.IsSet(flagStorage) {
		cfg.Storage = v.GetString(flagStorage)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
