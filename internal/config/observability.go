package config

import "fmt"

type ObservabilityConfig struct {
	ServiceName string         `koanf:"service_name"`
	Environment string         `koanf:"environment"`
	Logging     LoggingConfig  `koanf:"logging"`
	NewRelic    NewRelicConfig `koanf:"new_relic"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
}

// Enabled reports whether New Relic reporting is configured.
func (n NewRelicConfig) Enabled() bool {
	return n.LicenseKey != ""
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "logingest",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
	}
}

func (o *ObservabilityConfig) Validate() error {
	if o.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	switch o.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q (must be debug, info, warn or error)", o.Logging.Level)
	}
	switch o.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q (must be json or console)", o.Logging.Format)
	}
	return nil
}
