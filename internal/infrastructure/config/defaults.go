package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "batchtrace"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "batchtrace"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Worker defaults
	if cfg.Worker.PollInterval == 0 {
		cfg.Worker.PollInterval = 1 * time.Second
	}
	if cfg.Worker.RateLimit.Jobs == 0 {
		cfg.Worker.RateLimit.Jobs = 10
	}
	if cfg.Worker.RateLimit.Burst == 0 {
		cfg.Worker.RateLimit.Burst = 20
	}
	if cfg.Worker.MaxJobsPerPoll == 0 {
		cfg.Worker.MaxJobsPerPoll = 32
	}
	if cfg.Worker.ShutdownTimeout == 0 {
		cfg.Worker.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Worker.PIDFile == "" {
		cfg.Worker.PIDFile = "/tmp/batchtrace-daemon.pid"
	}

	// Export defaults
	if cfg.Export.Directory == "" {
		cfg.Export.Directory = "./exports"
	}
	if cfg.Export.FileMode == "" {
		cfg.Export.FileMode = "0644"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
