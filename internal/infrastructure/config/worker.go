package config

import "time"

// WorkerConfig holds job worker configuration
type WorkerConfig struct {
	// Poll interval between job source queries
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`

	// Rate limit for job activations (jobs per second)
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Maximum jobs activated per poll
	MaxJobsPerPoll int `mapstructure:"max_jobs_per_poll" validate:"min=1"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// PID file location for single-instance enforcement
	PIDFile string `mapstructure:"pid_file"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Jobs per second
	Jobs int `mapstructure:"jobs" validate:"min=1"`

	// Burst capacity
	Burst int `mapstructure:"burst" validate:"min=1"`
}
