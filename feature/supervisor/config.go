package supervisor

import "time"

// Config holds the supervisor timing.
type Config struct {
	// RestartHour is the local hour (0-23) of the daily restart.
	RestartHour int `mapstructure:"restart_hour" default:"5"`
	// Warmup is how long both processes run before the map rebuild.
	Warmup time.Duration `mapstructure:"warmup" default:"5m"`
	// PollInterval is the liveness check period while running.
	PollInterval time.Duration `mapstructure:"poll_interval" default:"1s"`
}
