package app

import (
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/store"
)

// Defaults returns the values used when neither the config file nor the
// environment sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"app.server.http.address":                     ":8080",
		"app.server.http.read_timeout_seconds":        10,
		"app.server.http.read_header_timeout_seconds": 5,
		"app.server.http.write_timeout_seconds":       10,
		"app.server.http.idle_timeout_seconds":        60,
		"app.server.cors":                             "*",
		"app.server.max_goroutine":                    0,

		"deploy.profile": DefaultProfile(),

		"instrument.enabled":                 false,
		"instrument.service_name":            "seedkeeper",
		"instrument.log_level":               "info",
		"instrument.trace_sample_ratio":      1.0,
		"instrument.metric_interval_seconds": 15,

		"totp.period": otp.DefaultPeriod,
		"totp.skew":   otp.DefaultSkew,

		"seed.driver":                store.DriverFile,
		"seed.connect_attempts":      5,
		"seed.redis.key":             store.DefaultRedisKey,
		"seed.postgres.slot":         store.DefaultSlot,
		"seed.postgres.auto_migrate": true,
		"seed.object.key":            store.DefaultObjectKey,

		"snapshot.enabled":          false,
		"snapshot.interval_seconds": 60,
	}
}
