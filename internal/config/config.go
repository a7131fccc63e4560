// Package config loads udpseq's runtime configuration from command-line
// flags, layered over environment variables and defaults, the way the
// teacher's Config/loadConfig pairing did but with real sources instead
// of a literal struct.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every knob udpseq's entrypoint needs at startup.
type Config struct {
	// ListenAddr is the UDP address the ingress loop binds to.
	ListenAddr string
	// MetricsAddr is the HTTP address the /metrics endpoint binds to.
	MetricsAddr string
	// IdleTimeoutSeconds is how many seconds a peer connection may go
	// without traffic before it is reaped.
	IdleTimeoutSeconds int
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// Load parses args (typically os.Args[1:]) and returns the resulting
// Config. Flags take precedence over the UDPSEQ_-prefixed environment
// variables viper binds them to, which in turn take precedence over the
// defaults below.
func Load(args []string) (Config, error) {
	flags := pflag.NewFlagSet("udpseqd", pflag.ContinueOnError)

	flags.String("listen", "0.0.0.0:8080", "UDP address to listen on")
	flags.String("metrics-addr", "0.0.0.0:9090", "HTTP address to serve /metrics on")
	flags.Int("idle-timeout", 10, "seconds of silence before a peer connection is reaped")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parsing flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("UDPSEQ")
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("config: binding flags: %w", err)
	}

	return Config{
		ListenAddr:         v.GetString("listen"),
		MetricsAddr:        v.GetString("metrics-addr"),
		IdleTimeoutSeconds: v.GetInt("idle-timeout"),
		LogLevel:           v.GetString("log-level"),
	}, nil
}
