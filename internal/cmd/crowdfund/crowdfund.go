// Package crowdfund parses crowdfund service flags and launches the service.
package crowdfund

import (
	"context"
	"flag"
	"os"

	entrypoint "github.com/louisbranch/crowdfund/internal/platform/cmd"
	"github.com/louisbranch/crowdfund/internal/platform/discovery"
	server "github.com/louisbranch/crowdfund/internal/services/crowdfund/app"
)

const httpAddrEnv = "CROWDFUND_HTTP_ADDR"

// Config holds crowdfund command configuration.
type Config struct {
	Port int `env:"CROWDFUND_PORT"`
	// HTTPAddr is the gateway listen address; empty disables the gateway.
	HTTPAddr string `env:"CROWDFUND_HTTP_ADDR"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 {
		cfg.Port = discovery.GRPCPort(discovery.ServiceCrowdfund)
	}
	// An explicitly empty CROWDFUND_HTTP_ADDR keeps the gateway off.
	if _, set := os.LookupEnv(httpAddrEnv); !set {
		cfg.HTTPAddr = discovery.HTTPAddr(discovery.ServiceCrowdfund)
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The crowdfund gRPC server port")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The HTTP gateway address (empty disables the gateway)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the crowdfund gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCrowdfund, func(context.Context) error {
		return server.Run(ctx, cfg.Port, cfg.HTTPAddr)
	})
}
