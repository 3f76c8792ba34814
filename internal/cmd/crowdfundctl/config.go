// Package crowdfundctl implements the crowdfund command-line client.
package crowdfundctl

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/crowdfund/internal/platform/cmd"
	"github.com/louisbranch/crowdfund/internal/platform/discovery"
	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
)

// Config holds crowdfundctl configuration.
type Config struct {
	Addr    string        `env:"CROWDFUND_ADDR"`
	As      string        `env:"CROWDFUND_CALLER"`
	Locale  string        `env:"CROWDFUND_LOCALE"`
	Timeout time.Duration `env:"CROWDFUND_CLI_TIMEOUT"`

	// Command is the subcommand name; Args are its remaining arguments.
	Command string
	Args    []string
}

// ParseConfig parses environment and global flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Addr = discovery.OrLocalGRPCAddr(cfg.Addr, discovery.ServiceCrowdfund)
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.GRPCRequest
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "crowdfund gRPC server address")
	fs.StringVar(&cfg.As, "as", cfg.As, "caller account to sign requests as (empty calls anonymously)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "preferred locale for error messages")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per request")
	fs.Usage = func() { usage(fs.Output(), fs) }
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, fmt.Errorf("command is required (one of %s)", strings.Join(commandNames(), ", "))
	}
	cfg.Command = rest[0]
	cfg.Args = rest[1:]
	return cfg, nil
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "usage: crowdfundctl [flags] <command> [args]\n\ncommands:\n")
	for _, name := range commandNames() {
		fmt.Fprintf(w, "  %-11s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nflags:\n")
	fs.PrintDefaults()
}
