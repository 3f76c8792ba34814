package crowdfundctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	platformgrpc "github.com/louisbranch/crowdfund/internal/platform/grpc"
	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/callerauth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Run executes the configured command against the crowdfund server.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if _, ok := commands[cfg.Command]; !ok {
		return fmt.Errorf("unknown command %q (one of %s)", cfg.Command, strings.Join(commandNames(), ", "))
	}

	token, err := callerToken(cfg.As)
	if err != nil {
		return err
	}
	if cfg.Command == "token" {
		if token == "" {
			return errors.New("token requires -as")
		}
		_, err := fmt.Fprintln(out, token)
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCDial+cfg.Timeout)
	defer cancel()
	conn, err := platformgrpc.DialWithHealth(dialCtx, cfg.Addr, crowdfundv1.ServiceName, timeouts.GRPCDial, nil,
		grpc.WithPerRPCCredentials(callerauth.TokenCredentials{Token: token, Locale: cfg.Locale}),
	)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Addr, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			fmt.Fprintf(errOut, "close connection: %v\n", closeErr)
		}
	}()

	return Execute(ctx, crowdfundv1.NewCrowdfundServiceClient(conn), cfg, out)
}

// Execute runs one command using client.
func Execute(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, cfg Config, out io.Writer) error {
	cmd, ok := commands[cfg.Command]
	if !ok || cmd.run == nil {
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.GRPCRequest
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return describeError(cmd.run(callCtx, client, cfg.Args, out))
}

func callerToken(account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", nil
	}
	issuerCfg, err := callerauth.LoadIssuerConfigFromEnv(time.Now)
	if err != nil {
		return "", err
	}
	issuer, err := callerauth.NewIssuer(issuerCfg)
	if err != nil {
		return "", err
	}
	return issuer.Issue(account)
}

// describeError renders gRPC failures as "CODE: localized message".
func describeError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	code := apperrors.CodeFromStatus(err)
	if code == apperrors.CodeUnknown {
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	return fmt.Errorf("%s: %s", code, apperrors.LocalizedMessageFromStatus(err))
}
