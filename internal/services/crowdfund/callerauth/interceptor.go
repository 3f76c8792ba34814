package callerauth

import (
	"context"
	"errors"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	"github.com/louisbranch/crowdfund/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	// AuthorizationHeader carries the bearer caller token.
	AuthorizationHeader = "authorization"
	// LocaleHeader carries the caller's preferred message locale.
	LocaleHeader = "x-crowdfund-locale"
)

// UnaryServerInterceptor authenticates callers and records their locale.
//
// Read methods accept anonymous calls; a token that is present must still be
// valid. Every other method requires a valid token.
func UnaryServerInterceptor(verifier *Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		if locale := firstValue(md, LocaleHeader); locale != "" {
			ctx = requestctx.WithLocale(ctx, locale)
		}

		header := firstValue(md, AuthorizationHeader)
		if header == "" && crowdfundv1.IsReadMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		if verifier == nil {
			return nil, status.Error(codes.Unauthenticated, "caller verification is not configured")
		}
		claims, err := verifier.VerifyAuthorization(header)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, authMessage(err))
		}
		return handler(requestctx.WithCallerID(ctx, claims.Account), req)
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "caller token is required"
	case errors.Is(err, ErrExpiredToken):
		return "caller token is expired"
	default:
		return "caller token is invalid"
	}
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// TokenCredentials attaches a caller token to every outgoing RPC.
type TokenCredentials struct {
	Token  string
	Locale string
}

// GetRequestMetadata implements credentials.PerRPCCredentials.
func (c TokenCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	md := map[string]string{}
	if c.Token != "" {
		md[AuthorizationHeader] = "Bearer " + c.Token
	}
	if c.Locale != "" {
		md[LocaleHeader] = c.Locale
	}
	return md, nil
}

// RequireTransportSecurity reports false; the ledger runs on insecure local transport.
func (TokenCredentials) RequireTransportSecurity() bool {
	return false
}
