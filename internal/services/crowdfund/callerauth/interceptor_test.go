package callerauth

import (
	"context"
	"testing"
	"time"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	"github.com/louisbranch/crowdfund/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type seen struct {
	caller string
	locale string
	called bool
}

func runInterceptor(t *testing.T, verifier *Verifier, method string, md metadata.MD) (seen, error) {
	t.Helper()
	var got seen
	ctx := metadata.NewIncomingContext(context.Background(), md)
	_, err := UnaryServerInterceptor(verifier)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, func(ctx context.Context, req any) (any, error) {
		got.called = true
		got.caller = requestctx.CallerIDFromContext(ctx)
		got.locale = requestctx.LocaleFromContext(ctx)
		return nil, nil
	})
	return got, err
}

func TestInterceptorAuthenticatesMutations(t *testing.T) {
	issuer, verifier := testPair(t, issuedAt.Add(time.Minute))
	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := runInterceptor(t, verifier, crowdfundv1.CrowdfundService_Contribute_FullMethodName, metadata.Pairs(
		AuthorizationHeader, "Bearer "+token,
		LocaleHeader, "pt-BR",
	))
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if !got.called || got.caller != "alice" || got.locale != "pt-BR" {
		t.Fatalf("handler saw %+v", got)
	}
}

func TestInterceptorRejectsAnonymousMutation(t *testing.T) {
	_, verifier := testPair(t, issuedAt)
	got, err := runInterceptor(t, verifier, crowdfundv1.CrowdfundService_FinalizeSpendingRequest_FullMethodName, metadata.MD{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
	if got.called {
		t.Fatal("handler should not run")
	}
}

func TestInterceptorAllowsAnonymousReads(t *testing.T) {
	_, verifier := testPair(t, issuedAt)
	got, err := runInterceptor(t, verifier, crowdfundv1.CrowdfundService_GetCampaignSummary_FullMethodName, metadata.MD{})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if !got.called || got.caller != "" {
		t.Fatalf("handler saw %+v", got)
	}
}

func TestInterceptorRejectsInvalidTokenOnReads(t *testing.T) {
	_, verifier := testPair(t, issuedAt)
	_, err := runInterceptor(t, verifier, crowdfundv1.CrowdfundService_GetWallet_FullMethodName, metadata.Pairs(AuthorizationHeader, "Bearer garbage"))
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
}

func TestTokenCredentialsMetadata(t *testing.T) {
	md, err := TokenCredentials{Token: "abc", Locale: "en-US"}.GetRequestMetadata(context.Background())
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if md[AuthorizationHeader] != "Bearer abc" || md[LocaleHeader] != "en-US" {
		t.Fatalf("metadata = %v", md)
	}
	empty, _ := TokenCredentials{}.GetRequestMetadata(context.Background())
	if len(empty) != 0 {
		t.Fatalf("empty metadata = %v", empty)
	}
}
