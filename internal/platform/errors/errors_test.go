package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("approve: %w", New(CodeDuplicateApproval, "approver already voted"))
	if !stderrors.Is(err, New(CodeDuplicateApproval, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeQuorumNotMet, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("wallet short")
	err := Wrap(CodeTransferFailed, "collect contribution", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeInsufficientContribution, codes.InvalidArgument},
		{CodeInvalidParameter, codes.InvalidArgument},
		{CodeUnauthorized, codes.PermissionDenied},
		{CodeNotFound, codes.NotFound},
		{CodeCampaignNotFound, codes.NotFound},
		{CodeDuplicateApproval, codes.AlreadyExists},
		{CodeAlreadyFinalized, codes.FailedPrecondition},
		{CodeQuorumNotMet, codes.FailedPrecondition},
		{CodeInsufficientFunds, codes.FailedPrecondition},
		{CodeTransferFailed, codes.Aborted},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			if got := tc.code.GRPCCode(); got != tc.want {
				t.Fatalf("GRPCCode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := HandleError(WithMetadata(CodeInsufficientFunds, "request exceeds balance", map[string]string{
		"Amount":  "500",
		"Balance": "200",
	}), "pt-BR")

	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.FailedPrecondition)
	}
	if got := CodeFromStatus(err); got != CodeInsufficientFunds {
		t.Fatalf("CodeFromStatus = %q, want %q", got, CodeInsufficientFunds)
	}
	want := "O pedido de gasto solicita 500 mas a campanha possui 200"
	if got := LocalizedMessageFromStatus(err); got != want {
		t.Fatalf("localized message = %q, want %q", got, want)
	}
}

func TestHandleErrorPassesThroughStatus(t *testing.T) {
	in := status.Error(codes.Unauthenticated, "caller token is required")
	if got := HandleError(in, ""); got != in {
		t.Fatalf("HandleError = %v, want passthrough", got)
	}
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	err := HandleError(stderrors.New("disk on fire"), "")
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Internal)
	}
	if CodeFromStatus(err) != CodeUnknown {
		t.Fatal("expected unknown code for plain error")
	}
}

func TestHandleErrorNil(t *testing.T) {
	if HandleError(nil, "en-US") != nil {
		t.Fatal("expected nil")
	}
}
