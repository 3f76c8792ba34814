// Package errors provides structured ledger errors with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Campaign ledger errors
	CodeInsufficientContribution Code = "INSUFFICIENT_CONTRIBUTION"
	CodeUnauthorized             Code = "UNAUTHORIZED"
	CodeNotFound                 Code = "NOT_FOUND"
	CodeDuplicateApproval        Code = "DUPLICATE_APPROVAL"
	CodeAlreadyFinalized         Code = "ALREADY_FINALIZED"
	CodeQuorumNotMet             Code = "QUORUM_NOT_MET"
	CodeInsufficientFunds        Code = "INSUFFICIENT_FUNDS"
	CodeTransferFailed           Code = "TRANSFER_FAILED"

	// Registry errors
	CodeInvalidParameter Code = "INVALID_PARAMETER"
	CodeCampaignNotFound Code = "CAMPAIGN_NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - the caller supplied a value the ledger rejects
	case CodeInsufficientContribution,
		CodeInvalidParameter:
		return codes.InvalidArgument

	// PermissionDenied - caller identity lacks the required role
	case CodeUnauthorized:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeCampaignNotFound:
		return codes.NotFound

	// AlreadyExists - one vote per approver per request
	case CodeDuplicateApproval:
		return codes.AlreadyExists

	// FailedPrecondition - ledger state doesn't allow operation
	case CodeAlreadyFinalized,
		CodeQuorumNotMet,
		CodeInsufficientFunds:
		return codes.FailedPrecondition

	// Aborted - value transfer rejected, nothing was applied
	case CodeTransferFailed:
		return codes.Aborted

	default:
		return codes.Internal
	}
}
