package domain

import (
	"sort"
	"time"
)

// RequestInput describes a proposed disbursement.
type RequestInput struct {
	Description string
	Amount      int64
	Recipient   string
}

// SpendingRequest is a proposed disbursement awaiting approver quorum.
type SpendingRequest struct {
	Index         int
	Description   string
	Amount        int64
	Recipient     string
	ApprovalCount int
	ApprovedBy    map[string]struct{}
	Complete      bool
	CreatedAt     time.Time
	FinalizedAt   time.Time
}

// HasApproved reports whether account already voted on the request.
func (r SpendingRequest) HasApproved(account string) bool {
	_, ok := r.ApprovedBy[account]
	return ok
}

// Approvals returns the approving accounts in sorted order.
func (r SpendingRequest) Approvals() []string {
	out := make([]string, 0, len(r.ApprovedBy))
	for account := range r.ApprovedBy {
		out = append(out, account)
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy with its own approval set.
func (r SpendingRequest) Clone() SpendingRequest {
	out := r
	out.ApprovedBy = make(map[string]struct{}, len(r.ApprovedBy))
	for account := range r.ApprovedBy {
		out.ApprovedBy[account] = struct{}{}
	}
	return out
}
