package crowdfund

import (
	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
)

// HandleToProto converts a directory handle to its wire form.
func HandleToProto(handle storage.CampaignHandle) *crowdfundv1.CampaignHandle {
	return &crowdfundv1.CampaignHandle{
		CampaignID: handle.ID,
		Manager:    handle.Manager,
		Title:      handle.Title,
		CreatedAt:  handle.CreatedAt.UTC(),
	}
}

// SummaryToProto converts a campaign summary to its wire form.
func SummaryToProto(summary domain.Summary) *crowdfundv1.CampaignSummary {
	return &crowdfundv1.CampaignSummary{
		Title:               summary.Title,
		Descriptor:          summary.Descriptor,
		ImageReference:      summary.ImageReference,
		MinimumContribution: summary.MinimumContribution,
		Balance:             summary.Balance,
		RequestCount:        int32(summary.RequestCount),
		ApproverCount:       int32(summary.ApproverCount),
		Manager:             summary.Manager,
	}
}

// RequestToProto converts a spending request to its wire form.
func RequestToProto(req domain.SpendingRequest) *crowdfundv1.SpendingRequest {
	out := &crowdfundv1.SpendingRequest{
		Index:         int32(req.Index),
		Description:   req.Description,
		Amount:        req.Amount,
		Recipient:     req.Recipient,
		ApprovalCount: int32(req.ApprovalCount),
		Complete:      req.Complete,
		Approvers:     req.Approvals(),
		CreatedAt:     req.CreatedAt.UTC(),
	}
	if !req.FinalizedAt.IsZero() {
		finalizedAt := req.FinalizedAt.UTC()
		out.FinalizedAt = &finalizedAt
	}
	return out
}

// LedgerEntryToProto converts a ledger entry to its wire form.
func LedgerEntryToProto(entry storage.LedgerEntry) *crowdfundv1.LedgerEntry {
	return &crowdfundv1.LedgerEntry{
		EntryID:      entry.ID,
		CampaignID:   entry.CampaignID,
		Kind:         string(entry.Kind),
		Account:      entry.Account,
		Amount:       entry.Amount,
		RequestIndex: int32(entry.RequestIndex),
		OccurredAt:   entry.OccurredAt.UTC(),
	}
}

// WalletToProto converts a wallet to its wire form.
func WalletToProto(wallet storage.Wallet) *crowdfundv1.Wallet {
	return &crowdfundv1.Wallet{
		Owner:     wallet.Owner,
		Balance:   wallet.Balance,
		UpdatedAt: wallet.UpdatedAt.UTC(),
	}
}
