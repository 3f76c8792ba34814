package domain

import "context"

// Funds moves value between wallets and campaign custody.
//
// Implementations run inside the same transaction as the campaign update; an
// error from either method aborts the whole operation.
type Funds interface {
	// CollectContribution moves amount from the sender's wallet into campaign custody.
	CollectContribution(ctx context.Context, campaignID, from string, amount int64) error
	// Disburse moves amount out of campaign custody into the recipient's wallet.
	Disburse(ctx context.Context, campaignID, to string, amount int64, requestIndex int) error
}
