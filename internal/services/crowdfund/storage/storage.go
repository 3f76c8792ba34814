// Package storage defines persistence contracts for crowdfund ledger state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
)

var (
	// ErrNotFound indicates a requested campaign record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a campaign with the same ID already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInsufficientBalance indicates a wallet cannot cover a debit.
	ErrInsufficientBalance = errors.New("wallet balance is insufficient")
	// ErrBalanceOverflow indicates a credit would overflow a wallet balance.
	ErrBalanceOverflow = errors.New("wallet balance would overflow")
)

// CampaignHandle identifies one campaign in the registry directory.
type CampaignHandle struct {
	ID        string
	Manager   string
	Title     string
	CreatedAt time.Time
}

// CampaignHandlePage stores one page of directory handles in creation order.
type CampaignHandlePage struct {
	Handles       []CampaignHandle
	NextPageToken string
}

// LedgerEntryKind names the direction of a recorded value transfer.
type LedgerEntryKind string

const (
	// LedgerEntryContribution moves value from a contributor into custody.
	LedgerEntryContribution LedgerEntryKind = "contribution"
	// LedgerEntryDisbursement moves value from custody to a request recipient.
	LedgerEntryDisbursement LedgerEntryKind = "disbursement"
)

// LedgerEntry records one value transfer against a campaign.
type LedgerEntry struct {
	ID         string
	CampaignID string
	Kind       LedgerEntryKind
	// Account is the contributor for contributions and the recipient for disbursements.
	Account string
	Amount  int64
	// RequestIndex is -1 for contributions.
	RequestIndex int
	OccurredAt   time.Time
}

// Wallet is the spendable balance held by one account.
type Wallet struct {
	Owner     string
	Balance   int64
	UpdatedAt time.Time
}

// UpdateFunc mutates a campaign and moves value through funds. Returning an
// error discards both the mutation and every transfer made through funds.
type UpdateFunc func(campaign *domain.Campaign, funds domain.Funds) error

// CampaignDirectory is the append-only registry of created campaigns.
type CampaignDirectory interface {
	CreateCampaign(ctx context.Context, campaign domain.Campaign) (CampaignHandle, error)
	ListCampaignHandles(ctx context.Context, pageSize int, pageToken string) (CampaignHandlePage, error)
}

// CampaignStore loads campaigns and applies atomic ledger updates.
type CampaignStore interface {
	GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error)
	// UpdateCampaign runs apply inside one transaction serialized per store.
	UpdateCampaign(ctx context.Context, campaignID string, apply UpdateFunc) (domain.Campaign, error)
	ListLedgerEntries(ctx context.Context, campaignID string) ([]LedgerEntry, error)
}

// WalletStore persists account wallets.
type WalletStore interface {
	DepositFunds(ctx context.Context, owner string, amount int64) (Wallet, error)
	// GetWallet returns a zero balance for unknown owners.
	GetWallet(ctx context.Context, owner string) (Wallet, error)
}

// Store is the full crowdfund persistence surface.
type Store interface {
	CampaignDirectory
	CampaignStore
	WalletStore
	Close() error
}
