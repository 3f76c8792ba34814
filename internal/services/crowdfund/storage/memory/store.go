// Package memory provides an in-process crowdfund ledger store.
package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/crowdfund/internal/platform/grpc/pagination"
	"github.com/louisbranch/crowdfund/internal/platform/id"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
)

// Store keeps ledger state in memory behind one mutex.
//
// UpdateCampaign stages the campaign and wallet changes on copies and only
// publishes them when the update function succeeds.
type Store struct {
	mu          sync.Mutex
	campaigns   map[string]*record
	order       []string
	wallets     map[string]storage.Wallet
	entries     map[string][]storage.LedgerEntry
	now         func() time.Time
	idGenerator func() (string, error)
}

type record struct {
	seq      int64
	campaign domain.Campaign
}

// New returns an empty store.
func New() *Store {
	return &Store{
		campaigns:   map[string]*record{},
		wallets:     map[string]storage.Wallet{},
		entries:     map[string][]storage.LedgerEntry{},
		now:         time.Now,
		idGenerator: id.NewID,
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateCampaign appends one campaign to the directory.
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) (storage.CampaignHandle, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignHandle{}, err
	}
	campaignID := strings.TrimSpace(campaign.ID)
	if campaignID == "" {
		return storage.CampaignHandle{}, fmt.Errorf("campaign id is required")
	}
	if strings.TrimSpace(campaign.Manager) == "" {
		return storage.CampaignHandle{}, fmt.Errorf("campaign manager is required")
	}
	if campaign.MinimumContribution <= 0 {
		return storage.CampaignHandle{}, fmt.Errorf("minimum contribution must be greater than zero")
	}
	if campaign.Balance != 0 || len(campaign.Approvers) != 0 || len(campaign.Requests) != 0 {
		return storage.CampaignHandle{}, fmt.Errorf("new campaigns start with an empty ledger")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[campaignID]; ok {
		return storage.CampaignHandle{}, storage.ErrAlreadyExists
	}
	stored := campaign.Clone()
	stored.ID = campaignID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now().UTC()
	}
	s.order = append(s.order, campaignID)
	s.campaigns[campaignID] = &record{seq: int64(len(s.order)), campaign: stored}
	return handleOf(stored), nil
}

// ListCampaignHandles returns one page of handles in creation order.
func (s *Store) ListCampaignHandles(ctx context.Context, pageSize int, pageToken string) (storage.CampaignHandlePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.CampaignHandlePage{}, err
	}
	if pageSize <= 0 {
		return storage.CampaignHandlePage{}, fmt.Errorf("page size must be greater than zero")
	}
	afterSeq, err := pagination.DecodeSeqToken(pageToken)
	if err != nil {
		return storage.CampaignHandlePage{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page := storage.CampaignHandlePage{Handles: make([]storage.CampaignHandle, 0, pageSize)}
	// seq is the 1-based position in order.
	for i := int(min(afterSeq, int64(len(s.order)))); i < len(s.order); i++ {
		if len(page.Handles) == pageSize {
			page.NextPageToken = pagination.EncodeSeqToken(int64(i))
			break
		}
		page.Handles = append(page.Handles, handleOf(s.campaigns[s.order[i]].campaign))
	}
	return page, nil
}

// GetCampaign returns a copy of one campaign.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return domain.Campaign{}, storage.ErrNotFound
	}
	return rec.campaign.Clone(), nil
}

// UpdateCampaign applies one ledger operation atomically.
func (s *Store) UpdateCampaign(ctx context.Context, campaignID string, apply storage.UpdateFunc) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, err
	}
	if apply == nil {
		return domain.Campaign{}, fmt.Errorf("update func is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return domain.Campaign{}, storage.ErrNotFound
	}
	staged := rec.campaign.Clone()
	funds := &stagedFunds{store: s, wallets: map[string]storage.Wallet{}}
	if err := apply(&staged, funds); err != nil {
		return domain.Campaign{}, err
	}
	if err := checkImmutable(rec.campaign, staged); err != nil {
		return domain.Campaign{}, err
	}

	for owner, wallet := range funds.wallets {
		s.wallets[owner] = wallet
	}
	s.entries[staged.ID] = append(s.entries[staged.ID], funds.entries...)
	rec.campaign = staged
	return staged.Clone(), nil
}

// ListLedgerEntries returns the campaign's transfers in the order they were applied.
func (s *Store) ListLedgerEntries(ctx context.Context, campaignID string) ([]storage.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID = strings.TrimSpace(campaignID)
	if _, ok := s.campaigns[campaignID]; !ok {
		return nil, storage.ErrNotFound
	}
	entries := make([]storage.LedgerEntry, len(s.entries[campaignID]))
	copy(entries, s.entries[campaignID])
	return entries, nil
}

// DepositFunds credits amount to owner's wallet, creating it on first use.
func (s *Store) DepositFunds(ctx context.Context, owner string, amount int64) (storage.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return storage.Wallet{}, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return storage.Wallet{}, fmt.Errorf("wallet owner is required")
	}
	if amount <= 0 {
		return storage.Wallet{}, fmt.Errorf("deposit amount must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet := s.walletLocked(owner)
	if wallet.Balance > math.MaxInt64-amount {
		return storage.Wallet{}, storage.ErrBalanceOverflow
	}
	wallet.Balance += amount
	wallet.UpdatedAt = s.now().UTC()
	s.wallets[owner] = wallet
	return wallet, nil
}

// GetWallet returns owner's wallet or an empty one.
func (s *Store) GetWallet(ctx context.Context, owner string) (storage.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return storage.Wallet{}, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return storage.Wallet{}, fmt.Errorf("wallet owner is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walletLocked(owner), nil
}

func (s *Store) walletLocked(owner string) storage.Wallet {
	wallet, ok := s.wallets[owner]
	if !ok {
		return storage.Wallet{Owner: owner}
	}
	return wallet
}

func handleOf(c domain.Campaign) storage.CampaignHandle {
	return storage.CampaignHandle{
		ID:        c.ID,
		Manager:   c.Manager,
		Title:     c.Metadata.Title,
		CreatedAt: c.CreatedAt,
	}
}

func checkImmutable(before, after domain.Campaign) error {
	if after.ID != before.ID ||
		after.Manager != before.Manager ||
		after.MinimumContribution != before.MinimumContribution ||
		after.Metadata != before.Metadata {
		return fmt.Errorf("campaign %s immutable fields changed", before.ID)
	}
	if len(after.Requests) < len(before.Requests) {
		return fmt.Errorf("campaign %s spending requests are append-only", before.ID)
	}
	for i, prev := range before.Requests {
		if prev.Complete && !after.Requests[i].Complete {
			return fmt.Errorf("spending request %d cannot be reopened", i)
		}
	}
	return nil
}

// stagedFunds records wallet changes for one update; the store holds its lock
// for the lifetime of the value.
type stagedFunds struct {
	store   *Store
	wallets map[string]storage.Wallet
	entries []storage.LedgerEntry
}

func (f *stagedFunds) wallet(owner string) storage.Wallet {
	if wallet, ok := f.wallets[owner]; ok {
		return wallet
	}
	return f.store.walletLocked(owner)
}

func (f *stagedFunds) CollectContribution(ctx context.Context, campaignID, from string, amount int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be greater than zero")
	}
	wallet := f.wallet(from)
	if wallet.Balance < amount {
		return storage.ErrInsufficientBalance
	}
	now := f.store.now().UTC()
	wallet.Balance -= amount
	wallet.UpdatedAt = now
	return f.record(wallet, campaignID, storage.LedgerEntryContribution, amount, -1, now)
}

func (f *stagedFunds) Disburse(ctx context.Context, campaignID, to string, amount int64, requestIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be greater than zero")
	}
	wallet := f.wallet(to)
	if wallet.Balance > math.MaxInt64-amount {
		return storage.ErrBalanceOverflow
	}
	now := f.store.now().UTC()
	wallet.Balance += amount
	wallet.UpdatedAt = now
	return f.record(wallet, campaignID, storage.LedgerEntryDisbursement, amount, requestIndex, now)
}

func (f *stagedFunds) record(wallet storage.Wallet, campaignID string, kind storage.LedgerEntryKind, amount int64, requestIndex int, now time.Time) error {
	entryID, err := f.store.idGenerator()
	if err != nil {
		return fmt.Errorf("generate ledger entry id: %w", err)
	}
	f.wallets[wallet.Owner] = wallet
	f.entries = append(f.entries, storage.LedgerEntry{
		ID:           entryID,
		CampaignID:   campaignID,
		Kind:         kind,
		Account:      wallet.Owner,
		Amount:       amount,
		RequestIndex: requestIndex,
		OccurredAt:   now,
	})
	return nil
}

var _ storage.Store = (*Store)(nil)
