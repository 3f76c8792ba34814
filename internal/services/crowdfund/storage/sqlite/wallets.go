package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
)

// DepositFunds credits amount to owner's wallet, creating it on first use.
func (s *Store) DepositFunds(ctx context.Context, owner string, amount int64) (storage.Wallet, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Wallet{}, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return storage.Wallet{}, fmt.Errorf("wallet owner is required")
	}
	if amount <= 0 {
		return storage.Wallet{}, fmt.Errorf("deposit amount must be greater than zero")
	}

	var wallet storage.Wallet
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := creditWallet(ctx, tx, owner, amount, s.now().UTC()); err != nil {
			return err
		}
		var err error
		wallet, err = getWallet(ctx, tx, owner)
		return err
	})
	if err != nil {
		return storage.Wallet{}, err
	}
	return wallet, nil
}

// GetWallet returns owner's wallet or an empty one.
func (s *Store) GetWallet(ctx context.Context, owner string) (storage.Wallet, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Wallet{}, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return storage.Wallet{}, fmt.Errorf("wallet owner is required")
	}
	return getWallet(ctx, s.sqlDB, owner)
}

func getWallet(ctx context.Context, q queryer, owner string) (storage.Wallet, error) {
	wallet := storage.Wallet{Owner: owner}
	var updatedAt int64
	err := q.QueryRowContext(ctx, `SELECT balance, updated_at FROM wallets WHERE owner = ?`, owner).Scan(&wallet.Balance, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wallet, nil
		}
		return storage.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	wallet.UpdatedAt = fromMillis(updatedAt)
	return wallet, nil
}

func creditWallet(ctx context.Context, tx *sql.Tx, owner string, amount int64, now time.Time) error {
	current, err := getWallet(ctx, tx, owner)
	if err != nil {
		return err
	}
	if current.Balance > math.MaxInt64-amount {
		return storage.ErrBalanceOverflow
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO wallets (owner, balance, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(owner) DO UPDATE SET
		   balance = wallets.balance + excluded.balance,
		   updated_at = excluded.updated_at`,
		owner, amount, toMillis(now),
	); err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}

func debitWallet(ctx context.Context, tx *sql.Tx, owner string, amount int64, now time.Time) error {
	result, err := tx.ExecContext(
		ctx,
		`UPDATE wallets
		    SET balance = balance - ?, updated_at = ?
		  WHERE owner = ? AND balance >= ?`,
		amount, toMillis(now), owner, amount,
	)
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	if affected == 0 {
		return storage.ErrInsufficientBalance
	}
	return nil
}

// txFunds moves wallet value inside an open campaign update.
type txFunds struct {
	tx          *sql.Tx
	now         func() time.Time
	idGenerator func() (string, error)
}

func (f *txFunds) CollectContribution(ctx context.Context, campaignID, from string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be greater than zero")
	}
	now := f.now().UTC()
	if err := debitWallet(ctx, f.tx, from, amount, now); err != nil {
		return err
	}
	return f.appendEntry(ctx, campaignID, storage.LedgerEntryContribution, from, amount, -1, now)
}

func (f *txFunds) Disburse(ctx context.Context, campaignID, to string, amount int64, requestIndex int) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be greater than zero")
	}
	now := f.now().UTC()
	if err := creditWallet(ctx, f.tx, to, amount, now); err != nil {
		return err
	}
	return f.appendEntry(ctx, campaignID, storage.LedgerEntryDisbursement, to, amount, requestIndex, now)
}

func (f *txFunds) appendEntry(ctx context.Context, campaignID string, kind storage.LedgerEntryKind, account string, amount int64, requestIndex int, now time.Time) error {
	entryID, err := f.idGenerator()
	if err != nil {
		return fmt.Errorf("generate ledger entry id: %w", err)
	}
	if _, err := f.tx.ExecContext(
		ctx,
		`INSERT INTO ledger_entries (id, campaign_id, kind, account, amount, request_index, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entryID, campaignID, string(kind), account, amount, requestIndex, toMillis(now),
	); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}
