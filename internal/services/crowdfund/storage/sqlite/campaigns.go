package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/crowdfund/internal/platform/grpc/pagination"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
)

// CreateCampaign appends one campaign to the directory.
func (s *Store) CreateCampaign(ctx context.Context, campaign domain.Campaign) (storage.CampaignHandle, error) {
	if err := s.ready(ctx); err != nil {
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
	createdAt := campaign.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO campaigns (
		   id,
		   manager,
		   minimum_contribution,
		   title,
		   descriptor,
		   image_reference,
		   balance,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		campaignID,
		campaign.Manager,
		campaign.MinimumContribution,
		campaign.Metadata.Title,
		campaign.Metadata.Descriptor,
		campaign.Metadata.ImageReference,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err, "campaigns") {
			return storage.CampaignHandle{}, storage.ErrAlreadyExists
		}
		return storage.CampaignHandle{}, fmt.Errorf("create campaign: %w", err)
	}
	return storage.CampaignHandle{
		ID:        campaignID,
		Manager:   campaign.Manager,
		Title:     campaign.Metadata.Title,
		CreatedAt: fromMillis(toMillis(createdAt)),
	}, nil
}

// ListCampaignHandles returns one page of handles in creation order.
func (s *Store) ListCampaignHandles(ctx context.Context, pageSize int, pageToken string) (storage.CampaignHandlePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CampaignHandlePage{}, err
	}
	if pageSize <= 0 {
		return storage.CampaignHandlePage{}, fmt.Errorf("page size must be greater than zero")
	}
	afterSeq, err := pagination.DecodeSeqToken(pageToken)
	if err != nil {
		return storage.CampaignHandlePage{}, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, id, manager, title, created_at
		   FROM campaigns
		  WHERE seq > ?
		  ORDER BY seq ASC
		  LIMIT ?`,
		afterSeq,
		pageSize+1,
	)
	if err != nil {
		return storage.CampaignHandlePage{}, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	page := storage.CampaignHandlePage{
		Handles: make([]storage.CampaignHandle, 0, pageSize),
	}
	seqs := make([]int64, 0, pageSize+1)
	for rows.Next() {
		var handle storage.CampaignHandle
		var seq int64
		var createdAt int64
		if err := rows.Scan(&seq, &handle.ID, &handle.Manager, &handle.Title, &createdAt); err != nil {
			return storage.CampaignHandlePage{}, fmt.Errorf("list campaigns: %w", err)
		}
		handle.CreatedAt = fromMillis(createdAt)
		page.Handles = append(page.Handles, handle)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return storage.CampaignHandlePage{}, fmt.Errorf("list campaigns: %w", err)
	}
	if len(page.Handles) > pageSize {
		page.NextPageToken = pagination.EncodeSeqToken(seqs[pageSize-1])
		page.Handles = page.Handles[:pageSize]
	}
	return page, nil
}

// GetCampaign loads the full ledger state of one campaign.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Campaign{}, err
	}
	campaignID = strings.TrimSpace(campaignID)

	// One transaction keeps the campaign row, approvers and requests consistent.
	var campaign domain.Campaign
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		campaign, err = loadCampaign(ctx, tx, campaignID)
		return err
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

// UpdateCampaign applies one ledger operation atomically.
func (s *Store) UpdateCampaign(ctx context.Context, campaignID string, apply storage.UpdateFunc) (domain.Campaign, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Campaign{}, err
	}
	if apply == nil {
		return domain.Campaign{}, fmt.Errorf("update func is required")
	}
	campaignID = strings.TrimSpace(campaignID)

	var updated domain.Campaign
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		before, err := loadCampaign(ctx, tx, campaignID)
		if err != nil {
			return err
		}
		after := before.Clone()
		funds := &txFunds{tx: tx, now: s.now, idGenerator: s.idGenerator}
		if err := apply(&after, funds); err != nil {
			return err
		}
		if err := persistCampaign(ctx, tx, before, after, s.now().UTC()); err != nil {
			return err
		}
		updated = after
		return nil
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return updated, nil
}

// ListLedgerEntries returns the campaign's transfers in the order they were applied.
func (s *Store) ListLedgerEntries(ctx context.Context, campaignID string) ([]storage.LedgerEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	campaignID = strings.TrimSpace(campaignID)
	if err := campaignExists(ctx, s.sqlDB, campaignID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, campaign_id, kind, account, amount, request_index, occurred_at
		   FROM ledger_entries
		  WHERE campaign_id = ?
		  ORDER BY seq ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.LedgerEntry, 0)
	for rows.Next() {
		var entry storage.LedgerEntry
		var kind string
		var occurredAt int64
		if err := rows.Scan(&entry.ID, &entry.CampaignID, &kind, &entry.Account, &entry.Amount, &entry.RequestIndex, &occurredAt); err != nil {
			return nil, fmt.Errorf("list ledger entries: %w", err)
		}
		entry.Kind = storage.LedgerEntryKind(kind)
		entry.OccurredAt = fromMillis(occurredAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

func campaignExists(ctx context.Context, q queryer, campaignID string) error {
	var found int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM campaigns WHERE id = ?`, campaignID).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("get campaign: %w", err)
	}
	return nil
}

func loadCampaign(ctx context.Context, q queryer, campaignID string) (domain.Campaign, error) {
	if campaignID == "" {
		return domain.Campaign{}, storage.ErrNotFound
	}

	var campaign domain.Campaign
	var createdAt int64
	err := q.QueryRowContext(
		ctx,
		`SELECT id, manager, minimum_contribution, title, descriptor, image_reference, balance, created_at
		   FROM campaigns
		  WHERE id = ?`,
		campaignID,
	).Scan(
		&campaign.ID,
		&campaign.Manager,
		&campaign.MinimumContribution,
		&campaign.Metadata.Title,
		&campaign.Metadata.Descriptor,
		&campaign.Metadata.ImageReference,
		&campaign.Balance,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	campaign.CreatedAt = fromMillis(createdAt)

	campaign.Approvers, err = loadApprovers(ctx, q, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	campaign.Requests, err = loadRequests(ctx, q, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

func loadApprovers(ctx context.Context, q queryer, campaignID string) (map[string]struct{}, error) {
	rows, err := q.QueryContext(ctx, `SELECT account FROM campaign_approvers WHERE campaign_id = ?`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load approvers: %w", err)
	}
	defer rows.Close()

	approvers := map[string]struct{}{}
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("load approvers: %w", err)
		}
		approvers[account] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load approvers: %w", err)
	}
	return approvers, nil
}

func loadRequests(ctx context.Context, q queryer, campaignID string) ([]domain.SpendingRequest, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT request_index, description, amount, recipient, approval_count, complete, created_at, finalized_at
		   FROM spending_requests
		  WHERE campaign_id = ?
		  ORDER BY request_index ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("load spending requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.SpendingRequest, 0)
	for rows.Next() {
		var req domain.SpendingRequest
		var complete int
		var createdAt int64
		var finalizedAt int64
		if err := rows.Scan(&req.Index, &req.Description, &req.Amount, &req.Recipient, &req.ApprovalCount, &complete, &createdAt, &finalizedAt); err != nil {
			return nil, fmt.Errorf("load spending requests: %w", err)
		}
		if req.Index != len(requests) {
			return nil, fmt.Errorf("spending request index gap at %d", len(requests))
		}
		req.Complete = complete == 1
		req.CreatedAt = fromMillis(createdAt)
		req.FinalizedAt = fromOptionalMillis(finalizedAt)
		req.ApprovedBy = map[string]struct{}{}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load spending requests: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("load spending requests: %w", err)
	}

	approvals, err := q.QueryContext(
		ctx,
		`SELECT request_index, account FROM request_approvals WHERE campaign_id = ?`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("load request approvals: %w", err)
	}
	defer approvals.Close()
	for approvals.Next() {
		var index int
		var account string
		if err := approvals.Scan(&index, &account); err != nil {
			return nil, fmt.Errorf("load request approvals: %w", err)
		}
		if index < 0 || index >= len(requests) {
			return nil, fmt.Errorf("approval references unknown request %d", index)
		}
		requests[index].ApprovedBy[account] = struct{}{}
	}
	if err := approvals.Err(); err != nil {
		return nil, fmt.Errorf("load request approvals: %w", err)
	}
	return requests, nil
}

// persistCampaign writes the difference between before and after.
// Campaign identity, manager, minimum and metadata never change after creation.
func persistCampaign(ctx context.Context, tx *sql.Tx, before, after domain.Campaign, now time.Time) error {
	if after.ID != before.ID ||
		after.Manager != before.Manager ||
		after.MinimumContribution != before.MinimumContribution ||
		after.Metadata != before.Metadata {
		return fmt.Errorf("campaign %s immutable fields changed", before.ID)
	}
	if len(after.Requests) < len(before.Requests) {
		return fmt.Errorf("campaign %s spending requests are append-only", before.ID)
	}

	if after.Balance != before.Balance {
		if _, err := tx.ExecContext(ctx, `UPDATE campaigns SET balance = ? WHERE id = ?`, after.Balance, after.ID); err != nil {
			return fmt.Errorf("update campaign balance: %w", err)
		}
	}

	for account := range after.Approvers {
		if _, ok := before.Approvers[account]; ok {
			continue
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO campaign_approvers (campaign_id, account, joined_at) VALUES (?, ?, ?)`,
			after.ID, account, toMillis(now),
		); err != nil {
			return fmt.Errorf("insert approver: %w", err)
		}
	}

	for i, req := range after.Requests {
		if i >= len(before.Requests) {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO spending_requests (
				   campaign_id, request_index, description, amount, recipient,
				   approval_count, complete, created_at, finalized_at
				 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				after.ID, i, req.Description, req.Amount, req.Recipient,
				req.ApprovalCount, boolToInt(req.Complete), toMillis(req.CreatedAt), toOptionalMillis(req.FinalizedAt),
			); err != nil {
				return fmt.Errorf("insert spending request: %w", err)
			}
			if err := insertApprovals(ctx, tx, after.ID, i, req, domain.SpendingRequest{}, now); err != nil {
				return err
			}
			continue
		}

		prev := before.Requests[i]
		if prev.Complete && !req.Complete {
			return fmt.Errorf("spending request %d cannot be reopened", i)
		}
		if req.ApprovalCount != prev.ApprovalCount || req.Complete != prev.Complete {
			if _, err := tx.ExecContext(
				ctx,
				`UPDATE spending_requests
				    SET approval_count = ?, complete = ?, finalized_at = ?
				  WHERE campaign_id = ? AND request_index = ?`,
				req.ApprovalCount, boolToInt(req.Complete), toOptionalMillis(req.FinalizedAt), after.ID, i,
			); err != nil {
				return fmt.Errorf("update spending request: %w", err)
			}
		}
		if err := insertApprovals(ctx, tx, after.ID, i, req, prev, now); err != nil {
			return err
		}
	}
	return nil
}

func insertApprovals(ctx context.Context, tx *sql.Tx, campaignID string, index int, req, prev domain.SpendingRequest, now time.Time) error {
	for account := range req.ApprovedBy {
		if prev.HasApproved(account) {
			continue
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO request_approvals (campaign_id, request_index, account, approved_at) VALUES (?, ?, ?, ?)`,
			campaignID, index, account, toMillis(now),
		); err != nil {
			return fmt.Errorf("insert request approval: %w", err)
		}
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
