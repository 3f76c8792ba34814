package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/id"
)

// Metadata is the display-only description of a campaign.
type Metadata struct {
	Title          string
	Descriptor     string
	ImageReference string
}

// Campaign is one fundraising unit and its request ledger.
type Campaign struct {
	ID                  string
	Manager             string
	MinimumContribution int64
	Metadata            Metadata
	Balance             int64
	Approvers           map[string]struct{}
	Requests            []SpendingRequest
	CreatedAt           time.Time
}

// Summary is the read-only view of a campaign.
type Summary struct {
	Title               string
	Descriptor          string
	ImageReference      string
	MinimumContribution int64
	Balance             int64
	RequestCount        int
	ApproverCount       int
	Manager             string
}

// CreateCampaignInput describes the immutable parameters of a new campaign.
type CreateCampaignInput struct {
	Title               string
	Descriptor          string
	ImageReference      string
	MinimumContribution int64
}

// ContributeResult reports what a contribution changed.
type ContributeResult struct {
	Balance        int64
	BecameApprover bool
}

// NewCampaign builds a campaign managed by manager with a generated ID.
func NewCampaign(input CreateCampaignInput, manager string, now func() time.Time, idGenerator func() (string, error)) (Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	manager = strings.TrimSpace(manager)
	if manager == "" {
		return Campaign{}, unauthorized("create a campaign")
	}
	if input.MinimumContribution <= 0 {
		return Campaign{}, invalidParameter("minimum contribution", "minimum contribution must be greater than zero")
	}

	campaignID, err := idGenerator()
	if err != nil {
		return Campaign{}, fmt.Errorf("generate campaign id: %w", err)
	}

	return Campaign{
		ID:                  campaignID,
		Manager:             manager,
		MinimumContribution: input.MinimumContribution,
		Metadata: Metadata{
			Title:          input.Title,
			Descriptor:     input.Descriptor,
			ImageReference: input.ImageReference,
		},
		Approvers: map[string]struct{}{},
		Requests:  []SpendingRequest{},
		CreatedAt: now().UTC(),
	}, nil
}

// IsApprover reports whether account has contributed at least the minimum.
func (c *Campaign) IsApprover(account string) bool {
	_, ok := c.Approvers[account]
	return ok
}

// Summary returns the campaign's read-only summary.
func (c *Campaign) Summary() Summary {
	return Summary{
		Title:               c.Metadata.Title,
		Descriptor:          c.Metadata.Descriptor,
		ImageReference:      c.Metadata.ImageReference,
		MinimumContribution: c.MinimumContribution,
		Balance:             c.Balance,
		RequestCount:        len(c.Requests),
		ApproverCount:       len(c.Approvers),
		Manager:             c.Manager,
	}
}

// Request returns the spending request at index.
func (c *Campaign) Request(index int) (SpendingRequest, error) {
	if index < 0 || index >= len(c.Requests) {
		return SpendingRequest{}, requestNotFound(index)
	}
	return c.Requests[index].Clone(), nil
}

// Contribute moves amount from sender into custody and grants approver status.
// Repeat contributions grow the balance but never duplicate membership.
func (c *Campaign) Contribute(ctx context.Context, funds Funds, sender string, amount int64) (ContributeResult, error) {
	if sender == "" {
		return ContributeResult{}, unauthorized("contribute")
	}
	if amount < c.MinimumContribution {
		return ContributeResult{}, apperrors.WithMetadata(
			apperrors.CodeInsufficientContribution,
			fmt.Sprintf("contribution %d is below minimum %d", amount, c.MinimumContribution),
			map[string]string{
				"Amount":  formatAmount(amount),
				"Minimum": formatAmount(c.MinimumContribution),
			},
		)
	}
	if amount > math.MaxInt64-c.Balance {
		return ContributeResult{}, apperrors.New(apperrors.CodeTransferFailed, "campaign custody would overflow")
	}
	if funds == nil {
		return ContributeResult{}, apperrors.New(apperrors.CodeTransferFailed, "funds are not configured")
	}
	if err := funds.CollectContribution(ctx, c.ID, sender, amount); err != nil {
		return ContributeResult{}, transferFailed("collect contribution", err)
	}

	c.Balance += amount
	joined := !c.IsApprover(sender)
	if joined {
		if c.Approvers == nil {
			c.Approvers = map[string]struct{}{}
		}
		c.Approvers[sender] = struct{}{}
	}
	return ContributeResult{Balance: c.Balance, BecameApprover: joined}, nil
}

// CreateRequest appends a spending request proposed by the manager and returns its index.
// The amount is not checked against the balance until finalization.
func (c *Campaign) CreateRequest(sender string, input RequestInput, now time.Time) (int, error) {
	if sender == "" || sender != c.Manager {
		return 0, unauthorized("create a spending request")
	}
	if input.Amount <= 0 {
		return 0, invalidParameter("amount", "request amount must be greater than zero")
	}
	if strings.TrimSpace(input.Recipient) == "" {
		return 0, invalidParameter("recipient", "request recipient is required")
	}

	index := len(c.Requests)
	c.Requests = append(c.Requests, SpendingRequest{
		Index:       index,
		Description: input.Description,
		Amount:      input.Amount,
		Recipient:   strings.TrimSpace(input.Recipient),
		ApprovedBy:  map[string]struct{}{},
		CreatedAt:   now.UTC(),
	})
	return index, nil
}

// ApproveRequest records sender's vote on the request at index.
func (c *Campaign) ApproveRequest(sender string, index int) error {
	if sender == "" || !c.IsApprover(sender) {
		return unauthorized("approve a spending request")
	}
	if index < 0 || index >= len(c.Requests) {
		return requestNotFound(index)
	}
	req := &c.Requests[index]
	if req.HasApproved(sender) {
		return apperrors.WithMetadata(
			apperrors.CodeDuplicateApproval,
			fmt.Sprintf("approver already voted on request %d", index),
			map[string]string{"Index": strconv.Itoa(index)},
		)
	}
	if req.Complete {
		return alreadyFinalized(index)
	}

	if req.ApprovedBy == nil {
		req.ApprovedBy = map[string]struct{}{}
	}
	req.ApprovedBy[sender] = struct{}{}
	req.ApprovalCount++
	return nil
}

// FinalizeRequest disburses an approved request and marks it complete.
//
// Quorum is measured against the approver set as it stands now, so
// contributors who joined after the request was created count toward the
// denominator.
func (c *Campaign) FinalizeRequest(ctx context.Context, funds Funds, sender string, index int, now time.Time) error {
	if sender == "" || sender != c.Manager {
		return unauthorized("finalize a spending request")
	}
	if index < 0 || index >= len(c.Requests) {
		return requestNotFound(index)
	}
	req := &c.Requests[index]
	if req.Complete {
		return alreadyFinalized(index)
	}
	if !QuorumReached(req.ApprovalCount, len(c.Approvers)) {
		return apperrors.WithMetadata(
			apperrors.CodeQuorumNotMet,
			fmt.Sprintf("request %d has %d approvals of %d approvers", index, req.ApprovalCount, len(c.Approvers)),
			map[string]string{
				"Index":     strconv.Itoa(index),
				"Approvals": strconv.Itoa(req.ApprovalCount),
				"Approvers": strconv.Itoa(len(c.Approvers)),
			},
		)
	}
	if req.Amount > c.Balance {
		return apperrors.WithMetadata(
			apperrors.CodeInsufficientFunds,
			fmt.Sprintf("request %d amount %d exceeds balance %d", index, req.Amount, c.Balance),
			map[string]string{
				"Index":   strconv.Itoa(index),
				"Amount":  formatAmount(req.Amount),
				"Balance": formatAmount(c.Balance),
			},
		)
	}
	if funds == nil {
		return apperrors.New(apperrors.CodeTransferFailed, "funds are not configured")
	}
	if err := funds.Disburse(ctx, c.ID, req.Recipient, req.Amount, index); err != nil {
		return transferFailed("disburse request", err)
	}

	c.Balance -= req.Amount
	req.Complete = true
	req.FinalizedAt = now.UTC()
	return nil
}

// Clone returns a deep copy that shares no maps or slices with c.
func (c Campaign) Clone() Campaign {
	out := c
	out.Approvers = make(map[string]struct{}, len(c.Approvers))
	for account := range c.Approvers {
		out.Approvers[account] = struct{}{}
	}
	out.Requests = make([]SpendingRequest, len(c.Requests))
	for i, req := range c.Requests {
		out.Requests[i] = req.Clone()
	}
	return out
}

// QuorumReached reports whether approvals form a strict majority of approvers.
func QuorumReached(approvals, approvers int) bool {
	return approvals*2 > approvers
}

func formatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

func unauthorized(action string) error {
	return apperrors.WithMetadata(
		apperrors.CodeUnauthorized,
		"caller is not allowed to "+action,
		map[string]string{"Action": action},
	)
}

func invalidParameter(field, message string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidParameter,
		message,
		map[string]string{"Field": field},
	)
}

func requestNotFound(index int) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("spending request %d not found", index),
		map[string]string{"Index": strconv.Itoa(index)},
	)
}

func alreadyFinalized(index int) error {
	return apperrors.WithMetadata(
		apperrors.CodeAlreadyFinalized,
		fmt.Sprintf("spending request %d already finalized", index),
		map[string]string{"Index": strconv.Itoa(index)},
	)
}

func transferFailed(step string, cause error) error {
	if apperrors.IsCode(cause, apperrors.CodeTransferFailed) {
		return cause
	}
	return apperrors.Wrap(apperrors.CodeTransferFailed, step+": "+cause.Error(), cause)
}
