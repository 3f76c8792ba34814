// Package ledger orchestrates crowdfund operations over storage.
//
// Each mutating call loads one campaign inside a storage transaction, runs
// the domain operation with the transaction's funds, and logs one line with
// its outcome. Transports call this package with an explicit caller account.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/registry"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/crowdfund/internal/services/crowdfund/ledger"

// Service exposes the campaign ledger and wallet operations.
type Service struct {
	registry     *registry.Registry
	registryOpts []registry.Option
	store        storage.Store
	clock        func() time.Time
	tracer       trace.Tracer
	logf         func(format string, args ...any)
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger overrides the mutation logger.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *Service) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// WithRegistryOptions forwards options to the campaign registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(s *Service) {
		s.registryOpts = append(s.registryOpts, opts...)
	}
}

// NewService builds a ledger service over store.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  time.Now,
		tracer: otel.Tracer(tracerName),
		logf:   log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry = registry.New(store, append([]registry.Option{registry.WithClock(s.clock)}, s.registryOpts...)...)
	return s
}

// CreateCampaign creates a campaign managed by caller.
func (s *Service) CreateCampaign(ctx context.Context, caller string, input domain.CreateCampaignInput) (handle storage.CampaignHandle, err error) {
	ctx, span := s.start(ctx, "CreateCampaign", "")
	defer func() { s.endMutation(span, "create_campaign", handle.ID, caller, err) }()

	return s.registry.CreateCampaign(ctx, input, caller)
}

// ListCampaigns returns every campaign handle in creation order.
func (s *Service) ListCampaigns(ctx context.Context) (handles []storage.CampaignHandle, err error) {
	ctx, span := s.start(ctx, "ListCampaigns", "")
	defer func() { s.endRead(span, err) }()

	return s.registry.ListCampaigns(ctx)
}

// ListCampaignsPage returns one page of campaign handles in creation order.
func (s *Service) ListCampaignsPage(ctx context.Context, pageSize int, pageToken string) (page storage.CampaignHandlePage, err error) {
	ctx, span := s.start(ctx, "ListCampaignsPage", "")
	defer func() { s.endRead(span, err) }()

	return s.registry.ListCampaignsPage(ctx, pageSize, pageToken)
}

// GetCampaignSummary returns the campaign summary tuple.
func (s *Service) GetCampaignSummary(ctx context.Context, campaignID string) (summary domain.Summary, err error) {
	ctx, span := s.start(ctx, "GetCampaignSummary", campaignID)
	defer func() { s.endRead(span, err) }()

	campaign, err := s.load(ctx, campaignID)
	if err != nil {
		return domain.Summary{}, err
	}
	return campaign.Summary(), nil
}

// Contribute moves amount from caller's wallet into the campaign.
func (s *Service) Contribute(ctx context.Context, caller, campaignID string, amount int64) (result domain.ContributeResult, err error) {
	ctx, span := s.start(ctx, "Contribute", campaignID)
	defer func() { s.endMutation(span, "contribute", campaignID, caller, err, "amount", formatInt(amount)) }()

	_, err = s.update(ctx, campaignID, func(c *domain.Campaign, funds domain.Funds) error {
		var applyErr error
		result, applyErr = c.Contribute(ctx, funds, caller, amount)
		return applyErr
	})
	if err != nil {
		return domain.ContributeResult{}, err
	}
	return result, nil
}

// CreateSpendingRequest appends a spending request proposed by caller.
func (s *Service) CreateSpendingRequest(ctx context.Context, caller, campaignID string, input domain.RequestInput) (req domain.SpendingRequest, err error) {
	ctx, span := s.start(ctx, "CreateSpendingRequest", campaignID)
	defer func() {
		s.endMutation(span, "create_request", campaignID, caller, err, "amount", formatInt(input.Amount), "index", strconv.Itoa(req.Index))
	}()

	var index int
	updated, err := s.update(ctx, campaignID, func(c *domain.Campaign, _ domain.Funds) error {
		var applyErr error
		index, applyErr = c.CreateRequest(caller, input, s.clock())
		return applyErr
	})
	if err != nil {
		return domain.SpendingRequest{}, err
	}
	return updated.Request(index)
}

// ApproveSpendingRequest records caller's approval of the request at index.
func (s *Service) ApproveSpendingRequest(ctx context.Context, caller, campaignID string, index int) (req domain.SpendingRequest, err error) {
	ctx, span := s.start(ctx, "ApproveSpendingRequest", campaignID)
	defer func() { s.endMutation(span, "approve_request", campaignID, caller, err, "index", strconv.Itoa(index)) }()

	updated, err := s.update(ctx, campaignID, func(c *domain.Campaign, _ domain.Funds) error {
		return c.ApproveRequest(caller, index)
	})
	if err != nil {
		return domain.SpendingRequest{}, err
	}
	return updated.Request(index)
}

// FinalizeSpendingRequest disburses the request at index once quorum is met.
func (s *Service) FinalizeSpendingRequest(ctx context.Context, caller, campaignID string, index int) (req domain.SpendingRequest, err error) {
	ctx, span := s.start(ctx, "FinalizeSpendingRequest", campaignID)
	defer func() { s.endMutation(span, "finalize_request", campaignID, caller, err, "index", strconv.Itoa(index)) }()

	updated, err := s.update(ctx, campaignID, func(c *domain.Campaign, funds domain.Funds) error {
		return c.FinalizeRequest(ctx, funds, caller, index, s.clock())
	})
	if err != nil {
		return domain.SpendingRequest{}, err
	}
	return updated.Request(index)
}

// GetSpendingRequest returns the request at index.
func (s *Service) GetSpendingRequest(ctx context.Context, campaignID string, index int) (req domain.SpendingRequest, err error) {
	ctx, span := s.start(ctx, "GetSpendingRequest", campaignID)
	defer func() { s.endRead(span, err) }()

	campaign, err := s.load(ctx, campaignID)
	if err != nil {
		return domain.SpendingRequest{}, err
	}
	return campaign.Request(index)
}

// ListSpendingRequests returns every request in index order.
func (s *Service) ListSpendingRequests(ctx context.Context, campaignID string) (requests []domain.SpendingRequest, err error) {
	ctx, span := s.start(ctx, "ListSpendingRequests", campaignID)
	defer func() { s.endRead(span, err) }()

	campaign, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	requests = make([]domain.SpendingRequest, len(campaign.Requests))
	for i, req := range campaign.Requests {
		requests[i] = req.Clone()
	}
	return requests, nil
}

// IsApprover reports whether account is an approver of the campaign.
func (s *Service) IsApprover(ctx context.Context, campaignID, account string) (ok bool, err error) {
	ctx, span := s.start(ctx, "IsApprover", campaignID)
	defer func() { s.endRead(span, err) }()

	campaign, err := s.load(ctx, campaignID)
	if err != nil {
		return false, err
	}
	return campaign.IsApprover(strings.TrimSpace(account)), nil
}

// GetCampaignLedger returns the campaign's transfers in applied order.
func (s *Service) GetCampaignLedger(ctx context.Context, campaignID string) (entries []storage.LedgerEntry, err error) {
	ctx, span := s.start(ctx, "GetCampaignLedger", campaignID)
	defer func() { s.endRead(span, err) }()

	campaignID, err = requireCampaignID(campaignID)
	if err != nil {
		return nil, err
	}
	entries, err = s.store.ListLedgerEntries(ctx, campaignID)
	if err != nil {
		return nil, mapStorageError(err, campaignID)
	}
	return entries, nil
}

// DepositFunds credits amount to caller's own wallet.
func (s *Service) DepositFunds(ctx context.Context, caller string, amount int64) (wallet storage.Wallet, err error) {
	ctx, span := s.start(ctx, "DepositFunds", "")
	defer func() { s.endMutation(span, "deposit", "", caller, err, "amount", formatInt(amount)) }()

	caller = strings.TrimSpace(caller)
	if caller == "" {
		return storage.Wallet{}, apperrors.WithMetadata(
			apperrors.CodeUnauthorized,
			"caller is not allowed to deposit funds",
			map[string]string{"Action": "deposit funds"},
		)
	}
	if amount <= 0 {
		return storage.Wallet{}, apperrors.WithMetadata(
			apperrors.CodeInvalidParameter,
			"deposit amount must be greater than zero",
			map[string]string{"Field": "amount"},
		)
	}
	wallet, err = s.store.DepositFunds(ctx, caller, amount)
	if err != nil {
		if errors.Is(err, storage.ErrBalanceOverflow) {
			return storage.Wallet{}, apperrors.Wrap(apperrors.CodeTransferFailed, "wallet balance would overflow", err)
		}
		return storage.Wallet{}, fmt.Errorf("deposit funds: %w", err)
	}
	return wallet, nil
}

// GetWallet returns owner's wallet balance.
func (s *Service) GetWallet(ctx context.Context, owner string) (wallet storage.Wallet, err error) {
	ctx, span := s.start(ctx, "GetWallet", "")
	defer func() { s.endRead(span, err) }()

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return storage.Wallet{}, apperrors.WithMetadata(
			apperrors.CodeInvalidParameter,
			"wallet owner is required",
			map[string]string{"Field": "owner"},
		)
	}
	return s.store.GetWallet(ctx, owner)
}

func (s *Service) load(ctx context.Context, campaignID string) (domain.Campaign, error) {
	campaignID, err := requireCampaignID(campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, mapStorageError(err, campaignID)
	}
	return campaign, nil
}

func (s *Service) update(ctx context.Context, campaignID string, apply storage.UpdateFunc) (domain.Campaign, error) {
	campaignID, err := requireCampaignID(campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	campaign, err := s.store.UpdateCampaign(ctx, campaignID, apply)
	if err != nil {
		return domain.Campaign{}, mapStorageError(err, campaignID)
	}
	return campaign, nil
}

func (s *Service) start(ctx context.Context, operation, campaignID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("crowdfund.operation", operation)}
	if campaignID != "" {
		attrs = append(attrs, attribute.String("crowdfund.campaign_id", campaignID))
	}
	return s.tracer.Start(ctx, "crowdfund."+operation, trace.WithAttributes(attrs...))
}

func (s *Service) endRead(span trace.Span, err error) {
	recordOutcome(span, err)
	span.End()
}

// endMutation closes the span and writes the mutation log line.
// extra holds alternating key and value pairs.
func (s *Service) endMutation(span trace.Span, op, campaignID, caller string, err error, extra ...string) {
	outcome := recordOutcome(span, err)
	span.End()

	var b strings.Builder
	fmt.Fprintf(&b, "op=%s campaign_id=%s caller=%s outcome=%s", op, valueOrDash(campaignID), valueOrDash(caller), outcome)
	for i := 0; i+1 < len(extra); i += 2 {
		fmt.Fprintf(&b, " %s=%s", extra[i], extra[i+1])
	}
	s.logf("%s", b.String())
}

func recordOutcome(span trace.Span, err error) string {
	if err == nil {
		span.SetAttributes(attribute.String("crowdfund.outcome", "OK"))
		return "OK"
	}
	outcome := string(apperrors.GetCode(err))
	span.SetAttributes(attribute.String("crowdfund.outcome", outcome))
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, outcome)
	return outcome
}

func requireCampaignID(campaignID string) (string, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return "", apperrors.WithMetadata(
			apperrors.CodeInvalidParameter,
			"campaign id is required",
			map[string]string{"Field": "campaign_id"},
		)
	}
	return campaignID, nil
}

func mapStorageError(err error, campaignID string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.WrapWithMetadata(
			apperrors.CodeCampaignNotFound,
			fmt.Sprintf("campaign %s not found", campaignID),
			map[string]string{"CampaignID": campaignID},
			err,
		)
	}
	return err
}

func formatInt(value int64) string {
	return strconv.FormatInt(value, 10)
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
