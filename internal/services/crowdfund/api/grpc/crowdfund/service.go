package crowdfund

import (
	"context"
	"strings"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/grpc/pagination"
	"github.com/louisbranch/crowdfund/internal/platform/requestctx"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/ledger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultListCampaignsPageSize = 10
	maxListCampaignsPageSize     = 50
)

// Service exposes crowdfund.v1 gRPC operations.
type Service struct {
	crowdfundv1.UnimplementedCrowdfundServiceServer
	ledger *ledger.Service
}

// NewService creates a crowdfund service backed by the ledger.
func NewService(svc *ledger.Service) *Service {
	return &Service{ledger: svc}
}

// CreateCampaign creates a campaign managed by the caller.
func (s *Service) CreateCampaign(ctx context.Context, in *crowdfundv1.CreateCampaignRequest) (*crowdfundv1.CreateCampaignResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "create campaign request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	handle, err := s.ledger.CreateCampaign(ctx, requestctx.CallerIDFromContext(ctx), domain.CreateCampaignInput{
		Title:               in.Title,
		Descriptor:          in.Descriptor,
		ImageReference:      in.ImageReference,
		MinimumContribution: in.MinimumContribution,
	})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.CreateCampaignResponse{Campaign: HandleToProto(handle)}, nil
}

// ListCampaigns returns one page of campaign handles in creation order.
func (s *Service) ListCampaigns(ctx context.Context, in *crowdfundv1.ListCampaignsRequest) (*crowdfundv1.ListCampaignsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list campaigns request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	pageSize := pagination.ClampPageSize(in.PageSize, pagination.PageSizeConfig{
		Default: defaultListCampaignsPageSize,
		Max:     maxListCampaignsPageSize,
	})
	page, err := s.ledger.ListCampaignsPage(ctx, pageSize, strings.TrimSpace(in.PageToken))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &crowdfundv1.ListCampaignsResponse{
		Campaigns:     make([]*crowdfundv1.CampaignHandle, 0, len(page.Handles)),
		NextPageToken: page.NextPageToken,
	}
	for _, handle := range page.Handles {
		resp.Campaigns = append(resp.Campaigns, HandleToProto(handle))
	}
	return resp, nil
}

// GetCampaignSummary returns the campaign summary tuple.
func (s *Service) GetCampaignSummary(ctx context.Context, in *crowdfundv1.GetCampaignSummaryRequest) (*crowdfundv1.GetCampaignSummaryResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get campaign summary request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	summary, err := s.ledger.GetCampaignSummary(ctx, in.CampaignID)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.GetCampaignSummaryResponse{Summary: SummaryToProto(summary)}, nil
}

// Contribute moves value from the caller's wallet into the campaign.
func (s *Service) Contribute(ctx context.Context, in *crowdfundv1.ContributeRequest) (*crowdfundv1.ContributeResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "contribute request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	result, err := s.ledger.Contribute(ctx, requestctx.CallerIDFromContext(ctx), in.CampaignID, in.Amount)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.ContributeResponse{
		Balance:        result.Balance,
		BecameApprover: result.BecameApprover,
	}, nil
}

// CreateSpendingRequest appends a spending request proposed by the manager.
func (s *Service) CreateSpendingRequest(ctx context.Context, in *crowdfundv1.CreateSpendingRequestRequest) (*crowdfundv1.CreateSpendingRequestResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "create spending request request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	req, err := s.ledger.CreateSpendingRequest(ctx, requestctx.CallerIDFromContext(ctx), in.CampaignID, domain.RequestInput{
		Description: in.Description,
		Amount:      in.Amount,
		Recipient:   in.Recipient,
	})
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.CreateSpendingRequestResponse{Request: RequestToProto(req)}, nil
}

// ApproveSpendingRequest records the caller's approval.
func (s *Service) ApproveSpendingRequest(ctx context.Context, in *crowdfundv1.ApproveSpendingRequestRequest) (*crowdfundv1.ApproveSpendingRequestResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "approve spending request request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	req, err := s.ledger.ApproveSpendingRequest(ctx, requestctx.CallerIDFromContext(ctx), in.CampaignID, int(in.Index))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.ApproveSpendingRequestResponse{Request: RequestToProto(req)}, nil
}

// FinalizeSpendingRequest disburses an approved request.
func (s *Service) FinalizeSpendingRequest(ctx context.Context, in *crowdfundv1.FinalizeSpendingRequestRequest) (*crowdfundv1.FinalizeSpendingRequestResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "finalize spending request request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	req, err := s.ledger.FinalizeSpendingRequest(ctx, requestctx.CallerIDFromContext(ctx), in.CampaignID, int(in.Index))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.FinalizeSpendingRequestResponse{Request: RequestToProto(req)}, nil
}

// GetSpendingRequest returns one request by index.
func (s *Service) GetSpendingRequest(ctx context.Context, in *crowdfundv1.GetSpendingRequestRequest) (*crowdfundv1.GetSpendingRequestResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get spending request request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	req, err := s.ledger.GetSpendingRequest(ctx, in.CampaignID, int(in.Index))
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.GetSpendingRequestResponse{Request: RequestToProto(req)}, nil
}

// ListSpendingRequests returns every request in index order.
func (s *Service) ListSpendingRequests(ctx context.Context, in *crowdfundv1.ListSpendingRequestsRequest) (*crowdfundv1.ListSpendingRequestsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list spending requests request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	requests, err := s.ledger.ListSpendingRequests(ctx, in.CampaignID)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &crowdfundv1.ListSpendingRequestsResponse{
		Requests: make([]*crowdfundv1.SpendingRequest, 0, len(requests)),
	}
	for _, req := range requests {
		resp.Requests = append(resp.Requests, RequestToProto(req))
	}
	return resp, nil
}

// IsApprover reports whether an account may vote on the campaign's requests.
func (s *Service) IsApprover(ctx context.Context, in *crowdfundv1.IsApproverRequest) (*crowdfundv1.IsApproverResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "is approver request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	account := strings.TrimSpace(in.Account)
	if account == "" {
		account = requestctx.CallerIDFromContext(ctx)
	}
	if account == "" {
		return nil, status.Error(codes.InvalidArgument, "account is required")
	}
	ok, err := s.ledger.IsApprover(ctx, in.CampaignID, account)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.IsApproverResponse{Approver: ok}, nil
}

// GetCampaignLedger returns the campaign's recorded transfers.
func (s *Service) GetCampaignLedger(ctx context.Context, in *crowdfundv1.GetCampaignLedgerRequest) (*crowdfundv1.GetCampaignLedgerResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get campaign ledger request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	entries, err := s.ledger.GetCampaignLedger(ctx, in.CampaignID)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	resp := &crowdfundv1.GetCampaignLedgerResponse{
		Entries: make([]*crowdfundv1.LedgerEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, LedgerEntryToProto(entry))
	}
	return resp, nil
}

// DepositFunds credits the caller's wallet.
func (s *Service) DepositFunds(ctx context.Context, in *crowdfundv1.DepositFundsRequest) (*crowdfundv1.DepositFundsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "deposit funds request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	wallet, err := s.ledger.DepositFunds(ctx, requestctx.CallerIDFromContext(ctx), in.Amount)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.DepositFundsResponse{Wallet: WalletToProto(wallet)}, nil
}

// GetWallet returns a wallet balance; the caller's own when owner is empty.
func (s *Service) GetWallet(ctx context.Context, in *crowdfundv1.GetWalletRequest) (*crowdfundv1.GetWalletResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get wallet request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		owner = requestctx.CallerIDFromContext(ctx)
	}
	wallet, err := s.ledger.GetWallet(ctx, owner)
	if err != nil {
		return nil, handleError(ctx, err)
	}
	return &crowdfundv1.GetWalletResponse{Wallet: WalletToProto(wallet)}, nil
}

func (s *Service) ready() error {
	if s == nil || s.ledger == nil {
		return status.Error(codes.Internal, "crowdfund ledger is not configured")
	}
	return nil
}

func handleError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, requestctx.LocaleFromContext(ctx))
}
