package crowdfundv1

import (
	"context"

	"google.golang.org/grpc"
)

// CrowdfundServiceClient is the client API for CrowdfundService.
type CrowdfundServiceClient interface {
	CreateCampaign(ctx context.Context, in *CreateCampaignRequest, opts ...grpc.CallOption) (*CreateCampaignResponse, error)
	ListCampaigns(ctx context.Context, in *ListCampaignsRequest, opts ...grpc.CallOption) (*ListCampaignsResponse, error)
	GetCampaignSummary(ctx context.Context, in *GetCampaignSummaryRequest, opts ...grpc.CallOption) (*GetCampaignSummaryResponse, error)
	Contribute(ctx context.Context, in *ContributeRequest, opts ...grpc.CallOption) (*ContributeResponse, error)
	CreateSpendingRequest(ctx context.Context, in *CreateSpendingRequestRequest, opts ...grpc.CallOption) (*CreateSpendingRequestResponse, error)
	ApproveSpendingRequest(ctx context.Context, in *ApproveSpendingRequestRequest, opts ...grpc.CallOption) (*ApproveSpendingRequestResponse, error)
	FinalizeSpendingRequest(ctx context.Context, in *FinalizeSpendingRequestRequest, opts ...grpc.CallOption) (*FinalizeSpendingRequestResponse, error)
	GetSpendingRequest(ctx context.Context, in *GetSpendingRequestRequest, opts ...grpc.CallOption) (*GetSpendingRequestResponse, error)
	ListSpendingRequests(ctx context.Context, in *ListSpendingRequestsRequest, opts ...grpc.CallOption) (*ListSpendingRequestsResponse, error)
	IsApprover(ctx context.Context, in *IsApproverRequest, opts ...grpc.CallOption) (*IsApproverResponse, error)
	GetCampaignLedger(ctx context.Context, in *GetCampaignLedgerRequest, opts ...grpc.CallOption) (*GetCampaignLedgerResponse, error)
	DepositFunds(ctx context.Context, in *DepositFundsRequest, opts ...grpc.CallOption) (*DepositFundsResponse, error)
	GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error)
}

type crowdfundServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCrowdfundServiceClient returns a client that sends JSON-encoded calls over cc.
func NewCrowdfundServiceClient(cc grpc.ClientConnInterface) CrowdfundServiceClient {
	return &crowdfundServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, fullMethod string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *crowdfundServiceClient) CreateCampaign(ctx context.Context, in *CreateCampaignRequest, opts ...grpc.CallOption) (*CreateCampaignResponse, error) {
	return invoke[CreateCampaignResponse](ctx, c.cc, CrowdfundService_CreateCampaign_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) ListCampaigns(ctx context.Context, in *ListCampaignsRequest, opts ...grpc.CallOption) (*ListCampaignsResponse, error) {
	return invoke[ListCampaignsResponse](ctx, c.cc, CrowdfundService_ListCampaigns_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) GetCampaignSummary(ctx context.Context, in *GetCampaignSummaryRequest, opts ...grpc.CallOption) (*GetCampaignSummaryResponse, error) {
	return invoke[GetCampaignSummaryResponse](ctx, c.cc, CrowdfundService_GetCampaignSummary_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) Contribute(ctx context.Context, in *ContributeRequest, opts ...grpc.CallOption) (*ContributeResponse, error) {
	return invoke[ContributeResponse](ctx, c.cc, CrowdfundService_Contribute_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) CreateSpendingRequest(ctx context.Context, in *CreateSpendingRequestRequest, opts ...grpc.CallOption) (*CreateSpendingRequestResponse, error) {
	return invoke[CreateSpendingRequestResponse](ctx, c.cc, CrowdfundService_CreateSpendingRequest_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) ApproveSpendingRequest(ctx context.Context, in *ApproveSpendingRequestRequest, opts ...grpc.CallOption) (*ApproveSpendingRequestResponse, error) {
	return invoke[ApproveSpendingRequestResponse](ctx, c.cc, CrowdfundService_ApproveSpendingRequest_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) FinalizeSpendingRequest(ctx context.Context, in *FinalizeSpendingRequestRequest, opts ...grpc.CallOption) (*FinalizeSpendingRequestResponse, error) {
	return invoke[FinalizeSpendingRequestResponse](ctx, c.cc, CrowdfundService_FinalizeSpendingRequest_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) GetSpendingRequest(ctx context.Context, in *GetSpendingRequestRequest, opts ...grpc.CallOption) (*GetSpendingRequestResponse, error) {
	return invoke[GetSpendingRequestResponse](ctx, c.cc, CrowdfundService_GetSpendingRequest_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) ListSpendingRequests(ctx context.Context, in *ListSpendingRequestsRequest, opts ...grpc.CallOption) (*ListSpendingRequestsResponse, error) {
	return invoke[ListSpendingRequestsResponse](ctx, c.cc, CrowdfundService_ListSpendingRequests_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) IsApprover(ctx context.Context, in *IsApproverRequest, opts ...grpc.CallOption) (*IsApproverResponse, error) {
	return invoke[IsApproverResponse](ctx, c.cc, CrowdfundService_IsApprover_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) GetCampaignLedger(ctx context.Context, in *GetCampaignLedgerRequest, opts ...grpc.CallOption) (*GetCampaignLedgerResponse, error) {
	return invoke[GetCampaignLedgerResponse](ctx, c.cc, CrowdfundService_GetCampaignLedger_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) DepositFunds(ctx context.Context, in *DepositFundsRequest, opts ...grpc.CallOption) (*DepositFundsResponse, error) {
	return invoke[DepositFundsResponse](ctx, c.cc, CrowdfundService_DepositFunds_FullMethodName, in, opts)
}

func (c *crowdfundServiceClient) GetWallet(ctx context.Context, in *GetWalletRequest, opts ...grpc.CallOption) (*GetWalletResponse, error) {
	return invoke[GetWalletResponse](ctx, c.cc, CrowdfundService_GetWallet_FullMethodName, in, opts)
}
