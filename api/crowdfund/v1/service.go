package crowdfundv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "crowdfund.v1.CrowdfundService"

const (
	CrowdfundService_CreateCampaign_FullMethodName          = "/crowdfund.v1.CrowdfundService/CreateCampaign"
	CrowdfundService_ListCampaigns_FullMethodName           = "/crowdfund.v1.CrowdfundService/ListCampaigns"
	CrowdfundService_GetCampaignSummary_FullMethodName      = "/crowdfund.v1.CrowdfundService/GetCampaignSummary"
	CrowdfundService_Contribute_FullMethodName              = "/crowdfund.v1.CrowdfundService/Contribute"
	CrowdfundService_CreateSpendingRequest_FullMethodName   = "/crowdfund.v1.CrowdfundService/CreateSpendingRequest"
	CrowdfundService_ApproveSpendingRequest_FullMethodName  = "/crowdfund.v1.CrowdfundService/ApproveSpendingRequest"
	CrowdfundService_FinalizeSpendingRequest_FullMethodName = "/crowdfund.v1.CrowdfundService/FinalizeSpendingRequest"
	CrowdfundService_GetSpendingRequest_FullMethodName      = "/crowdfund.v1.CrowdfundService/GetSpendingRequest"
	CrowdfundService_ListSpendingRequests_FullMethodName    = "/crowdfund.v1.CrowdfundService/ListSpendingRequests"
	CrowdfundService_IsApprover_FullMethodName              = "/crowdfund.v1.CrowdfundService/IsApprover"
	CrowdfundService_GetCampaignLedger_FullMethodName       = "/crowdfund.v1.CrowdfundService/GetCampaignLedger"
	CrowdfundService_DepositFunds_FullMethodName            = "/crowdfund.v1.CrowdfundService/DepositFunds"
	CrowdfundService_GetWallet_FullMethodName               = "/crowdfund.v1.CrowdfundService/GetWallet"
)

// CrowdfundServiceServer is the server API for CrowdfundService.
type CrowdfundServiceServer interface {
	CreateCampaign(context.Context, *CreateCampaignRequest) (*CreateCampaignResponse, error)
	ListCampaigns(context.Context, *ListCampaignsRequest) (*ListCampaignsResponse, error)
	GetCampaignSummary(context.Context, *GetCampaignSummaryRequest) (*GetCampaignSummaryResponse, error)
	Contribute(context.Context, *ContributeRequest) (*ContributeResponse, error)
	CreateSpendingRequest(context.Context, *CreateSpendingRequestRequest) (*CreateSpendingRequestResponse, error)
	ApproveSpendingRequest(context.Context, *ApproveSpendingRequestRequest) (*ApproveSpendingRequestResponse, error)
	FinalizeSpendingRequest(context.Context, *FinalizeSpendingRequestRequest) (*FinalizeSpendingRequestResponse, error)
	GetSpendingRequest(context.Context, *GetSpendingRequestRequest) (*GetSpendingRequestResponse, error)
	ListSpendingRequests(context.Context, *ListSpendingRequestsRequest) (*ListSpendingRequestsResponse, error)
	IsApprover(context.Context, *IsApproverRequest) (*IsApproverResponse, error)
	GetCampaignLedger(context.Context, *GetCampaignLedgerRequest) (*GetCampaignLedgerResponse, error)
	DepositFunds(context.Context, *DepositFundsRequest) (*DepositFundsResponse, error)
	GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error)
	mustEmbedUnimplementedCrowdfundServiceServer()
}

// UnimplementedCrowdfundServiceServer must be embedded by implementations.
type UnimplementedCrowdfundServiceServer struct{}

func (UnimplementedCrowdfundServiceServer) CreateCampaign(context.Context, *CreateCampaignRequest) (*CreateCampaignResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCampaign not implemented")
}
func (UnimplementedCrowdfundServiceServer) ListCampaigns(context.Context, *ListCampaignsRequest) (*ListCampaignsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCampaigns not implemented")
}
func (UnimplementedCrowdfundServiceServer) GetCampaignSummary(context.Context, *GetCampaignSummaryRequest) (*GetCampaignSummaryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCampaignSummary not implemented")
}
func (UnimplementedCrowdfundServiceServer) Contribute(context.Context, *ContributeRequest) (*ContributeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Contribute not implemented")
}
func (UnimplementedCrowdfundServiceServer) CreateSpendingRequest(context.Context, *CreateSpendingRequestRequest) (*CreateSpendingRequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSpendingRequest not implemented")
}
func (UnimplementedCrowdfundServiceServer) ApproveSpendingRequest(context.Context, *ApproveSpendingRequestRequest) (*ApproveSpendingRequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveSpendingRequest not implemented")
}
func (UnimplementedCrowdfundServiceServer) FinalizeSpendingRequest(context.Context, *FinalizeSpendingRequestRequest) (*FinalizeSpendingRequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FinalizeSpendingRequest not implemented")
}
func (UnimplementedCrowdfundServiceServer) GetSpendingRequest(context.Context, *GetSpendingRequestRequest) (*GetSpendingRequestResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSpendingRequest not implemented")
}
func (UnimplementedCrowdfundServiceServer) ListSpendingRequests(context.Context, *ListSpendingRequestsRequest) (*ListSpendingRequestsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSpendingRequests not implemented")
}
func (UnimplementedCrowdfundServiceServer) IsApprover(context.Context, *IsApproverRequest) (*IsApproverResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IsApprover not implemented")
}
func (UnimplementedCrowdfundServiceServer) GetCampaignLedger(context.Context, *GetCampaignLedgerRequest) (*GetCampaignLedgerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCampaignLedger not implemented")
}
func (UnimplementedCrowdfundServiceServer) DepositFunds(context.Context, *DepositFundsRequest) (*DepositFundsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DepositFunds not implemented")
}
func (UnimplementedCrowdfundServiceServer) GetWallet(context.Context, *GetWalletRequest) (*GetWalletResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWallet not implemented")
}
func (UnimplementedCrowdfundServiceServer) mustEmbedUnimplementedCrowdfundServiceServer() {}

// RegisterCrowdfundServiceServer registers srv on s.
func RegisterCrowdfundServiceServer(s grpc.ServiceRegistrar, srv CrowdfundServiceServer) {
	s.RegisterService(&CrowdfundService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(CrowdfundServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(CrowdfundServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CrowdfundService_ServiceDesc is the grpc.ServiceDesc for CrowdfundService.
var CrowdfundService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CrowdfundServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateCampaign", Handler: unaryHandler(CrowdfundService_CreateCampaign_FullMethodName, CrowdfundServiceServer.CreateCampaign)},
		{MethodName: "ListCampaigns", Handler: unaryHandler(CrowdfundService_ListCampaigns_FullMethodName, CrowdfundServiceServer.ListCampaigns)},
		{MethodName: "GetCampaignSummary", Handler: unaryHandler(CrowdfundService_GetCampaignSummary_FullMethodName, CrowdfundServiceServer.GetCampaignSummary)},
		{MethodName: "Contribute", Handler: unaryHandler(CrowdfundService_Contribute_FullMethodName, CrowdfundServiceServer.Contribute)},
		{MethodName: "CreateSpendingRequest", Handler: unaryHandler(CrowdfundService_CreateSpendingRequest_FullMethodName, CrowdfundServiceServer.CreateSpendingRequest)},
		{MethodName: "ApproveSpendingRequest", Handler: unaryHandler(CrowdfundService_ApproveSpendingRequest_FullMethodName, CrowdfundServiceServer.ApproveSpendingRequest)},
		{MethodName: "FinalizeSpendingRequest", Handler: unaryHandler(CrowdfundService_FinalizeSpendingRequest_FullMethodName, CrowdfundServiceServer.FinalizeSpendingRequest)},
		{MethodName: "GetSpendingRequest", Handler: unaryHandler(CrowdfundService_GetSpendingRequest_FullMethodName, CrowdfundServiceServer.GetSpendingRequest)},
		{MethodName: "ListSpendingRequests", Handler: unaryHandler(CrowdfundService_ListSpendingRequests_FullMethodName, CrowdfundServiceServer.ListSpendingRequests)},
		{MethodName: "IsApprover", Handler: unaryHandler(CrowdfundService_IsApprover_FullMethodName, CrowdfundServiceServer.IsApprover)},
		{MethodName: "GetCampaignLedger", Handler: unaryHandler(CrowdfundService_GetCampaignLedger_FullMethodName, CrowdfundServiceServer.GetCampaignLedger)},
		{MethodName: "DepositFunds", Handler: unaryHandler(CrowdfundService_DepositFunds_FullMethodName, CrowdfundServiceServer.DepositFunds)},
		{MethodName: "GetWallet", Handler: unaryHandler(CrowdfundService_GetWallet_FullMethodName, CrowdfundServiceServer.GetWallet)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "crowdfund/v1/service",
}

// IsReadMethod reports whether fullMethod only reads ledger state.
func IsReadMethod(fullMethod string) bool {
	switch fullMethod {
	case CrowdfundService_ListCampaigns_FullMethodName,
		CrowdfundService_GetCampaignSummary_FullMethodName,
		CrowdfundService_GetSpendingRequest_FullMethodName,
		CrowdfundService_ListSpendingRequests_FullMethodName,
		CrowdfundService_IsApprover_FullMethodName,
		CrowdfundService_GetCampaignLedger_FullMethodName,
		CrowdfundService_GetWallet_FullMethodName:
		return true
	default:
		return false
	}
}
