package crowdfundctl

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"flag"
	"strings"
	"testing"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeClient struct {
	crowdfundv1.CrowdfundServiceClient

	created   *crowdfundv1.CreateCampaignRequest
	listCalls []*crowdfundv1.ListCampaignsRequest
	contrib   *crowdfundv1.ContributeRequest
	request   *crowdfundv1.CreateSpendingRequestRequest
	finalize  *crowdfundv1.FinalizeSpendingRequestRequest
	getIndex  int32
	walletReq *crowdfundv1.GetWalletRequest
	err       error
}

func (f *fakeClient) CreateCampaign(_ context.Context, in *crowdfundv1.CreateCampaignRequest, _ ...grpc.CallOption) (*crowdfundv1.CreateCampaignResponse, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &crowdfundv1.CreateCampaignResponse{Campaign: &crowdfundv1.CampaignHandle{CampaignID: "camp-1", Title: in.Title}}, nil
}

func (f *fakeClient) ListCampaigns(_ context.Context, in *crowdfundv1.ListCampaignsRequest, _ ...grpc.CallOption) (*crowdfundv1.ListCampaignsResponse, error) {
	copied := *in
	f.listCalls = append(f.listCalls, &copied)
	if in.PageToken == "" {
		return &crowdfundv1.ListCampaignsResponse{
			Campaigns:     []*crowdfundv1.CampaignHandle{{CampaignID: "camp-1"}},
			NextPageToken: "next",
		}, nil
	}
	return &crowdfundv1.ListCampaignsResponse{Campaigns: []*crowdfundv1.CampaignHandle{{CampaignID: "camp-2"}}}, nil
}

func (f *fakeClient) Contribute(_ context.Context, in *crowdfundv1.ContributeRequest, _ ...grpc.CallOption) (*crowdfundv1.ContributeResponse, error) {
	f.contrib = in
	return &crowdfundv1.ContributeResponse{Balance: in.Amount, BecameApprover: true}, nil
}

func (f *fakeClient) CreateSpendingRequest(_ context.Context, in *crowdfundv1.CreateSpendingRequestRequest, _ ...grpc.CallOption) (*crowdfundv1.CreateSpendingRequestResponse, error) {
	f.request = in
	return &crowdfundv1.CreateSpendingRequestResponse{Request: &crowdfundv1.SpendingRequest{Description: in.Description, Amount: in.Amount}}, nil
}

func (f *fakeClient) FinalizeSpendingRequest(_ context.Context, in *crowdfundv1.FinalizeSpendingRequestRequest, _ ...grpc.CallOption) (*crowdfundv1.FinalizeSpendingRequestResponse, error) {
	f.finalize = in
	if f.err != nil {
		return nil, f.err
	}
	return &crowdfundv1.FinalizeSpendingRequestResponse{Request: &crowdfundv1.SpendingRequest{Index: in.Index, Complete: true}}, nil
}

func (f *fakeClient) GetSpendingRequest(_ context.Context, in *crowdfundv1.GetSpendingRequestRequest, _ ...grpc.CallOption) (*crowdfundv1.GetSpendingRequestResponse, error) {
	f.getIndex = in.Index
	return &crowdfundv1.GetSpendingRequestResponse{Request: &crowdfundv1.SpendingRequest{Index: in.Index}}, nil
}

func (f *fakeClient) GetWallet(_ context.Context, in *crowdfundv1.GetWalletRequest, _ ...grpc.CallOption) (*crowdfundv1.GetWalletResponse, error) {
	f.walletReq = in
	return &crowdfundv1.GetWalletResponse{Wallet: &crowdfundv1.Wallet{Owner: in.Owner, Balance: 7}}, nil
}

func execute(t *testing.T, client *fakeClient, command string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(context.Background(), client, Config{Command: command, Args: args}, &out)
	return out.String(), err
}

func TestParseConfigSplitsCommand(t *testing.T) {
	t.Setenv("CROWDFUND_ADDR", "example:1")
	cfg, err := ParseConfig(flag.NewFlagSet("crowdfundctl", flag.ContinueOnError), []string{"-as", "alice", "contribute", "camp-1", "10"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "example:1" || cfg.As != "alice" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Command != "contribute" || strings.Join(cfg.Args, " ") != "camp-1 10" {
		t.Fatalf("command = %q args = %v", cfg.Command, cfg.Args)
	}
	if cfg.Timeout <= 0 {
		t.Fatal("expected default timeout")
	}
}

func TestParseConfigRequiresCommand(t *testing.T) {
	if _, err := ParseConfig(flag.NewFlagSet("crowdfundctl", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected missing command error")
	}
}

func TestCreatePrintsHandle(t *testing.T) {
	client := &fakeClient{}
	out, err := execute(t, client, "create", "-title", "Park", "-minimum", "50")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.created.Title != "Park" || client.created.MinimumContribution != 50 {
		t.Fatalf("unexpected request %+v", client.created)
	}
	var handle crowdfundv1.CampaignHandle
	if err := json.Unmarshal([]byte(out), &handle); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if handle.CampaignID != "camp-1" {
		t.Fatalf("campaign id = %q, want camp-1", handle.CampaignID)
	}
}

func TestListAllFollowsPageTokens(t *testing.T) {
	client := &fakeClient{}
	out, err := execute(t, client, "list", "-all", "-page-size", "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(client.listCalls) != 2 || client.listCalls[1].PageToken != "next" || client.listCalls[0].PageSize != 1 {
		t.Fatalf("unexpected list calls %+v", client.listCalls)
	}
	if !strings.Contains(out, "camp-1") || !strings.Contains(out, "camp-2") {
		t.Fatalf("expected both campaigns in output, got %s", out)
	}
}

func TestContributeParsesAmount(t *testing.T) {
	client := &fakeClient{}
	if _, err := execute(t, client, "contribute", "camp-1", "250"); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if client.contrib.CampaignID != "camp-1" || client.contrib.Amount != 250 {
		t.Fatalf("unexpected request %+v", client.contrib)
	}
	if _, err := execute(t, client, "contribute", "camp-1", "lots"); err == nil {
		t.Fatal("expected amount parse error")
	}
	if _, err := execute(t, client, "contribute", "camp-1"); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestRequestFlags(t *testing.T) {
	client := &fakeClient{}
	if _, err := execute(t, client, "request", "camp-1", "-description", "Tools", "-amount", "30", "-recipient", "shop"); err != nil {
		t.Fatalf("request: %v", err)
	}
	got := client.request
	if got.CampaignID != "camp-1" || got.Description != "Tools" || got.Amount != 30 || got.Recipient != "shop" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestRequestsWithIndexFetchesOne(t *testing.T) {
	client := &fakeClient{}
	if _, err := execute(t, client, "requests", "camp-1", "3"); err != nil {
		t.Fatalf("requests: %v", err)
	}
	if client.getIndex != 3 {
		t.Fatalf("index = %d, want 3", client.getIndex)
	}
}

func TestWalletDefaultsToCaller(t *testing.T) {
	client := &fakeClient{}
	if _, err := execute(t, client, "wallet"); err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if client.walletReq.Owner != "" {
		t.Fatalf("owner = %q, want empty", client.walletReq.Owner)
	}
}

func TestFinalizeDescribesDomainError(t *testing.T) {
	client := &fakeClient{err: apperrors.HandleError(apperrors.New(apperrors.CodeQuorumNotMet, "quorum not met"), apperrors.DefaultLocale)}
	_, err := execute(t, client, "finalize", "camp-1", "0")
	if err == nil || !strings.HasPrefix(err.Error(), "QUORUM_NOT_MET: ") {
		t.Fatalf("expected QUORUM_NOT_MET error, got %v", err)
	}
}

func TestDescribeErrorWithoutDomainCode(t *testing.T) {
	err := describeError(status.Error(codes.Unauthenticated, "caller token is required"))
	if err == nil || err.Error() != "Unauthenticated: caller token is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := Run(context.Background(), Config{Command: "explode"}, nil, nil); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestTokenCommand(t *testing.T) {
	private := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{5}, ed25519.SeedSize))
	t.Setenv("CROWDFUND_CALLER_PRIVATE_KEY", base64.RawStdEncoding.EncodeToString(private))

	var out bytes.Buffer
	if err := Run(context.Background(), Config{Command: "token", As: "alice"}, &out, nil); err != nil {
		t.Fatalf("token: %v", err)
	}
	if parts := strings.Split(strings.TrimSpace(out.String()), "."); len(parts) != 3 {
		t.Fatalf("expected a JWT, got %q", out.String())
	}

	if err := Run(context.Background(), Config{Command: "token"}, &out, nil); err == nil {
		t.Fatal("expected token without -as to fail")
	}
}
