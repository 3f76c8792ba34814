package crowdfundctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
)

type commandFunc func(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error

type command struct {
	summary string
	run     commandFunc
}

var commands = map[string]command{
	"create":     {summary: "create a campaign managed by the caller", run: runCreate},
	"list":       {summary: "list campaigns in creation order", run: runList},
	"summary":    {summary: "show a campaign summary: <campaign_id>", run: runSummary},
	"contribute": {summary: "contribute to a campaign: <campaign_id> <amount>", run: runContribute},
	"request":    {summary: "propose a spending request: <campaign_id>", run: runRequest},
	"approve":    {summary: "approve a spending request: <campaign_id> <index>", run: runApprove},
	"finalize":   {summary: "finalize a spending request: <campaign_id> <index>", run: runFinalize},
	"requests":   {summary: "list spending requests: <campaign_id> [index]", run: runRequests},
	"approver":   {summary: "check approver status: <campaign_id> <account>", run: runApprover},
	"deposit":    {summary: "credit the caller's wallet: <amount>", run: runDeposit},
	"wallet":     {summary: "show a wallet balance: [owner]", run: runWallet},
	"ledger":     {summary: "list campaign ledger entries: <campaign_id>", run: runLedger},
	"token":      {summary: "print a caller token for -as"},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runCreate(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var in crowdfundv1.CreateCampaignRequest
	fs.StringVar(&in.Title, "title", "", "campaign title")
	fs.StringVar(&in.Descriptor, "descriptor", "", "campaign descriptor (for example a handle)")
	fs.StringVar(&in.ImageReference, "image", "", "campaign image reference")
	fs.Int64Var(&in.MinimumContribution, "minimum", 0, "minimum contribution in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := client.CreateCampaign(ctx, &in)
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Campaign)
}

func runList(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var in crowdfundv1.ListCampaignsRequest
	var pageSize int
	all := fs.Bool("all", false, "follow page tokens until the last page")
	fs.IntVar(&pageSize, "page-size", 0, "page size (server default when 0)")
	fs.StringVar(&in.PageToken, "page-token", "", "page token from a previous call")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.PageSize = int32(pageSize)

	if !*all {
		resp, err := client.ListCampaigns(ctx, &in)
		if err != nil {
			return err
		}
		return writeJSON(out, resp)
	}
	campaigns := []*crowdfundv1.CampaignHandle{}
	for {
		resp, err := client.ListCampaigns(ctx, &in)
		if err != nil {
			return err
		}
		campaigns = append(campaigns, resp.Campaigns...)
		if resp.NextPageToken == "" {
			break
		}
		in.PageToken = resp.NextPageToken
	}
	return writeJSON(out, &crowdfundv1.ListCampaignsResponse{Campaigns: campaigns})
}

func runSummary(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if err := wantArgs(args, 1, "summary <campaign_id>"); err != nil {
		return err
	}
	resp, err := client.GetCampaignSummary(ctx, &crowdfundv1.GetCampaignSummaryRequest{CampaignID: args[0]})
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Summary)
}

func runContribute(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if err := wantArgs(args, 2, "contribute <campaign_id> <amount>"); err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	resp, err := client.Contribute(ctx, &crowdfundv1.ContributeRequest{CampaignID: args[0], Amount: amount})
	if err != nil {
		return err
	}
	return writeJSON(out, resp)
}

func runRequest(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: request <campaign_id> -description ... -amount ... -recipient ...")
	}
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	in := crowdfundv1.CreateSpendingRequestRequest{CampaignID: args[0]}
	fs.StringVar(&in.Description, "description", "", "what the disbursement pays for")
	fs.Int64Var(&in.Amount, "amount", 0, "amount in base units")
	fs.StringVar(&in.Recipient, "recipient", "", "account receiving the disbursement")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	resp, err := client.CreateSpendingRequest(ctx, &in)
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Request)
}

func runApprove(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	campaignID, index, err := campaignAndIndex(args, "approve <campaign_id> <index>")
	if err != nil {
		return err
	}
	resp, err := client.ApproveSpendingRequest(ctx, &crowdfundv1.ApproveSpendingRequestRequest{CampaignID: campaignID, Index: index})
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Request)
}

func runFinalize(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	campaignID, index, err := campaignAndIndex(args, "finalize <campaign_id> <index>")
	if err != nil {
		return err
	}
	resp, err := client.FinalizeSpendingRequest(ctx, &crowdfundv1.FinalizeSpendingRequestRequest{CampaignID: campaignID, Index: index})
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Request)
}

func runRequests(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if len(args) == 2 {
		campaignID, index, err := campaignAndIndex(args, "requests <campaign_id> [index]")
		if err != nil {
			return err
		}
		resp, err := client.GetSpendingRequest(ctx, &crowdfundv1.GetSpendingRequestRequest{CampaignID: campaignID, Index: index})
		if err != nil {
			return err
		}
		return writeJSON(out, resp.Request)
	}
	if err := wantArgs(args, 1, "requests <campaign_id> [index]"); err != nil {
		return err
	}
	resp, err := client.ListSpendingRequests(ctx, &crowdfundv1.ListSpendingRequestsRequest{CampaignID: args[0]})
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Requests)
}

func runApprover(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if err := wantArgs(args, 2, "approver <campaign_id> <account>"); err != nil {
		return err
	}
	resp, err := client.IsApprover(ctx, &crowdfundv1.IsApproverRequest{CampaignID: args[0], Account: args[1]})
	if err != nil {
		return err
	}
	return writeJSON(out, resp)
}

func runDeposit(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if err := wantArgs(args, 1, "deposit <amount>"); err != nil {
		return err
	}
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	resp, err := client.DepositFunds(ctx, &crowdfundv1.DepositFundsRequest{Amount: amount})
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Wallet)
}

func runWallet(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if len(args) > 1 {
		return errors.New("usage: wallet [owner]")
	}
	in := &crowdfundv1.GetWalletRequest{}
	if len(args) == 1 {
		in.Owner = args[0]
	}
	resp, err := client.GetWallet(ctx, in)
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Wallet)
}

func runLedger(ctx context.Context, client crowdfundv1.CrowdfundServiceClient, args []string, out io.Writer) error {
	if err := wantArgs(args, 1, "ledger <campaign_id>"); err != nil {
		return err
	}
	resp, err := client.GetCampaignLedger(ctx, &crowdfundv1.GetCampaignLedgerRequest{CampaignID: args[0]})
	if err != nil {
		return err
	}
	return writeJSON(out, resp.Entries)
}

func wantArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func campaignAndIndex(args []string, usage string) (string, int32, error) {
	if err := wantArgs(args, 2, usage); err != nil {
		return "", 0, err
	}
	index, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("index must be an integer: %w", err)
	}
	return args[0], int32(index), nil
}

func parseAmount(raw string) (int64, error) {
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be an integer: %w", err)
	}
	return amount, nil
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
