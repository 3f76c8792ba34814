package domain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
)

type transfer struct {
	kind   string
	from   string
	to     string
	amount int64
	index  int
}

type fakeFunds struct {
	transfers []transfer
	err       error
}

func (f *fakeFunds) CollectContribution(_ context.Context, campaignID, from string, amount int64) error {
	if f.err != nil {
		return f.err
	}
	f.transfers = append(f.transfers, transfer{kind: "contribution", from: from, to: campaignID, amount: amount})
	return nil
}

func (f *fakeFunds) Disburse(_ context.Context, campaignID, to string, amount int64, requestIndex int) error {
	if f.err != nil {
		return f.err
	}
	f.transfers = append(f.transfers, transfer{kind: "disbursement", from: campaignID, to: to, amount: amount, index: requestIndex})
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCampaign(t *testing.T, minimum int64) Campaign {
	t.Helper()
	c, err := NewCampaign(CreateCampaignInput{
		Title:               "Community Garden",
		Descriptor:          "@garden",
		ImageReference:      "https://example.com/garden.png",
		MinimumContribution: minimum,
	}, "manager", func() time.Time { return fixedNow }, func() (string, error) { return "camp-1", nil })
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	return c
}

func mustContribute(t *testing.T, c *Campaign, funds Funds, sender string, amount int64) {
	t.Helper()
	if _, err := c.Contribute(context.Background(), funds, sender, amount); err != nil {
		t.Fatalf("contribute %s %d: %v", sender, amount, err)
	}
}

func assertCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperrors.GetCode(err); got != want {
		t.Fatalf("error code = %s, want %s (err: %v)", got, want, err)
	}
}

func TestNewCampaign(t *testing.T) {
	c := newTestCampaign(t, 100)
	if c.ID != "camp-1" {
		t.Fatalf("ID = %q, want camp-1", c.ID)
	}
	if c.Manager != "manager" {
		t.Fatalf("Manager = %q, want manager", c.Manager)
	}
	if !c.CreatedAt.Equal(fixedNow) {
		t.Fatalf("CreatedAt = %v, want %v", c.CreatedAt, fixedNow)
	}
	summary := c.Summary()
	want := Summary{
		Title:               "Community Garden",
		Descriptor:          "@garden",
		ImageReference:      "https://example.com/garden.png",
		MinimumContribution: 100,
		Manager:             "manager",
	}
	if summary != want {
		t.Fatalf("Summary = %+v, want %+v", summary, want)
	}
}

func TestNewCampaignRejectsInvalidInput(t *testing.T) {
	ids := func() (string, error) { return "camp-1", nil }
	tests := []struct {
		name    string
		input   CreateCampaignInput
		manager string
		want    apperrors.Code
	}{
		{name: "zero minimum", input: CreateCampaignInput{MinimumContribution: 0}, manager: "m", want: apperrors.CodeInvalidParameter},
		{name: "negative minimum", input: CreateCampaignInput{MinimumContribution: -5}, manager: "m", want: apperrors.CodeInvalidParameter},
		{name: "missing manager", input: CreateCampaignInput{MinimumContribution: 1}, manager: " ", want: apperrors.CodeUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCampaign(tc.input, tc.manager, nil, ids)
			assertCode(t, err, tc.want)
		})
	}
}

func TestNewCampaignPropagatesIDError(t *testing.T) {
	_, err := NewCampaign(CreateCampaignInput{MinimumContribution: 1}, "m", nil, func() (string, error) {
		return "", errors.New("entropy exhausted")
	})
	if err == nil {
		t.Fatal("expected id generation error")
	}
}

// Scenario: contributing grants approver status once and grows the balance.
func TestContributeAccumulatesBalanceAndApprovers(t *testing.T) {
	c := newTestCampaign(t, 100)
	funds := &fakeFunds{}

	res, err := c.Contribute(context.Background(), funds, "alice", 150)
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if !res.BecameApprover || res.Balance != 150 {
		t.Fatalf("result = %+v, want new approver with balance 150", res)
	}
	mustContribute(t, &c, funds, "bob", 100)
	res, err = c.Contribute(context.Background(), funds, "alice", 200)
	if err != nil {
		t.Fatalf("repeat contribute: %v", err)
	}
	if res.BecameApprover {
		t.Fatal("repeat contributor should not join twice")
	}

	summary := c.Summary()
	if summary.Balance != 450 {
		t.Fatalf("balance = %d, want 450", summary.Balance)
	}
	if summary.ApproverCount != 2 {
		t.Fatalf("approver count = %d, want 2", summary.ApproverCount)
	}
	if len(funds.transfers) != 3 {
		t.Fatalf("transfers = %d, want 3", len(funds.transfers))
	}
	if funds.transfers[0] != (transfer{kind: "contribution", from: "alice", to: "camp-1", amount: 150}) {
		t.Fatalf("first transfer = %+v", funds.transfers[0])
	}
}

// Scenario: a contribution below the minimum is rejected and changes nothing.
func TestContributeBelowMinimum(t *testing.T) {
	c := newTestCampaign(t, 100)
	funds := &fakeFunds{}

	_, err := c.Contribute(context.Background(), funds, "alice", 99)
	assertCode(t, err, apperrors.CodeInsufficientContribution)
	meta := apperrors.GetMetadata(err)
	if meta["Amount"] != "99" || meta["Minimum"] != "100" {
		t.Fatalf("metadata = %v", meta)
	}
	if c.Balance != 0 || c.IsApprover("alice") || len(funds.transfers) != 0 {
		t.Fatalf("campaign mutated after rejected contribution: %+v", c)
	}
}

func TestContributeExactMinimumQualifies(t *testing.T) {
	c := newTestCampaign(t, 100)
	mustContribute(t, &c, &fakeFunds{}, "alice", 100)
	if !c.IsApprover("alice") {
		t.Fatal("contributing exactly the minimum should grant approver status")
	}
}

func TestContributeTransferFailureLeavesCampaignUnchanged(t *testing.T) {
	c := newTestCampaign(t, 10)
	funds := &fakeFunds{err: errors.New("wallet balance too low")}

	_, err := c.Contribute(context.Background(), funds, "alice", 50)
	assertCode(t, err, apperrors.CodeTransferFailed)
	if c.Balance != 0 || c.IsApprover("alice") {
		t.Fatalf("campaign mutated after failed transfer: %+v", c)
	}
}

func TestContributeOverflowIsRejected(t *testing.T) {
	c := newTestCampaign(t, 1)
	c.Balance = math.MaxInt64 - 5
	funds := &fakeFunds{}

	_, err := c.Contribute(context.Background(), funds, "alice", 10)
	assertCode(t, err, apperrors.CodeTransferFailed)
	if c.Balance != math.MaxInt64-5 || len(funds.transfers) != 0 {
		t.Fatal("overflowing contribution must not move value")
	}
}

func TestContributeRequiresSender(t *testing.T) {
	c := newTestCampaign(t, 1)
	_, err := c.Contribute(context.Background(), &fakeFunds{}, "", 10)
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestCreateRequest(t *testing.T) {
	c := newTestCampaign(t, 100)

	index, err := c.CreateRequest("manager", RequestInput{Description: "Buy seeds", Amount: 5000, Recipient: "vendor"}, fixedNow)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if index != 0 {
		t.Fatalf("index = %d, want 0", index)
	}
	second, err := c.CreateRequest("manager", RequestInput{Description: "Buy tools", Amount: 10, Recipient: "vendor"}, fixedNow)
	if err != nil {
		t.Fatalf("create second request: %v", err)
	}
	if second != 1 {
		t.Fatalf("second index = %d, want 1", second)
	}

	req, err := c.Request(0)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Amount != 5000 || req.Recipient != "vendor" || req.Complete || req.ApprovalCount != 0 {
		t.Fatalf("request = %+v", req)
	}
	if c.Summary().RequestCount != 2 {
		t.Fatalf("request count = %d, want 2", c.Summary().RequestCount)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		input  RequestInput
		want   apperrors.Code
	}{
		{name: "non manager", sender: "alice", input: RequestInput{Amount: 1, Recipient: "v"}, want: apperrors.CodeUnauthorized},
		{name: "zero amount", sender: "manager", input: RequestInput{Amount: 0, Recipient: "v"}, want: apperrors.CodeInvalidParameter},
		{name: "missing recipient", sender: "manager", input: RequestInput{Amount: 1, Recipient: ""}, want: apperrors.CodeInvalidParameter},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCampaign(t, 1)
			_, err := c.CreateRequest(tc.sender, tc.input, fixedNow)
			assertCode(t, err, tc.want)
			if len(c.Requests) != 0 {
				t.Fatal("rejected request was appended")
			}
		})
	}
}

func TestCreateRequestAllowsAmountAboveBalance(t *testing.T) {
	c := newTestCampaign(t, 1)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 1_000_000, Recipient: "v"}, fixedNow); err != nil {
		t.Fatalf("create request above balance: %v", err)
	}
}

// Scenario: approvals, duplicate votes, and non-approver votes.
func TestApproveRequest(t *testing.T) {
	c := newTestCampaign(t, 100)
	funds := &fakeFunds{}
	mustContribute(t, &c, funds, "alice", 100)
	mustContribute(t, &c, funds, "bob", 100)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 50, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}

	if err := c.ApproveRequest("alice", 0); err != nil {
		t.Fatalf("approve: %v", err)
	}
	assertCode(t, c.ApproveRequest("alice", 0), apperrors.CodeDuplicateApproval)
	assertCode(t, c.ApproveRequest("mallory", 0), apperrors.CodeUnauthorized)
	assertCode(t, c.ApproveRequest("bob", 3), apperrors.CodeNotFound)
	assertCode(t, c.ApproveRequest("bob", -1), apperrors.CodeNotFound)

	req, _ := c.Request(0)
	if req.ApprovalCount != 1 {
		t.Fatalf("approval count = %d, want 1", req.ApprovalCount)
	}
	if got := req.Approvals(); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("approvals = %v, want [alice]", got)
	}
}

func TestApproveRequestManagerIsNotImplicitApprover(t *testing.T) {
	c := newTestCampaign(t, 100)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 50, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}
	assertCode(t, c.ApproveRequest("manager", 0), apperrors.CodeUnauthorized)
}

func TestApproveRequestErrorPrecedence(t *testing.T) {
	c := newTestCampaign(t, 1)
	funds := &fakeFunds{}
	mustContribute(t, &c, funds, "alice", 10)
	mustContribute(t, &c, funds, "bob", 10)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 5, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := c.ApproveRequest("alice", 0); err != nil {
		t.Fatalf("approve alice: %v", err)
	}
	if err := c.ApproveRequest("bob", 0); err != nil {
		t.Fatalf("approve bob: %v", err)
	}
	if err := c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	mustContribute(t, &c, funds, "carol", 10)

	// A prior voter sees the duplicate before the finalized state.
	assertCode(t, c.ApproveRequest("alice", 0), apperrors.CodeDuplicateApproval)
	assertCode(t, c.ApproveRequest("carol", 0), apperrors.CodeAlreadyFinalized)
	// Identity is checked before the index.
	assertCode(t, c.ApproveRequest("mallory", 9), apperrors.CodeUnauthorized)
}

// Scenario: finalize after a strict majority disburses exactly once.
func TestFinalizeRequestDisburses(t *testing.T) {
	c := newTestCampaign(t, 100)
	funds := &fakeFunds{}
	mustContribute(t, &c, funds, "alice", 300)
	mustContribute(t, &c, funds, "bob", 300)
	mustContribute(t, &c, funds, "carol", 300)
	if _, err := c.CreateRequest("manager", RequestInput{Description: "Lumber", Amount: 500, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := c.ApproveRequest("alice", 0); err != nil {
		t.Fatalf("approve alice: %v", err)
	}
	assertCode(t, c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow), apperrors.CodeQuorumNotMet)
	if err := c.ApproveRequest("bob", 0); err != nil {
		t.Fatalf("approve bob: %v", err)
	}

	finalizedAt := fixedNow.Add(time.Hour)
	if err := c.FinalizeRequest(context.Background(), funds, "manager", 0, finalizedAt); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if c.Balance != 400 {
		t.Fatalf("balance = %d, want 400", c.Balance)
	}
	req, _ := c.Request(0)
	if !req.Complete || !req.FinalizedAt.Equal(finalizedAt) {
		t.Fatalf("request = %+v, want complete at %v", req, finalizedAt)
	}
	last := funds.transfers[len(funds.transfers)-1]
	if last != (transfer{kind: "disbursement", from: "camp-1", to: "vendor", amount: 500, index: 0}) {
		t.Fatalf("disbursement = %+v", last)
	}

	before := len(funds.transfers)
	assertCode(t, c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow), apperrors.CodeAlreadyFinalized)
	if len(funds.transfers) != before || c.Balance != 400 {
		t.Fatal("second finalize must not move value")
	}
}

func TestFinalizeRequestPreconditions(t *testing.T) {
	setup := func(t *testing.T) (Campaign, *fakeFunds) {
		t.Helper()
		c := newTestCampaign(t, 10)
		funds := &fakeFunds{}
		mustContribute(t, &c, funds, "alice", 10)
		if _, err := c.CreateRequest("manager", RequestInput{Amount: 25, Recipient: "vendor"}, fixedNow); err != nil {
			t.Fatalf("create request: %v", err)
		}
		if err := c.ApproveRequest("alice", 0); err != nil {
			t.Fatalf("approve: %v", err)
		}
		return c, funds
	}

	t.Run("non manager", func(t *testing.T) {
		c, funds := setup(t)
		assertCode(t, c.FinalizeRequest(context.Background(), funds, "alice", 0, fixedNow), apperrors.CodeUnauthorized)
	})
	t.Run("missing request", func(t *testing.T) {
		c, funds := setup(t)
		assertCode(t, c.FinalizeRequest(context.Background(), funds, "manager", 1, fixedNow), apperrors.CodeNotFound)
	})
	t.Run("insufficient funds", func(t *testing.T) {
		c, funds := setup(t)
		err := c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow)
		assertCode(t, err, apperrors.CodeInsufficientFunds)
		if meta := apperrors.GetMetadata(err); meta["Balance"] != "10" || meta["Amount"] != "25" {
			t.Fatalf("metadata = %v", meta)
		}
		req, _ := c.Request(0)
		if req.Complete || c.Balance != 10 {
			t.Fatal("request finalized without funds")
		}
	})
	t.Run("transfer failure", func(t *testing.T) {
		c, funds := setup(t)
		mustContribute(t, &c, funds, "bob", 100)
		if err := c.ApproveRequest("bob", 0); err != nil {
			t.Fatalf("approve bob: %v", err)
		}
		funds.err = errors.New("recipient wallet frozen")
		assertCode(t, c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow), apperrors.CodeTransferFailed)
		req, _ := c.Request(0)
		if req.Complete || c.Balance != 110 {
			t.Fatalf("state changed after failed disbursement: complete=%v balance=%d", req.Complete, c.Balance)
		}
	})
}

// Quorum is evaluated against the approver set at finalize time.
func TestFinalizeQuorumUsesCurrentApproverSet(t *testing.T) {
	c := newTestCampaign(t, 10)
	funds := &fakeFunds{}
	mustContribute(t, &c, funds, "alice", 10)
	mustContribute(t, &c, funds, "bob", 10)
	mustContribute(t, &c, funds, "carol", 10)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 5, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := c.ApproveRequest("alice", 0); err != nil {
		t.Fatalf("approve alice: %v", err)
	}
	if err := c.ApproveRequest("bob", 0); err != nil {
		t.Fatalf("approve bob: %v", err)
	}

	// Two new contributors dilute 2 of 3 down to 2 of 5.
	mustContribute(t, &c, funds, "dave", 10)
	mustContribute(t, &c, funds, "erin", 10)
	assertCode(t, c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow), apperrors.CodeQuorumNotMet)

	if err := c.ApproveRequest("dave", 0); err != nil {
		t.Fatalf("approve dave: %v", err)
	}
	if err := c.FinalizeRequest(context.Background(), funds, "manager", 0, fixedNow); err != nil {
		t.Fatalf("finalize with 3 of 5: %v", err)
	}
}

func TestQuorumReached(t *testing.T) {
	tests := []struct {
		approvals, approvers int
		want                 bool
	}{
		{0, 0, false},
		{0, 1, false},
		{1, 1, true},
		{1, 2, false},
		{2, 2, true},
		{2, 3, true},
		{2, 4, false},
		{3, 4, true},
	}
	for _, tc := range tests {
		if got := QuorumReached(tc.approvals, tc.approvers); got != tc.want {
			t.Fatalf("QuorumReached(%d, %d) = %v, want %v", tc.approvals, tc.approvers, got, tc.want)
		}
	}
}

func TestFinalizeWithNoApproversNeverMeetsQuorum(t *testing.T) {
	c := newTestCampaign(t, 10)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 1, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}
	assertCode(t, c.FinalizeRequest(context.Background(), &fakeFunds{}, "manager", 0, fixedNow), apperrors.CodeQuorumNotMet)
}

func TestCloneIsIndependent(t *testing.T) {
	c := newTestCampaign(t, 10)
	funds := &fakeFunds{}
	mustContribute(t, &c, funds, "alice", 10)
	if _, err := c.CreateRequest("manager", RequestInput{Amount: 5, Recipient: "vendor"}, fixedNow); err != nil {
		t.Fatalf("create request: %v", err)
	}

	clone := c.Clone()
	mustContribute(t, &clone, funds, "bob", 10)
	if err := clone.ApproveRequest("alice", 0); err != nil {
		t.Fatalf("approve on clone: %v", err)
	}

	if c.IsApprover("bob") {
		t.Fatal("clone approver leaked into original")
	}
	if c.Requests[0].ApprovalCount != 0 || c.Requests[0].HasApproved("alice") {
		t.Fatal("clone approval leaked into original")
	}
	if c.Balance != 10 {
		t.Fatalf("original balance = %d, want 10", c.Balance)
	}
}
