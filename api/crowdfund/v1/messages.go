// Package crowdfundv1 is the crowdfund.v1 wire contract: messages, the
// CrowdfundService descriptor, and a JSON codec for the gRPC transport.
package crowdfundv1

import "time"

// CampaignHandle identifies one campaign in the registry.
type CampaignHandle struct {
	CampaignID string    `json:"campaign_id"`
	Manager    string    `json:"manager"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// CampaignSummary is the read-only summary tuple of a campaign.
type CampaignSummary struct {
	Title               string `json:"title"`
	Descriptor          string `json:"descriptor"`
	ImageReference      string `json:"image_reference"`
	MinimumContribution int64  `json:"minimum_contribution"`
	Balance             int64  `json:"balance"`
	RequestCount        int32  `json:"request_count"`
	ApproverCount       int32  `json:"approver_count"`
	Manager             string `json:"manager"`
}

// SpendingRequest is one proposed disbursement.
type SpendingRequest struct {
	Index         int32      `json:"index"`
	Description   string     `json:"description"`
	Amount        int64      `json:"amount"`
	Recipient     string     `json:"recipient"`
	ApprovalCount int32      `json:"approval_count"`
	Complete      bool       `json:"complete"`
	Approvers     []string   `json:"approvers,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
}

// LedgerEntry is one recorded value transfer.
type LedgerEntry struct {
	EntryID      string    `json:"entry_id"`
	CampaignID   string    `json:"campaign_id"`
	Kind         string    `json:"kind"`
	Account      string    `json:"account"`
	Amount       int64     `json:"amount"`
	RequestIndex int32     `json:"request_index"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Wallet is an account balance.
type Wallet struct {
	Owner     string    `json:"owner"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type CreateCampaignRequest struct {
	Title               string `json:"title"`
	Descriptor          string `json:"descriptor"`
	ImageReference      string `json:"image_reference"`
	MinimumContribution int64  `json:"minimum_contribution"`
}

type CreateCampaignResponse struct {
	Campaign *CampaignHandle `json:"campaign"`
}

type ListCampaignsRequest struct {
	PageSize  int32  `json:"page_size"`
	PageToken string `json:"page_token"`
}

type ListCampaignsResponse struct {
	Campaigns     []*CampaignHandle `json:"campaigns"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

type GetCampaignSummaryRequest struct {
	CampaignID string `json:"campaign_id"`
}

type GetCampaignSummaryResponse struct {
	Summary *CampaignSummary `json:"summary"`
}

type ContributeRequest struct {
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
}

type ContributeResponse struct {
	Balance        int64 `json:"balance"`
	BecameApprover bool  `json:"became_approver"`
}

type CreateSpendingRequestRequest struct {
	CampaignID  string `json:"campaign_id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Recipient   string `json:"recipient"`
}

type CreateSpendingRequestResponse struct {
	Request *SpendingRequest `json:"request"`
}

type ApproveSpendingRequestRequest struct {
	CampaignID string `json:"campaign_id"`
	Index      int32  `json:"index"`
}

type ApproveSpendingRequestResponse struct {
	Request *SpendingRequest `json:"request"`
}

type FinalizeSpendingRequestRequest struct {
	CampaignID string `json:"campaign_id"`
	Index      int32  `json:"index"`
}

type FinalizeSpendingRequestResponse struct {
	Request *SpendingRequest `json:"request"`
}

type GetSpendingRequestRequest struct {
	CampaignID string `json:"campaign_id"`
	Index      int32  `json:"index"`
}

type GetSpendingRequestResponse struct {
	Request *SpendingRequest `json:"request"`
}

type ListSpendingRequestsRequest struct {
	CampaignID string `json:"campaign_id"`
}

type ListSpendingRequestsResponse struct {
	Requests []*SpendingRequest `json:"requests"`
}

type IsApproverRequest struct {
	CampaignID string `json:"campaign_id"`
	Account    string `json:"account"`
}

type IsApproverResponse struct {
	Approver bool `json:"approver"`
}

type GetCampaignLedgerRequest struct {
	CampaignID string `json:"campaign_id"`
}

type GetCampaignLedgerResponse struct {
	Entries []*LedgerEntry `json:"entries"`
}

type DepositFundsRequest struct {
	Amount int64 `json:"amount"`
}

type DepositFundsResponse struct {
	Wallet *Wallet `json:"wallet"`
}

type GetWalletRequest struct {
	Owner string `json:"owner"`
}

type GetWalletResponse struct {
	Wallet *Wallet `json:"wallet"`
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *GetCampaignSummaryRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *ContributeRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *CreateSpendingRequestRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *ApproveSpendingRequestRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *FinalizeSpendingRequestRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *GetSpendingRequestRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *ListSpendingRequestsRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *IsApproverRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}

// GetCampaignId returns the target campaign, or "" for a nil request.
func (x *GetCampaignLedgerRequest) GetCampaignId() string {
	if x == nil {
		return ""
	}
	return x.CampaignID
}
