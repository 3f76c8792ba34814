package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type handlers struct {
	service crowdfundv1.CrowdfundServiceServer
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type amountBody struct {
	Amount int64 `json:"amount"`
}

func (h *handlers) createCampaign(c *gin.Context) {
	var in crowdfundv1.CreateCampaignRequest
	if !bindJSON(c, &in) {
		return
	}
	resp, err := h.service.CreateCampaign(c.Request.Context(), &in)
	respond(c, http.StatusCreated, resp, err)
}

func (h *handlers) listCampaigns(c *gin.Context) {
	in := crowdfundv1.ListCampaignsRequest{PageToken: c.Query("page_token")}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			badRequest(c, "page_size must be an integer")
			return
		}
		in.PageSize = int32(size)
	}
	resp, err := h.service.ListCampaigns(c.Request.Context(), &in)
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) getCampaignSummary(c *gin.Context) {
	resp, err := h.service.GetCampaignSummary(c.Request.Context(), &crowdfundv1.GetCampaignSummaryRequest{
		CampaignID: c.Param("campaign_id"),
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) contribute(c *gin.Context) {
	var body amountBody
	if !bindJSON(c, &body) {
		return
	}
	resp, err := h.service.Contribute(c.Request.Context(), &crowdfundv1.ContributeRequest{
		CampaignID: c.Param("campaign_id"),
		Amount:     body.Amount,
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) isApprover(c *gin.Context) {
	resp, err := h.service.IsApprover(c.Request.Context(), &crowdfundv1.IsApproverRequest{
		CampaignID: c.Param("campaign_id"),
		Account:    c.Param("account"),
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) getCampaignLedger(c *gin.Context) {
	resp, err := h.service.GetCampaignLedger(c.Request.Context(), &crowdfundv1.GetCampaignLedgerRequest{
		CampaignID: c.Param("campaign_id"),
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) createSpendingRequest(c *gin.Context) {
	var in crowdfundv1.CreateSpendingRequestRequest
	if !bindJSON(c, &in) {
		return
	}
	in.CampaignID = c.Param("campaign_id")
	resp, err := h.service.CreateSpendingRequest(c.Request.Context(), &in)
	respond(c, http.StatusCreated, resp, err)
}

func (h *handlers) listSpendingRequests(c *gin.Context) {
	resp, err := h.service.ListSpendingRequests(c.Request.Context(), &crowdfundv1.ListSpendingRequestsRequest{
		CampaignID: c.Param("campaign_id"),
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) getSpendingRequest(c *gin.Context) {
	index, ok := requestIndex(c)
	if !ok {
		return
	}
	resp, err := h.service.GetSpendingRequest(c.Request.Context(), &crowdfundv1.GetSpendingRequestRequest{
		CampaignID: c.Param("campaign_id"),
		Index:      index,
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) approveSpendingRequest(c *gin.Context) {
	index, ok := requestIndex(c)
	if !ok {
		return
	}
	resp, err := h.service.ApproveSpendingRequest(c.Request.Context(), &crowdfundv1.ApproveSpendingRequestRequest{
		CampaignID: c.Param("campaign_id"),
		Index:      index,
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) finalizeSpendingRequest(c *gin.Context) {
	index, ok := requestIndex(c)
	if !ok {
		return
	}
	resp, err := h.service.FinalizeSpendingRequest(c.Request.Context(), &crowdfundv1.FinalizeSpendingRequestRequest{
		CampaignID: c.Param("campaign_id"),
		Index:      index,
	})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) depositFunds(c *gin.Context) {
	var body amountBody
	if !bindJSON(c, &body) {
		return
	}
	resp, err := h.service.DepositFunds(c.Request.Context(), &crowdfundv1.DepositFundsRequest{Amount: body.Amount})
	respond(c, http.StatusOK, resp, err)
}

func (h *handlers) getWallet(c *gin.Context) {
	resp, err := h.service.GetWallet(c.Request.Context(), &crowdfundv1.GetWalletRequest{Owner: c.Param("owner")})
	respond(c, http.StatusOK, resp, err)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "request body must be valid JSON")
		return false
	}
	return true
}

func requestIndex(c *gin.Context) (int32, bool) {
	index, err := strconv.ParseInt(c.Param("index"), 10, 32)
	if err != nil {
		badRequest(c, "index must be an integer")
		return 0, false
	}
	return int32(index), true
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    string(apperrors.CodeInvalidParameter),
		Message: message,
	}})
}

func respond(c *gin.Context, okStatus int, resp any, err error) {
	if err == nil {
		c.JSON(okStatus, resp)
		return
	}
	st, _ := status.FromError(err)
	code := string(apperrors.CodeFromStatus(err))
	if code == string(apperrors.CodeUnknown) && st.Code() != codes.Unknown && st.Code() != codes.Internal {
		code = st.Code().String()
	}
	c.JSON(httpStatus(st.Code()), errorBody{Error: errorDetail{
		Code:    code,
		Message: apperrors.LocalizedMessageFromStatus(err),
	}})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
