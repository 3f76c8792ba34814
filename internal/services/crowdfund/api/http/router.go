// Package httpapi exposes the crowdfund service as a JSON REST gateway.
//
// Every route calls the same CrowdfundServiceServer the gRPC transport
// registers, so validation, error codes and localized messages are shared.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/callerauth"
)

// Options configures the gateway router.
type Options struct {
	// AllowedOrigins lists CORS origins; empty allows any origin.
	AllowedOrigins []string
	Logf           func(format string, args ...any)
}

// NewRouter builds the gin engine serving /v1 routes backed by service.
func NewRouter(service crowdfundv1.CrowdfundServiceServer, verifier *callerauth.Verifier, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	if opts.Logf != nil {
		router.Use(accessLog(opts.Logf))
	}

	h := &handlers{service: service}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "SERVING"})
	})

	v1 := router.Group("/v1")
	v1.Use(authenticate(verifier))
	{
		v1.POST("/campaigns", h.createCampaign)
		v1.GET("/campaigns", h.listCampaigns)
		v1.GET("/campaigns/:campaign_id", h.getCampaignSummary)
		v1.POST("/campaigns/:campaign_id/contributions", h.contribute)
		v1.GET("/campaigns/:campaign_id/approvers/:account", h.isApprover)
		v1.GET("/campaigns/:campaign_id/ledger", h.getCampaignLedger)
		v1.POST("/campaigns/:campaign_id/requests", h.createSpendingRequest)
		v1.GET("/campaigns/:campaign_id/requests", h.listSpendingRequests)
		v1.GET("/campaigns/:campaign_id/requests/:index", h.getSpendingRequest)
		v1.POST("/campaigns/:campaign_id/requests/:index/approvals", h.approveSpendingRequest)
		v1.POST("/campaigns/:campaign_id/requests/:index/finalize", h.finalizeSpendingRequest)
		v1.POST("/wallet/deposits", h.depositFunds)
		v1.GET("/wallet", h.getWallet)
		v1.GET("/wallets/:owner", h.getWallet)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", localeHeader},
		ExposeHeaders: []string{"Content-Length"},
	}
	trimmed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			trimmed = append(trimmed, origin)
		}
	}
	if len(trimmed) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = trimmed
	}
	return cfg
}

func accessLog(logf func(format string, args ...any)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logf("http method=%s path=%s status=%d", c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
