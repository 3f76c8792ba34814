package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/louisbranch/crowdfund/internal/platform/requestctx"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/callerauth"
)

const localeHeader = "X-Crowdfund-Locale"

// authenticate mirrors the gRPC caller interceptor: GET routes accept
// anonymous callers, a presented token must be valid, and every other
// method requires one.
func authenticate(verifier *callerauth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if locale := c.GetHeader(localeHeader); locale != "" {
			ctx = requestctx.WithLocale(ctx, locale)
		}

		header := c.GetHeader("Authorization")
		if header == "" && c.Request.Method == http.MethodGet {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}
		if verifier == nil {
			abortUnauthenticated(c, "caller verification is not configured")
			return
		}
		claims, err := verifier.VerifyAuthorization(header)
		if err != nil {
			abortUnauthenticated(c, authMessage(err))
			return
		}
		c.Request = c.Request.WithContext(requestctx.WithCallerID(ctx, claims.Account))
		c.Next()
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, callerauth.ErrMissingToken):
		return "caller token is required"
	case errors.Is(err, callerauth.ErrExpiredToken):
		return "caller token is expired"
	default:
		return "caller token is invalid"
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: errorDetail{
		Code:    "UNAUTHENTICATED",
		Message: message,
	}})
}
