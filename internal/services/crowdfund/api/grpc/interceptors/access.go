// Package interceptors holds gRPC middleware for the crowdfund service.
package interceptors

import (
	"context"
	"strings"
	"time"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/requestctx"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AccessLogInterceptor writes one line per unary call handled by the service.
//
// Lines carry the read/write classification, the gRPC and domain codes, the
// campaign scope when the request has one, and the active trace id.
func AccessLogInterceptor(logf func(format string, args ...any)) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		if logf == nil {
			return resp, err
		}

		code := codes.OK
		outcome := "OK"
		if err != nil {
			code = status.Code(err)
			outcome = string(apperrors.CodeFromStatus(err))
		}

		traceID := "-"
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
		}

		logf("rpc method=%s kind=%s code=%s outcome=%s campaign_id=%s caller=%s trace_id=%s duration=%s",
			info.FullMethod,
			classifyMethodKind(info.FullMethod),
			code.String(),
			outcome,
			valueOrDash(extractCampaignID(req)),
			valueOrDash(requestctx.CallerIDFromContext(ctx)),
			traceID,
			time.Since(started).Round(time.Microsecond),
		)
		return resp, err
	}
}

type campaignIDGetter interface {
	GetCampaignId() string
}

func extractCampaignID(req any) string {
	if req == nil {
		return ""
	}
	getter, ok := req.(campaignIDGetter)
	if !ok {
		return ""
	}
	return strings.TrimSpace(getter.GetCampaignId())
}

func classifyMethodKind(fullMethod string) string {
	if crowdfundv1.IsReadMethod(fullMethod) {
		return "read"
	}
	return "write"
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
