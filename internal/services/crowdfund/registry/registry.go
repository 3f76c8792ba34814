// Package registry creates campaigns and lists their handles.
//
// The registry writes a campaign once, at creation, and never takes part in
// its lifecycle again. Its directory is passed in explicitly.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/grpc/pagination"
	"github.com/louisbranch/crowdfund/internal/platform/id"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
)

// listBatchSize is the directory page size used to read every handle.
const listBatchSize = 100

// Registry instantiates campaigns in a directory.
type Registry struct {
	directory   storage.CampaignDirectory
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option customizes a Registry.
type Option func(*Registry)

// WithClock overrides the creation clock.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithIDGenerator overrides campaign ID generation.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(r *Registry) {
		if generator != nil {
			r.idGenerator = generator
		}
	}
}

// New builds a registry over directory.
func New(directory storage.CampaignDirectory, opts ...Option) *Registry {
	r := &Registry{
		directory:   directory,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateCampaign creates a campaign managed by sender and appends its handle.
func (r *Registry) CreateCampaign(ctx context.Context, input domain.CreateCampaignInput, sender string) (storage.CampaignHandle, error) {
	if r == nil || r.directory == nil {
		return storage.CampaignHandle{}, fmt.Errorf("campaign directory is not configured")
	}
	campaign, err := domain.NewCampaign(input, sender, r.clock, r.idGenerator)
	if err != nil {
		return storage.CampaignHandle{}, err
	}
	handle, err := r.directory.CreateCampaign(ctx, campaign)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.CampaignHandle{}, apperrors.Wrap(apperrors.CodeUnknown, "campaign id collision", err)
		}
		return storage.CampaignHandle{}, fmt.Errorf("create campaign: %w", err)
	}
	return handle, nil
}

// ListCampaigns returns every handle in creation order.
func (r *Registry) ListCampaigns(ctx context.Context) ([]storage.CampaignHandle, error) {
	if r == nil || r.directory == nil {
		return nil, fmt.Errorf("campaign directory is not configured")
	}
	handles := make([]storage.CampaignHandle, 0)
	token := ""
	for {
		page, err := r.directory.ListCampaignHandles(ctx, listBatchSize, token)
		if err != nil {
			return nil, fmt.Errorf("list campaigns: %w", err)
		}
		handles = append(handles, page.Handles...)
		if page.NextPageToken == "" {
			return handles, nil
		}
		token = page.NextPageToken
	}
}

// ListCampaignsPage returns one page of handles in creation order.
func (r *Registry) ListCampaignsPage(ctx context.Context, pageSize int, pageToken string) (storage.CampaignHandlePage, error) {
	if r == nil || r.directory == nil {
		return storage.CampaignHandlePage{}, fmt.Errorf("campaign directory is not configured")
	}
	if pageSize <= 0 {
		return storage.CampaignHandlePage{}, apperrors.WithMetadata(
			apperrors.CodeInvalidParameter,
			"page size must be greater than zero",
			map[string]string{"Field": "page_size"},
		)
	}
	if _, err := pagination.DecodeSeqToken(pageToken); err != nil {
		return storage.CampaignHandlePage{}, apperrors.WrapWithMetadata(
			apperrors.CodeInvalidParameter,
			"invalid page token",
			map[string]string{"Field": "page_token"},
			err,
		)
	}
	page, err := r.directory.ListCampaignHandles(ctx, pageSize, pageToken)
	if err != nil {
		return storage.CampaignHandlePage{}, fmt.Errorf("list campaigns: %w", err)
	}
	return page, nil
}
