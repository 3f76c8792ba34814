package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/domain"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage/memory"
)

func sequentialIDs() func() (string, error) {
	next := 0
	return func() (string, error) {
		next++
		return fmt.Sprintf("camp-%d", next), nil
	}
}

func TestCreateCampaignAppendsHandle(t *testing.T) {
	now := time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)
	r := New(memory.New(), WithClock(func() time.Time { return now }), WithIDGenerator(sequentialIDs()))

	handle, err := r.CreateCampaign(context.Background(), domain.CreateCampaignInput{
		Title:               "Library",
		Descriptor:          "@library",
		ImageReference:      "img://library",
		MinimumContribution: 100,
	}, "manager")
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if handle.ID != "camp-1" || handle.Manager != "manager" || handle.Title != "Library" {
		t.Fatalf("handle = %+v", handle)
	}
	if !handle.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", handle.CreatedAt, now)
	}
}

// Scenario: two campaigns listed in creation order, each with its own manager.
func TestListCampaignsReturnsCreationOrder(t *testing.T) {
	r := New(memory.New(), WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	for _, manager := range []string{"alice", "bob"} {
		if _, err := r.CreateCampaign(ctx, domain.CreateCampaignInput{MinimumContribution: 5}, manager); err != nil {
			t.Fatalf("create campaign for %s: %v", manager, err)
		}
	}

	handles, err := r.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("handles = %d, want 2", len(handles))
	}
	if handles[0].ID != "camp-1" || handles[0].Manager != "alice" {
		t.Fatalf("first handle = %+v", handles[0])
	}
	if handles[1].ID != "camp-2" || handles[1].Manager != "bob" {
		t.Fatalf("second handle = %+v", handles[1])
	}
}

func TestListCampaignsReadsEveryBatch(t *testing.T) {
	r := New(memory.New(), WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	total := listBatchSize*2 + 3
	for range total {
		if _, err := r.CreateCampaign(ctx, domain.CreateCampaignInput{MinimumContribution: 1}, "m"); err != nil {
			t.Fatalf("create campaign: %v", err)
		}
	}
	handles, err := r.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(handles) != total {
		t.Fatalf("handles = %d, want %d", len(handles), total)
	}
	if handles[total-1].ID != fmt.Sprintf("camp-%d", total) {
		t.Fatalf("last handle = %s", handles[total-1].ID)
	}
}

func TestCreateCampaignRejectsNonPositiveMinimum(t *testing.T) {
	store := memory.New()
	r := New(store)
	_, err := r.CreateCampaign(context.Background(), domain.CreateCampaignInput{MinimumContribution: 0}, "manager")
	if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Fatalf("error = %v, want invalid parameter", err)
	}
	handles, err := r.ListCampaigns(context.Background())
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(handles) != 0 {
		t.Fatalf("handles = %d, want 0", len(handles))
	}
}

func TestListCampaignsPageValidatesInput(t *testing.T) {
	r := New(memory.New())
	if _, err := r.ListCampaignsPage(context.Background(), 0, ""); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Fatalf("page size error = %v, want invalid parameter", err)
	}
	if _, err := r.ListCampaignsPage(context.Background(), 10, "%%%"); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Fatalf("page token error = %v, want invalid parameter", err)
	}
}

type failingDirectory struct {
	err error
}

func (d failingDirectory) CreateCampaign(context.Context, domain.Campaign) (storage.CampaignHandle, error) {
	return storage.CampaignHandle{}, d.err
}

func (d failingDirectory) ListCampaignHandles(context.Context, int, string) (storage.CampaignHandlePage, error) {
	return storage.CampaignHandlePage{}, d.err
}

func TestDirectoryErrorsPropagate(t *testing.T) {
	disk := errors.New("disk full")
	r := New(failingDirectory{err: disk})
	if _, err := r.CreateCampaign(context.Background(), domain.CreateCampaignInput{MinimumContribution: 1}, "m"); !errors.Is(err, disk) {
		t.Fatalf("create error = %v, want %v", err, disk)
	}
	if _, err := r.ListCampaigns(context.Background()); !errors.Is(err, disk) {
		t.Fatalf("list error = %v, want %v", err, disk)
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if _, err := r.CreateCampaign(context.Background(), domain.CreateCampaignInput{MinimumContribution: 1}, "m"); err == nil {
		t.Fatal("expected error from nil registry")
	}
}
