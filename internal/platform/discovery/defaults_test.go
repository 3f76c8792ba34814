package discovery

import "testing"

func TestGRPCPort(t *testing.T) {
	if got := GRPCPort(" crowdfund "); got != 8095 {
		t.Fatalf("GRPCPort = %d, want 8095", got)
	}
	if got := GRPCPort("unknown"); got != 0 {
		t.Fatalf("expected 0 for unknown service, got %d", got)
	}
}

func TestHTTPAddr(t *testing.T) {
	if got := HTTPAddr(ServiceCrowdfund); got != ":8096" {
		t.Fatalf("HTTPAddr = %q, want :8096", got)
	}
	if got := HTTPAddr("unknown"); got != "" {
		t.Fatalf("expected empty addr for unknown service, got %q", got)
	}
}

func TestOrLocalGRPCAddr(t *testing.T) {
	if got := OrLocalGRPCAddr(" custom:9000 ", ServiceCrowdfund); got != "custom:9000" {
		t.Fatalf("expected explicit grpc addr to win, got %q", got)
	}
	if got := OrLocalGRPCAddr("", ServiceCrowdfund); got != "localhost:8095" {
		t.Fatalf("expected local grpc addr, got %q", got)
	}
	if got := LocalGRPCAddr("unknown"); got != "" {
		t.Fatalf("expected empty addr for unknown service, got %q", got)
	}
}
