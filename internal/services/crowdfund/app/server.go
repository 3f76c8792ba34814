// Package server wires the crowdfund runtime, its gRPC lifecycle, and the
// optional HTTP gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	crowdfundv1 "github.com/louisbranch/crowdfund/api/crowdfund/v1"
	"github.com/louisbranch/crowdfund/internal/platform/config"
	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
	crowdfundservice "github.com/louisbranch/crowdfund/internal/services/crowdfund/api/grpc/crowdfund"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/api/grpc/interceptors"
	httpapi "github.com/louisbranch/crowdfund/internal/services/crowdfund/api/http"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/callerauth"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/ledger"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage"
	"github.com/louisbranch/crowdfund/internal/services/crowdfund/storage/memory"
	crowdfundsqlite "github.com/louisbranch/crowdfund/internal/services/crowdfund/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	storageSQLite = "sqlite"
	storageMemory = "memory"
)

type serverEnv struct {
	Storage     string   `env:"CROWDFUND_STORAGE" envDefault:"sqlite"`
	DBPath      string   `env:"CROWDFUND_DB_PATH"`
	CORSOrigins []string `env:"CROWDFUND_CORS_ORIGINS" envSeparator:","`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if cfg.Storage == "" {
		cfg.Storage = storageSQLite
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "crowdfund.db")
	}
	return cfg
}

// Server hosts the crowdfund gRPC API, the HTTP gateway, and storage lifecycle.
type Server struct {
	listener     net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	httpListener net.Listener
	httpServer   *http.Server
	store        storage.Store
}

// New creates a configured crowdfund server listening on the provided port.
// An empty httpAddr disables the HTTP gateway.
func New(port int, httpAddr string) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), httpAddr)
}

// NewWithAddr creates a configured crowdfund server for the provided addresses.
func NewWithAddr(addr, httpAddr string) (*Server, error) {
	env := loadServerEnv()
	verifier, err := loadVerifier()
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openStore(env)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	ledgerService := ledger.NewService(store, ledger.WithLogger(log.Printf))
	apiService := crowdfundservice.NewService(ledgerService)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			callerauth.UnaryServerInterceptor(verifier),
			interceptors.AccessLogInterceptor(log.Printf),
		),
	)
	healthServer := health.NewServer()
	crowdfundv1.RegisterCrowdfundServiceServer(grpcServer, apiService)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(crowdfundv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	srv := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}

	if httpAddr = strings.TrimSpace(httpAddr); httpAddr != "" {
		httpListener, err := net.Listen("tcp", httpAddr)
		if err != nil {
			srv.Close()
			return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
		}
		srv.httpListener = httpListener
		srv.httpServer = &http.Server{
			Handler: httpapi.NewRouter(apiService, verifier, httpapi.Options{
				AllowedOrigins: env.CORSOrigins,
				Logf:           log.Printf,
			}),
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
	}
	return srv, nil
}

// Addr returns the gRPC listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the gateway listener address, or "" when disabled.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Run creates and serves a crowdfund server until context cancellation.
func Run(ctx context.Context, port int, httpAddr string) error {
	server, err := New(port, httpAddr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server and gateway until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	log.Printf("crowdfund server listening at %v", s.listener.Addr())
	group.Go(func() error {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	if s.httpServer != nil {
		log.Printf("crowdfund gateway listening at %v", s.httpListener.Addr())
		group.Go(func() error {
			if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		s.shutdown()
		return nil
	})
	return group.Wait()
}

func (s *Server) shutdown() {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown crowdfund gateway: %v", err)
		}
		cancel()
	}
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(timeouts.Shutdown):
		s.grpcServer.Stop()
	}
}

// Close releases crowdfund server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close crowdfund store: %v", err)
		}
		s.store = nil
	}
}

func loadVerifier() (*callerauth.Verifier, error) {
	cfg, err := callerauth.LoadVerifierConfigFromEnv(time.Now)
	if errors.Is(err, callerauth.ErrPublicKeyNotConfigured) {
		log.Printf("caller verification disabled: %v; mutating RPCs will be rejected", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	verifier, err := callerauth.NewVerifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("build caller verifier: %w", err)
	}
	return verifier, nil
}

func openStore(env serverEnv) (storage.Store, error) {
	switch env.Storage {
	case storageMemory:
		return memory.New(), nil
	case storageSQLite:
		return openSQLiteStore(env.DBPath)
	default:
		return nil, fmt.Errorf("unsupported CROWDFUND_STORAGE %q", env.Storage)
	}
}

func openSQLiteStore(path string) (*crowdfundsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := crowdfundsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crowdfund sqlite store: %w", err)
	}
	return store, nil
}
