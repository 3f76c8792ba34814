// Package timeouts defines shared timeout constants used across crowdfund processes.
package timeouts

import "time"

// GRPCDial caps the wait for a crowdfund server to report healthy.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single CLI request.
const GRPCRequest = 5 * time.Second

// ReadHeader limits how long the HTTP gateway waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during graceful shutdown.
const Shutdown = 5 * time.Second
