// Package discovery centralizes service address conventions.
package discovery

import (
	"strconv"
	"strings"
)

// ServiceCrowdfund is the crowdfund ledger service identity.
const ServiceCrowdfund = "crowdfund"

const localHost = "localhost"

var grpcPorts = map[string]int{
	ServiceCrowdfund: 8095,
}

var httpPorts = map[string]int{
	ServiceCrowdfund: 8096,
}

// GRPCPort returns the conventional gRPC port for a service, or 0 when unknown.
func GRPCPort(service string) int {
	return grpcPorts[strings.TrimSpace(service)]
}

// HTTPAddr returns the conventional HTTP listen address (":port") for a service.
func HTTPAddr(service string) string {
	port, ok := httpPorts[strings.TrimSpace(service)]
	if !ok || port <= 0 {
		return ""
	}
	return ":" + strconv.Itoa(port)
}

// LocalGRPCAddr returns the gRPC address of a service running on this host.
func LocalGRPCAddr(service string) string {
	port := GRPCPort(service)
	if port <= 0 {
		return ""
	}
	return localHost + ":" + strconv.Itoa(port)
}

// OrLocalGRPCAddr returns value when set, otherwise the local service address.
func OrLocalGRPCAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return LocalGRPCAddr(service)
}
