// Package mgrpchealth stands up the one piece of gRPC surface every consumer
// stage (Router, Rule-Executor, Typologies, Aggregator) exposes: the standard grpc_health_v1 health-check service, registered the
// same way the teacher wires a grpc.Server into its
// commons/server.ServerManager (pkg/server/grpc_test.go's
// WithGRPCServer(grpcServer, addr)). Business RPC between stages and the
// Config plane goes over HTTP (pkg/mconfigclient) — hand-authoring
// business-logic protobuf stubs without a protoc run would be unverifiable,
// so gRPC here is scoped to the one service that is pre-generated and stable
// across the ecosystem.
package mgrpchealth

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer builds a grpc.Server with the health service registered and
// marked SERVING for every service name a stage cares about reporting
// (empty string is the overall-server status gRPC health-check clients
// probe by default).
func NewServer(serviceNames ...string) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()

	healthpb.RegisterHealthServer(grpcServer, healthServer)

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range serviceNames {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return grpcServer, healthServer
}

// SetNotServing flips every tracked service to NOT_SERVING, so health probes
// stop routing traffic here. The stages' GRPCHealthApp wrappers discard the
// health.Server handle and do not call it.
func SetNotServing(healthServer *health.Server, serviceNames ...string) {
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, name := range serviceNames {
		healthServer.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
}
