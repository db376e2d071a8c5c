package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	libCommonsServer "github.com/LerianStudio/lib-commons/v2/commons/server"
	"github.com/fraudmesh/evalengine/pkg/mgrpchealth"
)

// GRPCHealthApp runs the standard grpc_health_v1 service every consumer
// stage exposes (pkg/mgrpchealth), wired the same way the Config plane wires its
// HTTP server via libCommonsServer.ServerManager.
type GRPCHealthApp struct {
	address string
	logger  libLog.Logger
}

// NewGRPCHealthApp builds a GRPCHealthApp bound to address.
func NewGRPCHealthApp(address string, logger libLog.Logger) *GRPCHealthApp {
	return &GRPCHealthApp{address: address, logger: logger}
}

// Run starts the gRPC health server, blocking until graceful shutdown.
func (a *GRPCHealthApp) Run(l *libCommons.Launcher) error {
	grpcServer, _ := mgrpchealth.NewServer()

	libCommonsServer.NewServerManager(nil, nil, a.logger).
		WithGRPCServer(grpcServer, a.address).
		StartWithGracefulShutdown()

	return nil
}
