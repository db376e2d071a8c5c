package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
)

// Service is the runnable Intake application: its HTTP server plus the
// logger the launcher reports through.
type Service struct {
	*Server
	libLog.Logger
}

// Run starts Intake and blocks until a graceful shutdown signal arrives.
func (s *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(s.Logger),
		libCommons.RunApp("Intake", s.Server),
	).Run()
}
