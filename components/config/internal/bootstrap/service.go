package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
)

// Service is the application glue holding every top-level component needed
// to run the Config plane.
type Service struct {
	*Server
	libLog.Logger
}

// Run starts the Config plane, blocking until shutdown.
func (s *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(s.Logger),
		libCommons.RunApp("Config Plane", s.Server),
	).Run()
}
