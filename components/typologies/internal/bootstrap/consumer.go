package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
)

// ConsumerApp adapts one mtransport.Consumer into a libCommons.App, grounded
// on the Router stage's bootstrap.ConsumerApp.
type ConsumerApp struct {
	consumer *mtransport.Consumer
	handle   mtransport.Handler
	name     string
}

// Run blocks consuming until SIGINT/SIGTERM, per spec.md §5's cooperative
// cancellation.
func (a *ConsumerApp) Run(l *libCommons.Launcher) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		cancel()
	}()

	l.Logger.Infof("%s: consuming", a.name)

	return a.consumer.Run(ctx, a.handle)
}
