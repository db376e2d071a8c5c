package main

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	"github.com/fraudmesh/evalengine/components/typologies/internal/bootstrap"
)

func main() {
	libCommons.InitLocalEnvConfig()
	bootstrap.InitTypologies().Run()
}
