package main

import (
	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	"github.com/fraudmesh/evalengine/components/ruleexecutor/internal/bootstrap"
)

func main() {
	libCommons.InitLocalEnvConfig()
	bootstrap.InitRuleExecutor().Run()
}
