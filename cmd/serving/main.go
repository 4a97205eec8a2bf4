package main

import (
	"github.com/omega-datasets/curator/internal/bootstrap"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/pipeline/intake"
	"github.com/omega-datasets/curator/internal/server"
	"github.com/omega-datasets/curator/internal/server/api"
	"github.com/omega-datasets/curator/internal/topics"
	"github.com/omega-datasets/curator/pkg/etcd"
	"github.com/omega-datasets/curator/pkg/httpframework"
	"github.com/omega-datasets/curator/pkg/logger"
	"github.com/omega-datasets/curator/pkg/metric"
	"github.com/omega-datasets/curator/pkg/profiling"
	"github.com/omega-datasets/curator/pkg/tracing"
)

func main() {
	bootstrap.InitServing()
	appConfig := structs.GetAppConfig()
	logger.Init()
	metric.Init()
	profiling.Init()
	tracing.Init()
	defer tracing.ShutdownTracer()

	etcd.Init(appConfig.GetDynamicConfig())
	topics.Init()
	intake.Init()

	httpframework.Init()
	api.Init()
	server.InitServer(appConfig.Configs.Port)
}
