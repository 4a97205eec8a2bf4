package main

import (
	"github.com/omega-datasets/curator/internal/bootstrap"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/consumers/listener"
	"github.com/omega-datasets/curator/internal/pipeline/intake"
	"github.com/omega-datasets/curator/internal/server"
	"github.com/omega-datasets/curator/internal/server/api"
	"github.com/omega-datasets/curator/internal/topics"
	"github.com/omega-datasets/curator/pkg/etcd"
	"github.com/omega-datasets/curator/pkg/httpframework"
	ckafka "github.com/omega-datasets/curator/pkg/kafka"
	"github.com/omega-datasets/curator/pkg/logger"
	"github.com/omega-datasets/curator/pkg/metric"
	"github.com/omega-datasets/curator/pkg/profiling"
)

func main() {
	bootstrap.InitConsumers()
	appConfig := structs.GetAppConfig()
	logger.Init()
	metric.Init()
	profiling.Init()

	etcd.Init(appConfig.GetDynamicConfig())
	topics.Init()
	intake.Init()

	ckafka.StartConsumers(appConfig.Configs.SubmissionConsumerKafkaIds, "submission", listener.ProcessSubmissionEvents)

	httpframework.Init()
	api.Init()
	server.InitServer(appConfig.Configs.Port)
}
