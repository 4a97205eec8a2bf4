package bootstrap

import (
	"github.com/omega-datasets/curator/internal/config"
	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/repositories/embedding"
	"github.com/omega-datasets/curator/internal/server/middlewares"
)

func Init() {
	config.InitConfig(structs.GetAppConfig())
	embedding.Init()
}

func InitServing() {
	Init()
	middlewares.Init()
}

func InitConsumers() {
	Init()
	middlewares.Init()
}
