package profiling

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	once        sync.Once
	initialized = false
)

func Init() {
	if !viper.GetBool("PROFILING_ENABLED") {
		log.Info().Msg("Profiling is not enabled!")
		return
	}
	if initialized {
		log.Debug().Msg("Profiling environment already initialized!")
		return
	}
	once.Do(func() {
		profilingPort := viper.GetInt("PROFILING_PORT")
		if profilingPort == 0 {
			log.Fatal().Msg("PROFILING_PORT is not set!")
		}
		go func() {
			addr := fmt.Sprintf(":%d", profilingPort)
			log.Info().Msgf("Starting profiling server on %v", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Fatal().Msgf("ListenAndServe error: %v", err)
			}
		}()
		initialized = true
		log.Info().Msg("Profiling environment initialized!")
	})
}
