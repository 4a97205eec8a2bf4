package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omega-datasets/curator/internal/config/structs"
	"github.com/omega-datasets/curator/internal/pipeline/intake"
	"github.com/omega-datasets/curator/pkg/httpframework"
)

const defaultShutdownDeadline = 30 * time.Second

// InitServer starts the HTTP server and blocks until SIGINT or SIGTERM.
// On signal it stops accepting requests, drains the intake pipeline and
// force-flushes buffered entries before returning.
func InitServer(port int) {
	if port == 0 {
		log.Panic().Msg("PORT not set")
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: httpframework.Instance(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// panic and stop the app if server does not start
			log.Panic().Msgf("There's an error while starting the server!, error - %v", err)
		}
	}()
	log.Info().Msgf("Server started on port %d", port)

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigchan
	log.Info().Msgf("Caught signal %v, shutting down", sig)

	deadline := time.Duration(structs.GetAppConfig().Configs.HardShutdownDeadlineMs) * time.Millisecond
	if deadline <= 0 {
		deadline = defaultShutdownDeadline
	}

	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown did not complete cleanly")
	}

	intake.Instance().Shutdown(deadline)
	log.Info().Msg("Shutdown complete")
}
