package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tartil/internal/api"
	"github.com/llehouerou/tartil/internal/health"
	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/recitation"
	"github.com/llehouerou/tartil/internal/recitation/stt"
	"github.com/llehouerou/tartil/internal/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default: config server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	provider, err := observe.InitProvider(Version)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	e, err := newEnv(envOptions{metrics: provider.Metrics})
	if err != nil {
		return err
	}
	defer e.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = e.cfg.GetServerConfig().Addr
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newServer(e, provider).ListenAndServe(ctx, addr)
}

// newServer wires the API over env. Recitation routes are mounted only
// when a speech-to-text provider is configured.
func newServer(e *env, provider *observe.Provider) *api.Server {
	var judge api.Judge
	chain := stt.FromConfig(e.cfg.GetSTTConfig(), e.metrics, e.log)
	if len(chain.Providers()) > 0 {
		judge = recitation.NewJudge(chain, e.quran, e.store, e.metrics, e.log)
	} else {
		e.log.Warn("no speech-to-text provider configured, recitation routes disabled")
	}

	probes := health.New(
		health.Checker{Name: "database", Check: e.store.Ping},
		health.Checker{Name: "quran", Check: func(ctx context.Context) error {
			_, err := e.quran.Chapters(ctx)
			return err
		}},
	)

	return api.New(api.Deps{
		Content:        e.quran,
		Search:         search.NewService(e.quran, nil, e.log),
		Translit:       e.translit,
		Judge:          judge,
		Health:         probes,
		Metrics:        e.metrics,
		MetricsHandler: provider.Handler,
		Logger:         e.log,
		DefaultReciter: e.cfg.GetQuranConfig().Reciter,
	})
}
