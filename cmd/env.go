package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tartil/internal/cache"
	"github.com/llehouerou/tartil/internal/config"
	"github.com/llehouerou/tartil/internal/logging"
	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/search"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/translit"
)

const maxChapter = 114

// env holds the services shared by every command.
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *store.Store
	cache    cache.Cache
	metrics  *observe.Metrics
	quran    *quran.Client
	translit *translit.Source

	closers []func() error
}

type envOptions struct {
	logToFile bool
	metrics   *observe.Metrics
}

func newEnv(opts envOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{cfg: cfg, metrics: opts.metrics}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}

	if opts.logToFile {
		l, closeLog, err := logging.SetupFile(cfg.GetLogConfig())
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		e.log = l
		e.closers = append(e.closers, closeLog)
	} else {
		l, err := logging.Setup(cfg.GetLogConfig())
		if err != nil {
			return nil, err
		}
		e.log = l
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)
	e.cache = cache.NewSQLite(st.DB())

	qcfg := cfg.GetQuranConfig()
	e.quran = quran.New(qcfg,
		quran.WithCache(e.cache, quran.TTLFromConfig(cfg.GetCacheConfig())),
		quran.WithMetrics(e.metrics),
		quran.WithLogger(e.log),
	)
	community := translit.NewCommunity(qcfg.TranslitURL, e.cache, cfg.GetCacheConfig().TranslitTTL(), e.metrics)
	e.translit = translit.NewSource(community, e.log)

	return e, nil
}

func (e *env) reciter(cmd *cobra.Command) int {
	if id, err := cmd.Flags().GetInt("reciter"); err == nil && id > 0 {
		return id
	}
	return e.cfg.GetQuranConfig().Reciter
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// resolveChapter accepts a chapter number or a fuzzy chapter name.
func (e *env) resolveChapter(ctx context.Context, arg string) (quran.Chapter, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > maxChapter {
			return quran.Chapter{}, fmt.Errorf("chapter %d: must be between 1 and %d", n, maxChapter)
		}
		return quran.Chapter{ID: n}, nil
	}
	chapters, err := e.quran.Chapters(ctx)
	if err != nil {
		return quran.Chapter{}, fmt.Errorf("list chapters: %w", err)
	}
	ch, err := search.NewChapterFinder(chapters).Resolve(arg)
	if err != nil {
		return quran.Chapter{}, fmt.Errorf("chapter %q: %w", arg, err)
	}
	return ch, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
