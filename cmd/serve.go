package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/FReptar0/EvoSystems/internal/analytics"
	"github.com/FReptar0/EvoSystems/internal/config"
	"github.com/FReptar0/EvoSystems/internal/debounce"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/metrics"
	"github.com/FReptar0/EvoSystems/internal/server"
)

var (
	serverPort int
	noWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally with the JSON API and rebuilds on changes",
	Long: `The serve command performs an initial build, then serves the output
directory together with the search, blog, city, contact and analytics API and
Prometheus metrics. It watches the content, data, static and layouts
directories and rebuilds the site when they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if noWatch {
			cfg.Server.Watch = false
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		catalog, err := i18n.LoadCatalog()
		if err != nil {
			return fmt.Errorf("load translations: %w", err)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		log.Info("Performing initial build...")
		snap, err := rebuild(cfg, catalog, m)
		if err != nil {
			return fmt.Errorf("initial build failed, fix the issues and try again: %w", err)
		}

		tracker := newTracker(cfg, m)
		tracker.Start()
		defer tracker.Stop()

		srv := server.New(server.Options{
			Port:          cfg.Server.Port,
			Debug:         cfg.Server.Debug,
			OutputDir:     cfg.Site.OutputDir,
			WhatsAppPhone: cfg.Contact.WhatsAppPhone,
			ContactEmail:  cfg.Contact.Email,
			Related:       relatedResolver(cfg),
			CityLimit:     cfg.Related.CityLimit,
		}, server.Deps{
			Catalog:  catalog,
			Snapshot: snap,
			Tracker:  tracker,
			Metrics:  m,
			Gatherer: reg,
			Logger:   log,
		})

		if cfg.Server.Watch {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create file watcher: %w", err)
			}
			defer watcher.Close()

			for _, root := range watchRoots(cfg) {
				addWatchTree(watcher, root)
			}
			var mu sync.Mutex
			go watch(ctx, watcher, debounce.New(cfg.Server.WatchDebounce), func() {
				mu.Lock()
				defer mu.Unlock()
				log.Info("Rebuilding site due to changes...")
				next, err := rebuild(cfg, catalog, m)
				if err != nil {
					log.Error("Rebuild failed", logger.Error(err))
					return
				}
				srv.Swap(next)
			})
		}

		log.Info("Serving site",
			logger.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			logger.Bool("watch", cfg.Server.Watch),
		)
		return srv.Run(ctx)
	},
}

func newTracker(cfg *config.Config, m *metrics.Metrics) *analytics.Tracker {
	var sender analytics.Sender
	if cfg.Analytics.Enabled {
		sender = analytics.NewHTTPSender(
			&http.Client{Timeout: cfg.Analytics.Timeout},
			cfg.Analytics.Endpoint,
			cfg.Analytics.MeasurementID,
			cfg.Analytics.APISecret,
		)
	}
	return analytics.NewTracker(sender, log, m, analytics.TrackerOptions{
		BufferSize: cfg.Analytics.BufferSize,
		Timeout:    cfg.Analytics.Timeout,
	})
}

// watchRoots are the directories whose changes trigger a rebuild. The
// output directory is never watched.
func watchRoots(cfg *config.Config) []string {
	roots := []string{cfg.Site.ContentDir, cfg.Site.DataDir, cfg.Site.StaticDir, cfg.Site.LayoutsDir}
	seen := make(map[string]bool, len(roots))
	var out []string
	for _, r := range roots {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func addWatchTree(watcher *fsnotify.Watcher, root string) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Warn("Directory not found, not watching", logger.String("path", root))
		return
	}
	log.Debug("Watching directory tree", logger.String("path", root))
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn("Error walking directory", logger.String("path", path), logger.Error(err))
			return nil
		}
		if d.IsDir() {
			if watchErr := watcher.Add(path); watchErr != nil {
				log.Warn("Failed to watch directory", logger.String("path", path), logger.Error(watchErr))
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("Error setting up watches", logger.String("path", root), logger.Error(err))
	}
}

// watch coalesces bursts of file events into one call to onChange.
func watch(ctx context.Context, watcher *fsnotify.Watcher, d *debounce.Debouncer, onChange func()) {
	defer d.Cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("Change detected", logger.String("path", event.Name), logger.String("op", event.Op.String()))

			// new subdirectories are not watched automatically
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addWatchTree(watcher, event.Name)
			}
			d.Debounce(onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("Watcher error", logger.Error(err))
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not rebuild on file changes")
	rootCmd.AddCommand(serveCmd)
}
