package cli

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/sentorder/internal/adapters/driven/ai"
	"github.com/custodia-labs/sentorder/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sentorder/internal/adapters/driven/frequency"
	"github.com/custodia-labs/sentorder/internal/adapters/driven/parser"
	"github.com/custodia-labs/sentorder/internal/adapters/driven/parser/udpipe"
	"github.com/custodia-labs/sentorder/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
	"github.com/custodia-labs/sentorder/internal/core/ports/driving"
	"github.com/custodia-labs/sentorder/internal/core/services"
	"github.com/custodia-labs/sentorder/internal/logger"
	"github.com/custodia-labs/sentorder/internal/telemetry"
)

// wire builds the services from the configuration in dir. Only an
// unreadable config is fatal: settings commands must keep working while
// the embedding provider, database or frequency table are broken.
func wire(dir string, withHistory bool) error {
	logger.Section("Wiring")

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("close: %v", err)
			}
		}
	}

	recorder := telemetry.NewRecorder()
	opts := []services.ReorderOption{services.WithRecorder(recorder)}

	var history driving.HistoryService
	if withHistory {
		store, err := sqlite.NewStore(dataDir(dir))
		if err != nil {
			logger.Warn("run history disabled: %v", err)
		} else {
			logger.Debug("history database: %s", store.Path())
			closers = append(closers, store.Close)
			opts = append(opts,
				services.WithRunStore(store.RunStore()),
				services.WithEmbeddingStore(store.EmbeddingStore()))
			history = services.NewHistoryService(store.RunStore())
		}
	}

	if settings.Frequency.Path != "" {
		table, err := frequency.Load(settings.Frequency.Path)
		if err != nil {
			logger.Warn("frequency metrics disabled: %v", err)
		} else {
			logger.Debug("frequency table: %d entries", table.Len())
			opts = append(opts, services.WithFrequencyTable(table))
		}
	}

	var reorder driving.ReorderService
	var missing error
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("embedding provider unavailable: %v", err)
		missing = fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	} else {
		closers = append(closers, embedder.Close)
		reorder = services.NewReorderService(newParser(settings), embedder, settingsSvc, opts...)
	}

	settingsService = settingsSvc
	reorderService = reorder
	historyService = history
	metricsHandler = recorder.Handler()
	reorderErr = missing
	cleanup = closeAll
	return nil
}

// newParser reads CoNLL-U directly and sends plain text to UDPipe when a
// parser URL is configured.
func newParser(settings *domain.Settings) driven.Parser {
	if settings.Parser.URL == "" {
		return parser.NewDetecting(nil)
	}
	return parser.NewDetecting(udpipe.NewParser(udpipe.Config{
		URL:               settings.Parser.URL,
		Model:             settings.Parser.Model,
		RequestsPerSecond: settings.Embedding.RequestsPerSecond,
	}))
}

// dataDir returns the database directory under dir, or "" for the default.
func dataDir(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "data")
}
