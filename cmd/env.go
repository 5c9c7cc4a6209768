package main

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/config"
	"github.com/bitscopic/roi-calculator/internal/format"
	"github.com/bitscopic/roi-calculator/internal/monitoring"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
	"github.com/bitscopic/roi-calculator/internal/report"
)

// appEnv holds what the calculate/report/batch/serve commands share.
type appEnv struct {
	Config    *config.Config
	Generator *pipeline.Generator
	Metrics   *monitoring.Collector
	Formatter *format.Formatter
}

// initEnv builds the generator from configuration.
func initEnv(c *config.Config) (*appEnv, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}

	f := format.New(c.Report.CurrencyLocale)
	metrics := monitoring.NewCollector()
	compiler := report.NewCompiler(
		report.WithFormatter(f),
		report.WithTitlePrefix(c.Report.TitlePrefix),
	)
	gen := pipeline.New(catalog,
		pipeline.WithCompiler(compiler),
		pipeline.WithHorizon(c.Projection.HorizonYears),
		pipeline.WithObserver(metrics),
	)

	return &appEnv{Config: c, Generator: gen, Metrics: metrics, Formatter: f}, nil
}

// loadBaseline reads the configured baseline files from dir. An empty
// dir means defaults only. Notices are logged and returned for the report.
func (e *appEnv) loadBaseline(dir string) (*baseline.Source, []string) {
	if dir == "" {
		return nil, nil
	}
	res := baseline.LoadDir(dir, e.Config.Baseline.Files())
	for _, msg := range res.Messages() {
		zap.L().Warn("baseline notice", zap.String("dir", filepath.Clean(dir)), zap.String("message", msg))
	}
	if res.UsingDefaults() {
		return nil, res.Messages()
	}
	return res.Source, res.Messages()
}
