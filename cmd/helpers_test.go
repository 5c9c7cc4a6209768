package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/config"
)

// testConfig returns a valid configuration writing into a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	files := baseline.DefaultFiles()
	c := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "json"},
		Server: config.ServerConfig{Port: 8080, CORSOrigins: []string{"*"}, MaxUploadMB: 1},
		Batch:  config.BatchConfig{MaxConcurrentReports: 2},
		Report: config.ReportConfig{OutputDir: t.TempDir(), CurrencyLocale: "en-US"},
		Baseline: config.BaselineConfig{
			BedDaysFile:       files.BedDays,
			HaiRatesFile:      files.HaiRates,
			AntibioticDotFile: files.AntibioticDot,
		},
		Projection: config.ProjectionConfig{HorizonYears: 5},
		Monitoring: config.MonitoringConfig{FailureRateThreshold: 0.25},
	}
	require.NoError(t, c.Validate())
	return c
}

func testEnv(t *testing.T) *appEnv {
	t.Helper()
	env, err := initEnv(testConfig(t))
	require.NoError(t, err)
	return env
}
