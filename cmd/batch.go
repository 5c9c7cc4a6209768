package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/bitscopic/roi-calculator/internal/export"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
	"github.com/bitscopic/roi-calculator/internal/report"
	"github.com/bitscopic/roi-calculator/internal/validation"
)

var (
	batchFile   string
	batchOutDir string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate reports for every organization in a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(cfg)
		if err != nil {
			return err
		}
		b, err := loadBatch(batchFile)
		if err != nil {
			return err
		}
		outDir := batchOutDir
		if outDir == "" {
			outDir = cfg.Report.OutputDir
		}

		res, err := processBatch(ctx, env, b, outDir, cfg.Batch.MaxConcurrentReports)
		if err != nil {
			return err
		}
		for _, p := range res.Written {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		if res.Failed > 0 {
			return eris.Errorf("batch: %d of %d reports failed", res.Failed, len(b.Organizations))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML file listing organizations")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "output directory (default from config)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// batchFileSpec is the YAML layout of a batch file.
type batchFileSpec struct {
	Format        string       `yaml:"format"`
	Organizations []batchEntry `yaml:"organizations" validate:"required,min=1,dive"`
}

// batchEntry is one organization to report on.
type batchEntry struct {
	Name         string             `yaml:"name" validate:"required"`
	Product      string             `yaml:"product" validate:"required"`
	Tier         string             `yaml:"size_tier" validate:"required"`
	Format       string             `yaml:"format"`
	Parameters   map[string]float64 `yaml:"parameters"`
	Investment   *model.Investment  `yaml:"investment"`
	BaselineDir  string             `yaml:"baseline_dir"`
	Sensitivity  bool               `yaml:"sensitivity"`
	IncludeStudy *bool              `yaml:"include_study"`
}

func loadBatch(path string) (*batchFileSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read %s", path)
	}
	var b batchFileSpec
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, eris.Wrapf(err, "batch: parse %s", path)
	}
	if err := validation.Struct(b); err != nil {
		return nil, eris.Errorf("batch: %s: %s", path, validation.Summary(err))
	}
	return &b, nil
}

// request converts an entry into a generation request.
func (e batchEntry) request(defaultFormat string, includeStudy bool) (pipeline.Request, error) {
	product, err := model.ParseProduct(e.Product)
	if err != nil {
		return pipeline.Request{}, err
	}
	tier, err := model.ParseSizeTier(e.Tier)
	if err != nil {
		return pipeline.Request{}, err
	}
	name := e.Format
	if name == "" {
		name = defaultFormat
	}
	if name == "" {
		name = string(export.FormatXLSX)
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return pipeline.Request{}, err
	}
	if e.IncludeStudy != nil {
		includeStudy = *e.IncludeStudy
	}
	return pipeline.Request{
		Product:      product,
		Tier:         tier,
		Name:         e.Name,
		Investment:   e.Investment,
		Overrides:    e.Parameters,
		Sensitivity:  e.Sensitivity,
		IncludeStudy: includeStudy,
		Format:       f,
	}, nil
}

// batchResult summarizes a batch run.
type batchResult struct {
	Written []string
	Failed  int
}

// processBatch generates every entry concurrently, at most concurrency at
// a time. A failed entry is logged and counted but does not stop the rest.
func processBatch(ctx context.Context, env *appEnv, b *batchFileSpec, outDir string, concurrency int) (*batchResult, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "batch: create %s", outDir)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("organizations", len(b.Organizations)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var failed atomic.Int64
	written := make([]string, len(b.Organizations))

	for i, entry := range b.Organizations {
		g.Go(func() error {
			log := zap.L().With(zap.String("organization", entry.Name))

			req, err := entry.request(b.Format, env.Config.Report.IncludeStudy)
			if err != nil {
				failed.Add(1)
				log.Error("batch entry invalid", zap.Error(err))
				return nil
			}
			req.Baseline, req.Notices = env.loadBaseline(entry.BaselineDir)

			out, err := env.Generator.Generate(gctx, req)
			if err != nil {
				failed.Add(1)
				log.Error("report generation failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			path := filepath.Join(outDir, reportFileName(i, entry.Name, req.Product, out.Format))
			if err := export.WriteFile(path, out.Format, out.Data); err != nil {
				failed.Add(1)
				log.Error("report write failed", zap.Error(err))
				return nil
			}
			written[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	res := &batchResult{Failed: int(failed.Load())}
	for _, p := range written {
		if p != "" {
			res.Written = append(res.Written, p)
		}
	}
	zap.L().Info("batch complete",
		zap.Int("written", len(res.Written)),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// reportFileName builds "<nn>-<slug>-<product>.<ext>" so entries with the
// same name do not overwrite each other.
func reportFileName(i int, name string, product model.Product, f export.Format) string {
	slug := report.Slug(name)
	if slug == "" {
		slug = "organization"
	}
	return fmt.Sprintf("%02d-%s-%s.%s", i+1, slug, product, f)
}
