package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/andreluizsf/olist-analytics/internal/dataset"
	"github.com/andreluizsf/olist-analytics/internal/integrity"
	"github.com/andreluizsf/olist-analytics/internal/reports"
	"github.com/andreluizsf/olist-analytics/internal/reports/render"
	"github.com/andreluizsf/olist-analytics/internal/reports/types"
	"github.com/andreluizsf/olist-analytics/pkg/config"
	"github.com/andreluizsf/olist-analytics/pkg/db"
	pkgerrors "github.com/andreluizsf/olist-analytics/pkg/errors"
	"github.com/andreluizsf/olist-analytics/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "reports"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "reports",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	req := types.RunRequest{
		Reports:    os.Args[1:],
		Strictness: cfg.Reports.Strictness,
	}
	if err := req.Validate(); err != nil {
		logg.Error(ctx, "invalid arguments", err)
		os.Exit(pkgerrors.MetadataFor(pkgerrors.CodeValidation).ExitStatus)
	}

	analysisNow, err := cfg.Reports.AnalysisNow()
	requireResource(ctx, logg, "analysis time", err)

	client, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "failed to close database", err)
		}
	}()

	runCtx := logg.WithRunID(ctx, uuid.NewString())
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":        cfg.App.Env,
		"strictness": cfg.Reports.Strictness,
	})

	loader := dataset.NewLoader(client, cfg.Dataset, cfg.DB.InsertBatchSize, logg)
	if err := loader.Load(runCtx); err != nil {
		logg.Error(runCtx, "dataset load failed", err)
		os.Exit(exitStatus(err))
	}
	logg.Info(runCtx, "dataset loaded")

	checker := integrity.NewChecker(client, cfg.Reports.IsStrict(), logg)
	violations, err := checker.Check(runCtx)
	if err != nil {
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeMissingReference {
			// Probe failures mean the dataset itself is unusable.
			logg.Error(runCtx, "integrity check failed", err)
			os.Exit(exitStatus(err))
		}
	}
	if len(violations) > 0 {
		logg.Warn(logg.WithField(runCtx, "violations", len(violations)), "dataset has unresolved references")
	}

	service, err := reports.NewService(client, logg, reports.Options{
		Strict:            cfg.Reports.IsStrict(),
		Violations:        violations,
		StaleWindowMonths: cfg.Reports.StaleWindowMonths,
		AnalysisTime:      analysisNow,
	})
	requireResource(runCtx, logg, "reports service", err)

	results := service.RunAll(runCtx, req.Names())

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stdout, "== %s ==\nFAILED: %v\n\n", res.Name, res.Err)
			continue
		}
		if err := render.Write(os.Stdout, res.Table); err != nil {
			logg.Error(runCtx, "rendering report", err)
			failed++
		}
		fmt.Fprintln(os.Stdout)
	}

	logg.Info(logg.WithFields(runCtx, map[string]any{
		"reports": len(results),
		"failed":  failed,
	}), "run complete")

	if failed > 0 {
		os.Exit(pkgerrors.MetadataFor(pkgerrors.CodeMissingReference).ExitStatus)
	}
}

func exitStatus(err error) int {
	if typed := pkgerrors.As(err); typed != nil {
		return pkgerrors.MetadataFor(typed.Code()).ExitStatus
	}
	return 1
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
