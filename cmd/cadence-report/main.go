// Command cadence-report runs one analysis over a timestamp CSV and writes
// the markdown report, without starting the service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cadencestack/cadence-engine/internal/cache"
	"github.com/cadencestack/cadence-engine/internal/engine"
	"github.com/cadencestack/cadence-engine/internal/ingest"
	"github.com/cadencestack/cadence-engine/internal/repo"
	"github.com/cadencestack/cadence-engine/internal/report"
	"github.com/cadencestack/cadence-engine/internal/retrieval"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

func main() {
	var (
		csvPath    string
		corpusPath string
		outPath    string
		k          int
		category   string
	)
	flag.StringVar(&csvPath, "csv", "", "Path to a timestamp CSV (ts or timestamp column)")
	flag.StringVar(&corpusPath, "corpus", "configs/snippets/default.json", "Path to the snippet corpus")
	flag.StringVar(&outPath, "out", "report.md", "Output path for the markdown report")
	flag.IntVar(&k, "k", 4, "Number of suggestions to retrieve")
	flag.StringVar(&category, "category", "", "Optional snippet category filter")
	flag.Parse()

	logger := utils.NewLogger("info", false)
	if csvPath == "" {
		logger.Error("missing required -csv flag")
		os.Exit(2)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		logger.Error("failed to open csv", slog.Any("error", err))
		os.Exit(1)
	}
	defer file.Close()

	table, err := ingest.ParseCSV(file)
	if err != nil {
		logger.Error("failed to parse csv", slog.Any("error", err))
		os.Exit(1)
	}

	snippetRepo := repo.NewSnippetRepo(logger, corpusPath, 5*time.Second, cache.NoopProvider{}, 0)
	pipeline := engine.NewPipeline(logger, snippetRepo, retrieval.NewEngine(), k, k)

	meta := map[string]string{
		"generated_at": time.Now().Format("2006-01-02 15:04:05"),
		"source":       csvPath,
	}
	result, err := pipeline.AnalyzeTable(context.Background(), table, k, category, meta)
	if err != nil {
		logger.Error("analysis failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, report.Render(result), 0o644); err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("%s: %s (avoidance %.2f, risk %.2f)\n", outPath, result.Scores.Pattern, result.Scores.Avoidance, result.Scores.Risk)
}
