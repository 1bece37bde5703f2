package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	nari "nari/pkg/nari"

	"go.uber.org/zap"
)

type totals struct {
	games      int
	failed     int
	forced     int
	promoted   int
	declined   int
	violations int
}

func main() {
	configPath := flag.String("config", "", "path to config.json")
	inputDir := flag.String("input", "test_kif", "input directory for KIF files")
	outputPath := flag.String("output", "audit.parquet", "output parquet file")
	processNum := flag.Int("process-num", 1, "number of parallel workers")
	flag.Parse()

	cfg, err := nari.ResolveConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	logger, err := nari.NewLogger(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	files, err := nari.CollectKIF(*inputDir)
	if err != nil {
		fatal(err)
	}
	if len(files) == 0 {
		fatal(fmt.Errorf("no .kif files found in %s", *inputDir))
	}
	workers := *processNum
	if workers <= 0 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}
	if dir := filepath.Dir(*outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatal(err)
		}
	}

	jobs := make(chan string)
	audits := make(chan nari.Audit, workers)
	records := make(chan nari.AuditRecord, workers)
	writeErr := make(chan error, 1)
	go func() {
		writeErr <- nari.WriteAudits(*outputPath, records, int64(workers))
	}()

	var mu sync.Mutex
	var sum totals
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				audit, err := auditFile(path)
				if err != nil {
					logger.Warn("failed to audit", zap.String("path", path), zap.Error(err))
					mu.Lock()
					sum.failed++
					mu.Unlock()
					continue
				}
				audits <- audit
			}
		}()
	}
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for audit := range audits {
			for _, v := range audit.Violations {
				logger.Info("promotion violation",
					zap.String("game", audit.GameID), zap.Int("ply", v.Ply),
					zap.String("move", v.Move), zap.String("reason", v.Reason))
			}
			mu.Lock()
			sum.games++
			sum.forced += audit.Forced
			sum.promoted += audit.Promoted
			sum.declined += audit.Declined
			sum.violations += len(audit.Violations)
			mu.Unlock()
			records <- audit.Record()
		}
		close(records)
	}()

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(audits)
	<-collected
	if err := <-writeErr; err != nil {
		fatal(err)
	}

	fmt.Printf("games=%d failed=%d\n", sum.games, sum.failed)
	fmt.Printf("forced=%d optional_promoted=%d optional_declined=%d violations=%d\n",
		sum.forced, sum.promoted, sum.declined, sum.violations)
}

func auditFile(path string) (nari.Audit, error) {
	game, err := nari.ReadKIF(path)
	if err != nil {
		return nari.Audit{}, err
	}
	return nari.AuditGame(game)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
