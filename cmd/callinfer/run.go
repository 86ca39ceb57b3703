package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/funvibe/callinfer/internal/config"
	"github.com/funvibe/callinfer/internal/inference"
	"github.com/funvibe/callinfer/internal/logging"
	"github.com/funvibe/callinfer/internal/pipeline"
	"github.com/funvibe/callinfer/internal/trace"
)

func isScenarioFile(path string) bool {
	return slices.Contains(config.ScenarioFileExtensions, strings.ToLower(filepath.Ext(path)))
}

// scenarioFiles returns path itself or, for a directory, the scenario files
// directly inside it in name order. Settings files are not scenarios.
func scenarioFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isScenarioFile(name) || slices.Contains(config.SettingsFileNames, name) {
			continue
		}
		files = append(files, filepath.Join(path, name))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", path)
	}
	return files, nil
}

// loadSettings finds the settings file governing path, falling back to the
// defaults when there is none.
func loadSettings(path string) (*config.Settings, error) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	settingsPath, err := config.FindSettings(dir)
	if err != nil {
		return nil, err
	}
	if settingsPath == "" {
		return config.DefaultSettings(), nil
	}
	return config.LoadSettings(settingsPath)
}

// runner completes scenario files with shared settings and trace store.
type runner struct {
	mode  inference.CompletionMode
	store *trace.Store
}

func newRunner(settings *config.Settings) (*runner, error) {
	mode, err := inference.ParseCompletionMode(settings.Mode)
	if err != nil {
		return nil, err
	}
	r := &runner{mode: mode}
	if settings.TraceDB != "" {
		store, err := trace.OpenStore(settings.TraceDB)
		if err != nil {
			return nil, err
		}
		r.store = store
	}
	return r, nil
}

func (r *runner) close() {
	if r.store == nil {
		return
	}
	if err := r.store.Err(); err != nil {
		logging.LogError("Trace Error", err)
	}
	if err := r.store.Close(); err != nil {
		logging.LogError("Trace Error", err)
	}
}

// runFile completes one scenario file and reports whether it failed.
func (r *runner) runFile(ctx context.Context, path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		logging.LogError("File Error", err)
		return true
	}

	pctx := pipeline.NewPipelineContext(content, path)
	pctx.Context = ctx
	pctx.DefaultMode = r.mode
	var tracer trace.Tracer = trace.LogTracer{}
	if r.store != nil {
		if _, err := r.store.Begin(path); err != nil {
			logging.LogError("Trace Error", err)
		} else {
			tracer = trace.Multi{tracer, r.store}
		}
	}
	pctx.Tracer = tracer

	result := pipeline.New(
		&pipeline.LoadProcessor{},
		&pipeline.CompleteProcessor{},
		&pipeline.ReportProcessor{},
	).Run(pctx)
	return result.Failed()
}

// runAll completes every file and reports whether any failed.
func (r *runner) runAll(ctx context.Context, files []string) bool {
	failed := false
	for _, file := range files {
		if ctx.Err() != nil {
			return true
		}
		if r.runFile(ctx, file) {
			failed = true
		}
	}
	return failed
}

func execRunCommand(path string, settings *config.Settings) int {
	files, err := scenarioFiles(path)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return 2
	}
	r, err := newRunner(settings)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 2
	}
	defer r.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := r.runAll(ctx, files)
	if settings.Watch {
		if err := r.watch(ctx, files); err != nil {
			logging.PrintErrorMessage("Watch Error", err)
			return 2
		}
		return 0
	}
	if failed {
		return 1
	}
	return 0
}

func execRunsCommand(path string, withEvents bool) int {
	if _, err := os.Stat(path); err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return 2
	}
	store, err := trace.OpenStore(path)
	if err != nil {
		logging.PrintErrorMessage("Trace Error", err)
		return 2
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		logging.PrintErrorMessage("Trace Error", err)
		return 2
	}
	for _, run := range runs {
		fmt.Printf("%s  %s  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, run.Label)
		if !withEvents {
			continue
		}
		events, err := store.Events(run.ID)
		if err != nil {
			logging.PrintErrorMessage("Trace Error", err)
			return 2
		}
		for _, e := range events {
			fmt.Printf("    %-18s %s %s\n", e.Kind, e.Subject, e.Detail)
		}
	}
	return 0
}
