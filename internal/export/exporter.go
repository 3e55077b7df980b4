package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/newrelic/newrelic-client-go/newrelic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal/config"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/monitors"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/nerdgraph"
)

// State is how far a run got.
type State int

const (
	Querying State = iota
	ManifestWritten
	Completed
)

func (s State) String() string {
	switch s {
	case Querying:
		return "querying"
	case ManifestWritten:
		return "manifest written"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type MonitorSource interface {
	SearchMonitors(ctx context.Context, locatorQuery string) ([]monitors.RawEntity, error)
}

type ScriptSource interface {
	FetchScript(ctx context.Context, accountID int, guid string) (string, error)
}

// Result describes what a run left on disk. It is meaningful even when Run
// returns an error.
type Result struct {
	State        State
	ManifestPath string
	Monitors     int
	Scripts      int
	Directives   []ImportDirective
}

type Exporter struct {
	cfg       *config.Config
	source    MonitorSource
	scripts   ScriptSource
	terraform *terraformWriter
	log       logrus.FieldLogger
}

func New(cfg *config.Config, source MonitorSource, scripts ScriptSource, log logrus.FieldLogger) *Exporter {
	e := &Exporter{
		cfg:     cfg,
		source:  source,
		scripts: scripts,
		log:     log,
	}

	if cfg.Terraform {
		e.terraform = &terraformWriter{dir: cfg.TerraformPath()}
	}

	return e
}

// NewFromConfig builds a single NerdGraph client and shares it between the
// monitor search and the script fetches.
func NewFromConfig(cfg *config.Config, log logrus.FieldLogger, options ...newrelic.ConfigOption) (*Exporter, error) {
	client, err := nerdgraph.NewClient(cfg, log, options...)
	if err != nil {
		return nil, err
	}

	return New(cfg, client, nerdgraph.NewScriptFetcher(client), log), nil
}

// scriptTask holds its own copy of everything a fetch needs.
type scriptTask struct {
	monitor  monitors.RawEntity
	fileName string
}

type taskOutcome struct {
	path      string
	directive *ImportDirective
	err       error
}

// Run queries every monitor, writes the manifest, then fetches the scripts of
// scripted monitors in parallel. The manifest is complete before any script is
// fetched. Script failures do not stop other scripts; they are returned
// together once every task has finished, and whatever was written stays.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	result := Result{State: Querying, ManifestPath: e.cfg.ManifestPath()}

	e.log.WithField("query", e.cfg.LocatorQuery).Info("searching for synthetic monitors")
	entities, err := e.source.SearchMonitors(ctx, e.cfg.LocatorQuery)
	if err != nil {
		return result, err
	}

	tasks, err := e.writeManifest(entities)
	if err != nil {
		return result, err
	}

	result.State = ManifestWritten
	result.Monitors = len(entities)
	e.log.WithFields(logrus.Fields{
		"path":     result.ManifestPath,
		"monitors": result.Monitors,
		"scripts":  len(tasks),
	}).Info("wrote monitor manifest")

	var errs []error
	if e.terraform != nil && e.cfg.AccountID != 0 {
		if err := e.terraform.writeProvider(e.cfg.AccountID); err != nil {
			errs = append(errs, err)
		}
	}

	failed := 0
	for _, outcome := range e.runTasks(ctx, tasks) {
		if outcome.err != nil {
			failed++
			errs = append(errs, outcome.err)
			continue
		}

		result.Scripts++
		if outcome.directive != nil {
			result.Directives = append(result.Directives, *outcome.directive)
		}
	}

	result.State = Completed
	if len(errs) > 0 {
		return result, fmt.Errorf("%d of %d scripts failed to export: %w", failed, len(tasks), errors.Join(errs...))
	}

	return result, nil
}

func (e *Exporter) writeManifest(entities []monitors.RawEntity) ([]scriptTask, error) {
	if e.cfg.CreateOutputDir {
		if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManifest, err)
		}
	}

	manifest, err := createManifest(e.cfg.ManifestPath())
	if err != nil {
		return nil, err
	}

	tasks := []scriptTask{}
	for _, entity := range entities {
		if err := manifest.Write(monitors.ToRecord(entity)); err != nil {
			manifest.file.Close()
			return nil, err
		}

		if !monitors.IsScripted(entity) {
			if err := monitors.Validate(entity); err != nil {
				e.log.WithError(err).Warn("monitor exported without guid")
			}
			continue
		}

		monitor := entity
		monitor.Tags = append([]monitors.Tag(nil), entity.Tags...)
		tasks = append(tasks, scriptTask{
			monitor:  monitor,
			fileName: monitors.SanitizeName(entity.Name),
		})
	}

	if err := manifest.Close(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// runTasks runs every task with at most cfg.Workers in flight. Each task
// reports into its own slot, so no task can cancel another.
func (e *Exporter) runTasks(ctx context.Context, tasks []scriptTask) []taskOutcome {
	outcomes := make([]taskOutcome, len(tasks))

	var group errgroup.Group
	group.SetLimit(int(e.cfg.Workers))
	for i := range tasks {
		i := i
		group.Go(func() error {
			outcomes[i] = e.exportScript(ctx, tasks[i])
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}

func (e *Exporter) exportScript(ctx context.Context, task scriptTask) taskOutcome {
	monitor := task.monitor
	log := e.log.WithFields(logrus.Fields{"monitor": monitor.Name, "guid": monitor.GUID})
	fail := func(err error) taskOutcome {
		log.WithError(err).Error("script export failed")
		return taskOutcome{err: fmt.Errorf("monitor %q (%s): %w", monitor.Name, monitor.GUID, err)}
	}

	if err := monitors.Validate(monitor); err != nil {
		return fail(err)
	}

	script, err := e.scripts.FetchScript(ctx, monitor.AccountID, monitor.GUID)
	if err != nil {
		return fail(err)
	}

	path, err := writeScript(e.cfg.ScriptsPath(), task.fileName, script)
	if err != nil {
		return fail(err)
	}

	outcome := taskOutcome{path: path}
	if e.terraform != nil {
		directive, err := e.terraform.renderScriptMonitor(monitor, script)
		if err != nil {
			return fail(err)
		}
		outcome.directive = &directive
	}

	log.WithField("path", path).Info("exported script")
	return outcome
}
