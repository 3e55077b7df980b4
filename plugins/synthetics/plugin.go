package synthetics

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/gideaworx/terraform-exporter-plugin/go-plugin"
	"github.com/newrelic/newrelic-client-go/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/config"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/export"
)

var Version string = "0.1.0"

// SyntheticExporterCommand exports the monitor manifest and scripts, and
// renders each script monitor as a Terraform resource the host can import.
type SyntheticExporterCommand struct {
	AccountID       int    `short:"i" required:"true" help:"The New Relic Account ID"`
	APIKey          string `short:"k" required:"true" help:"An API Key for the New Relic Account ID"`
	LocatorQuery    string `short:"q" default:"domain = 'SYNTH' AND type = 'MONITOR'" help:"The query used with NerdGraph to find monitors to export. Defaults to all synthetic monitors."`
	Region          string `default:"US" enum:"US,EU" help:"The New Relic region of the account."`
	ParallelWorkers uint   `short:"w" default:"10" hidden:"true" help:"Number of scripts to fetch in parallel. Defaults to 10"`
	nrClientOptions []newrelic.ConfigOption
	log             *logrus.Logger
}

func NewSyntheticExporterCommand(options ...newrelic.ConfigOption) *SyntheticExporterCommand {
	return &SyntheticExporterCommand{
		nrClientOptions: options,
		log:             logrus.New(),
	}
}

func (s *SyntheticExporterCommand) Help() (string, error) {
	return internal.CommandHelp(s)
}

func (s *SyntheticExporterCommand) Info() (plugin.CommandInfo, error) {
	return plugin.CommandInfo{
		Name:        "newrelic-synthetic-monitors",
		Description: "Export New Relic Synthetic Monitors, their scripts, and Terraform resources for scripted monitors",
		Summary:     "Export New Relic Synthetic Monitors from the specified New Relic Account",
		Version:     plugin.FromString(Version),
	}, nil
}

func (s *SyntheticExporterCommand) Export(request plugin.ExportCommandRequest) (plugin.ExportResponse, error) {
	k, err := kong.New(s)
	if err != nil {
		return plugin.ExportResponse{}, err
	}

	if _, err = k.Parse(request.PluginArgs); err != nil {
		return plugin.ExportResponse{}, err
	}

	if s.log == nil {
		s.log = logrus.New()
	}

	cfg := s.config(request)
	exporter, err := export.NewFromConfig(cfg, s.log, s.nrClientOptions...)
	if err != nil {
		return plugin.ExportResponse{}, err
	}

	// a partial export still reports the directives it produced
	result, err := exporter.Run(context.Background())

	directives := make([]plugin.ImportDirective, 0, len(result.Directives))
	for _, d := range result.Directives {
		directives = append(directives, plugin.ImportDirective{
			Resource: d.Resource,
			Name:     d.Name,
			ID:       d.ID,
		})
	}

	return plugin.ExportResponse{Directives: directives}, err
}

func (s *SyntheticExporterCommand) config(request plugin.ExportCommandRequest) *config.Config {
	cfg := config.New()
	cfg.APIKey = s.APIKey
	cfg.AccountID = s.AccountID
	cfg.Region = s.Region
	cfg.LocatorQuery = s.LocatorQuery
	cfg.OutputDir = request.OutputDirectory
	cfg.CreateOutputDir = true
	cfg.Workers = s.ParallelWorkers
	cfg.Terraform = true

	if request.SkipProviderOutput {
		cfg.AccountID = 0
	}

	return cfg
}
