package main

import (
	"github.com/gideaworx/terraform-exporter-plugin/go-plugin"

	"github.com/gideaworx/newrelic-synthetics-exporter/plugins/synthetics"
)

var Version = "0.0.0"

// main serves the exporter to a terraform-exporter host. The standalone
// binary lives in cmd/synthexport.
func main() {
	plugin.ServeCommands(
		plugin.FromString(Version),
		plugin.RPCProtocol,
		synthetics.NewSyntheticExporterCommand(),
	)
}
