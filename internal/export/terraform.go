package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/monitors"
)

const (
	tfScriptMonitorType = "newrelic_synthetics_script_monitor"
	tfProviderFile      = "newrelic_provider.tf"
)

// ImportDirective identifies a rendered resource and the monitor it imports.
type ImportDirective struct {
	Resource string
	Name     string
	ID       string
}

// periods maps entity periods (minutes) to the provider's period enum.
var periods = map[int]string{
	1:    "EVERY_MINUTE",
	5:    "EVERY_5_MINUTES",
	10:   "EVERY_10_MINUTES",
	15:   "EVERY_15_MINUTES",
	30:   "EVERY_30_MINUTES",
	60:   "EVERY_HOUR",
	360:  "EVERY_6_HOURS",
	720:  "EVERY_12_HOURS",
	1440: "EVERY_DAY",
}

// imputedTags are set by the platform or rendered as attributes, so they are
// not repeated as tag blocks.
var imputedTags = []string{
	monitors.AccountTag,
	monitors.MonitorStatusTag,
	"accountId",
	"trustedAccountId",
	"monitorType",
	"period",
	"publicLocation",
	"privateLocation",
	"runtimeType",
	"runtimeTypeVersion",
	"scriptLanguage",
}

type terraformWriter struct {
	dir string
}

func (t *terraformWriter) writeProvider(accountID int) error {
	file := hclwrite.NewEmptyFile()

	tf := file.Body().AppendNewBlock("terraform", nil)
	required := tf.Body().AppendNewBlock("required_providers", nil)
	required.Body().SetAttributeValue("newrelic", cty.ObjectVal(map[string]cty.Value{
		"source": cty.StringVal("newrelic/newrelic"),
	}))
	file.Body().AppendNewline()

	provider := file.Body().AppendNewBlock("provider", []string{"newrelic"})
	provider.Body().SetAttributeValue("account_id", cty.NumberIntVal(int64(accountID)))

	_, err := t.printFile(file, tfProviderFile)
	return err
}

// renderScriptMonitor writes one script monitor resource and returns the
// directive needed to import it.
func (t *terraformWriter) renderScriptMonitor(monitor monitors.RawEntity, script string) (ImportDirective, error) {
	name := resourceName(monitor)
	file := hclwrite.NewEmptyFile()
	block := file.Body().AppendNewBlock("resource", []string{tfScriptMonitorType, name})
	body := block.Body()

	body.SetAttributeValue("name", cty.StringVal(monitor.Name))
	body.SetAttributeValue("type", cty.StringVal(monitor.MonitorType))

	locations := []string{}
	status := "ENABLED"
	tagBlocks := []*hclwrite.Block{}
	optionalAttrs := map[string]string{}
	for _, tag := range monitor.Tags {
		if len(tag.Values) == 0 {
			continue
		}

		switch tag.Key {
		case "publicLocation":
			locations = append(locations, tag.Values...)
		case monitors.MonitorStatusTag:
			status = strings.ToUpper(tag.Values[0])
		case "runtimeType":
			optionalAttrs["runtime_type"] = tag.Values[0]
		case "runtimeTypeVersion":
			optionalAttrs["runtime_type_version"] = tag.Values[0]
		case "scriptLanguage":
			optionalAttrs["script_language"] = tag.Values[0]
		}

		if internal.IndexOf(tag.Key, imputedTags) < 0 {
			tagBlock := hclwrite.NewBlock("tag", nil)
			tagBlock.Body().SetAttributeValue("key", cty.StringVal(tag.Key))
			tagBlock.Body().SetAttributeValue("values", internal.ToCtyList(tag.Values))
			tagBlocks = append(tagBlocks, tagBlock)
		}
	}

	if len(locations) > 0 {
		body.SetAttributeValue("locations_public", internal.ToCtyList(locations))
	}

	body.AppendNewline()
	if period, ok := periods[monitor.Period]; ok {
		body.SetAttributeValue("period", cty.StringVal(period))
	}
	body.SetAttributeValue("status", cty.StringVal(status))

	for _, attr := range []string{"runtime_type", "runtime_type_version", "script_language"} {
		if v, ok := optionalAttrs[attr]; ok {
			body.SetAttributeValue(attr, cty.StringVal(v))
		}
	}

	body.AppendNewline()
	body.SetAttributeRaw("script", internal.CreateHeredoc(script, "-SCRIPT", true))

	if len(tagBlocks) > 0 {
		body.AppendNewline()
		for _, b := range tagBlocks {
			body.AppendBlock(b)
		}
	}

	if _, err := t.printFile(file, name+".tf"); err != nil {
		return ImportDirective{}, err
	}

	return ImportDirective{
		Resource: tfScriptMonitorType,
		Name:     name,
		ID:       monitor.GUID,
	}, nil
}

func (t *terraformWriter) printFile(file *hclwrite.File, fileName string) (string, error) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating terraform directory: %w", err)
	}

	path := filepath.Join(t.dir, fileName)
	filePtr, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating terraform file: %w", err)
	}
	defer filePtr.Close()

	if _, err := file.WriteTo(filePtr); err != nil {
		return "", fmt.Errorf("error writing terraform file: %w", err)
	}

	return path, nil
}

func resourceName(monitor monitors.RawEntity) string {
	name := internal.ToSnakeCase(monitor.Name)
	if name == "" {
		return "monitor_" + internal.ToSnakeCase(monitor.GUID)
	}

	// identifiers cannot start with a digit
	if name[0] >= '0' && name[0] <= '9' {
		return "monitor_" + name
	}
	return name
}
