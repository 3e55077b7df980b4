package nerdgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/newrelic/newrelic-client-go/newrelic"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal/config"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/monitors"
)

var (
	ErrQuery        = errors.New("error querying NerdGraph")
	ErrInvalidShape = errors.New("unexpected NerdGraph response shape")
)

// Querier sends a GraphQL document and returns the undecoded contents of the
// response's data envelope.
type Querier interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// Client is a NerdGraph client authenticated with a single API key. It is
// safe for concurrent use.
type Client struct {
	nr  *newrelic.NewRelic
	log logrus.FieldLogger
}

// NewClient builds the client once per run. Extra options are appended after
// the ones derived from cfg, so callers can point it at another endpoint.
func NewClient(cfg *config.Config, log logrus.FieldLogger, options ...newrelic.ConfigOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigPersonalAPIKey(cfg.APIKey),
		newrelic.ConfigRegion(cfg.Region),
		newrelic.ConfigLogLevel(cfg.LogLevel),
	}

	nr, err := newrelic.New(append(opts, options...)...)
	if err != nil {
		return nil, fmt.Errorf("error creating New Relic client: %w", err)
	}

	return &Client{nr: nr, log: log}, nil
}

func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}

	c.log.WithField("variables", variables).Debug("sending NerdGraph query")

	var data json.RawMessage
	if err := c.nr.NerdGraph.QueryWithResponseAndContext(ctx, query, variables, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	return data, nil
}

// SearchMonitors runs the entity search and decodes every returned monitor.
// Any failure here is fatal to an export.
func (c *Client) SearchMonitors(ctx context.Context, locatorQuery string) ([]monitors.RawEntity, error) {
	return SearchMonitors(ctx, c, locatorQuery)
}

func SearchMonitors(ctx context.Context, q Querier, locatorQuery string) ([]monitors.RawEntity, error) {
	data, err := q.Query(ctx, searchMonitorsQuery, map[string]any{"query": locatorQuery})
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: entity search returned invalid JSON", ErrInvalidShape)
	}

	found := gjson.GetBytes(data, entitiesPath)
	if !found.IsArray() {
		return nil, fmt.Errorf("%w: %s is not a list", ErrInvalidShape, entitiesPath)
	}

	var entities []monitors.RawEntity
	if err := json.Unmarshal([]byte(found.Raw), &entities); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}

	return entities, nil
}
