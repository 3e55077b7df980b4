package nerdgraph_test

import (
	"context"
	"io"

	"github.com/newrelic/newrelic-client-go/newrelic"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal/config"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/nerdgraph"
	"github.com/gideaworx/newrelic-synthetics-exporter/internal/nerdgraph/nerdgraphtest"
)

const twoMonitors = `[
	{"accountId":1,"guid":"browser-guid","name":"Homepage","monitorType":"BROWSER","monitoredUrl":"https://example.com","period":5,"tags":[]},
	{"accountId":1,"guid":"script-guid","name":"Login API","monitorType":"SCRIPT_API","period":15,"tags":[{"key":"monitorStatus","values":["Enabled"]}]}
]`

var _ = Describe("Client", func() {
	var (
		server *nerdgraphtest.Server
		client *nerdgraph.Client
	)

	BeforeEach(func() {
		server = nerdgraphtest.NewServer(twoMonitors)
		server.SetScript("script-guid", "console.log(1)")

		log := logrus.New()
		log.SetOutput(io.Discard)

		cfg := config.New()
		cfg.APIKey = "test-api-key"

		var err error
		client, err = nerdgraph.NewClient(cfg, log,
			newrelic.ConfigBaseURL(server.URL),
			newrelic.ConfigNerdGraphBaseURL(server.URL),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("refuses to build without an API key", func() {
		cfg := config.New()
		cfg.APIKey = ""
		_, err := nerdgraph.NewClient(cfg, logrus.New())
		Expect(err).To(MatchError(config.ErrMissingAPIKey))
	})

	It("sends the API key as a header", func() {
		_, err := client.SearchMonitors(context.Background(), config.DefaultLocatorQuery)
		Expect(err).NotTo(HaveOccurred())
		Expect(server.APIKeys()).To(ConsistOf("test-api-key"))
	})

	It("returns the data envelope undecoded", func() {
		data, err := client.Query(context.Background(), "{ actor { entitySearch } }", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix(`{"actor":{"entitySearch"`))
	})

	It("searches monitors", func() {
		entities, err := client.SearchMonitors(context.Background(), config.DefaultLocatorQuery)
		Expect(err).NotTo(HaveOccurred())
		Expect(entities).To(HaveLen(2))
		Expect(entities[0].GUID).To(Equal("browser-guid"))
		Expect(entities[1].MonitorType).To(Equal("SCRIPT_API"))
	})

	It("fetches a script", func() {
		text, err := nerdgraph.NewScriptFetcher(client).FetchScript(context.Background(), 1, "script-guid")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("console.log(1)"))
	})

	It("reports HTTP failures as query errors", func() {
		_, err := nerdgraph.NewScriptFetcher(client).FetchScript(context.Background(), 1, "unknown-guid")
		Expect(err).To(MatchError(nerdgraph.ErrQuery))
	})
})
