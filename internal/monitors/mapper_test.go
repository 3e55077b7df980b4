package monitors_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal/monitors"
)

func ptr(s string) *string {
	return &s
}

var _ = Describe("Mapper", func() {
	entity := monitors.RawEntity{
		AccountID:    12345,
		GUID:         "MTIzNDV8U1lOVEh8TU9OSVRPUnxhYmM",
		Name:         "Checkout API",
		MonitorType:  "SCRIPT_API",
		MonitoredURL: ptr("https://example.com/checkout"),
		Period:       15,
		Tags: []monitors.Tag{
			{Key: "env", Values: []string{"prod"}},
			{Key: "account", Values: []string{"Payments", "Other"}},
			{Key: "monitorStatus", Values: []string{"Enabled"}},
		},
	}

	Describe("ToRecord", func() {
		It("copies the scalar fields and flattens the tags", func() {
			record := monitors.ToRecord(entity)

			Expect(record).To(Equal(monitors.ExportRecord{
				Account:       ptr("Payments"),
				AccountID:     12345,
				Name:          "Checkout API",
				MonitorType:   "SCRIPT_API",
				MonitoredURL:  ptr("https://example.com/checkout"),
				Period:        15,
				MonitorStatus: ptr("Enabled"),
				GUID:          "MTIzNDV8U1lOVEh8TU9OSVRPUnxhYmM",
			}))
		})

		It("returns the same record for the same entity", func() {
			Expect(monitors.ToRecord(entity)).To(Equal(monitors.ToRecord(entity)))
		})

		It("leaves account and status absent without matching tags", func() {
			bare := entity
			bare.Tags = []monitors.Tag{{Key: "env", Values: []string{"prod"}}}

			record := monitors.ToRecord(bare)
			Expect(record.Account).To(BeNil())
			Expect(record.MonitorStatus).To(BeNil())
		})

		It("handles entities with no tags and no monitored url", func() {
			bare := entity
			bare.Tags = nil
			bare.MonitoredURL = nil

			record := monitors.ToRecord(bare)
			Expect(record.Account).To(BeNil())
			Expect(record.MonitoredURL).To(BeNil())
		})

		It("uses the first occurrence of a repeated key", func() {
			repeated := entity
			repeated.Tags = []monitors.Tag{
				{Key: "monitorStatus", Values: []string{"Disabled"}},
				{Key: "account", Values: []string{"v1", "v2"}},
				{Key: "monitorStatus", Values: []string{"Enabled"}},
				{Key: "account", Values: []string{"later"}},
			}

			record := monitors.ToRecord(repeated)
			Expect(*record.MonitorStatus).To(Equal("Disabled"))
			Expect(*record.Account).To(Equal("v1"))
		})

		It("treats a matching tag without values as absent", func() {
			empty := entity
			empty.Tags = []monitors.Tag{{Key: "account"}}

			Expect(monitors.ToRecord(empty).Account).To(BeNil())
		})

		It("does not share the tag value with the entity", func() {
			tags := []monitors.Tag{{Key: "account", Values: []string{"before"}}}
			source := entity
			source.Tags = tags

			record := monitors.ToRecord(source)
			tags[0].Values[0] = "after"
			Expect(*record.Account).To(Equal("before"))
		})
	})

	Describe("IsScripted", func() {
		DescribeTable("matches the SCRIPT prefix",
			func(monitorType string, expected bool) {
				Expect(monitors.IsScripted(monitors.RawEntity{MonitorType: monitorType})).To(Equal(expected))
			},
			Entry("scripted api", "SCRIPT_API", true),
			Entry("scripted browser", "SCRIPT_BROWSER", true),
			Entry("simple browser", "BROWSER", false),
			Entry("ping", "SIMPLE", false),
			Entry("step monitor", "STEP_MONITOR", false),
			Entry("lower case", "script_api", false),
		)
	})

	Describe("Validate", func() {
		It("accepts an entity with a guid", func() {
			Expect(monitors.Validate(entity)).To(Succeed())
		})

		It("rejects an entity without a guid", func() {
			missing := entity
			missing.GUID = ""
			err := monitors.Validate(missing)
			Expect(err).To(MatchError(monitors.ErrMissingGUID))
			Expect(err.Error()).To(ContainSubstring("Checkout API"))
		})
	})

	Describe("SanitizeName", func() {
		It("replaces path separators with underscores", func() {
			Expect(monitors.SanitizeName("prod/api\\login")).To(Equal("prod_api_login"))
		})

		It("leaves every other character alone", func() {
			name := "Login: Check (EU) ünïcode 🙂"
			Expect(monitors.SanitizeName(name)).To(Equal(name))
		})

		It("keeps the length and never leaves a separator", func() {
			for _, name := range []string{"/", "a/b/c", "\\\\", "x/../y", ""} {
				sanitized := monitors.SanitizeName(name)
				Expect(sanitized).To(HaveLen(len(name)))
				Expect(strings.ContainsAny(sanitized, "/\\")).To(BeFalse())
			}
		})
	})
})
