package monitors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal"
)

const (
	AccountTag       = "account"
	MonitorStatusTag = "monitorStatus"

	scriptedPrefix = "SCRIPT"
)

var ErrMissingGUID = errors.New("monitor has no guid")

// ToRecord flattens an entity. The first tag with a given key wins, and only
// its first value is used.
func ToRecord(entity RawEntity) ExportRecord {
	return ExportRecord{
		Account:       FirstTagValue(entity.Tags, AccountTag),
		AccountID:     entity.AccountID,
		Name:          entity.Name,
		MonitorType:   entity.MonitorType,
		MonitoredURL:  entity.MonitoredURL,
		Period:        entity.Period,
		MonitorStatus: FirstTagValue(entity.Tags, MonitorStatusTag),
		GUID:          entity.GUID,
	}
}

// FirstTagValue returns the first value of the first tag named key, or nil.
func FirstTagValue(tags []Tag, key string) *string {
	i := internal.IndexOfWithField(Tag{Key: key}, tags, "Key")
	if i < 0 || len(tags[i].Values) == 0 {
		return nil
	}

	v := tags[i].Values[0]
	return &v
}

// IsScripted reports whether the monitor carries a script worth fetching.
func IsScripted(entity RawEntity) bool {
	return strings.HasPrefix(entity.MonitorType, scriptedPrefix)
}

// Validate checks the fields needed to look up a monitor's script.
func Validate(entity RawEntity) error {
	if strings.TrimSpace(entity.GUID) == "" {
		return fmt.Errorf("%w: %q", ErrMissingGUID, entity.Name)
	}
	return nil
}

// SanitizeName makes a monitor name usable as a file name by replacing path
// separators with underscores. Everything else is kept as is.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}
