package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gideaworx/newrelic-synthetics-exporter/internal/monitors"
)

var ErrManifest = errors.New("error writing monitor manifest")

var manifestHeader = []string{
	"account",
	"account_id",
	"name",
	"monitor_type",
	"monitored_url",
	"period",
	"monitor_status",
	"guid",
}

// manifestWriter is owned by the orchestrating goroutine only.
type manifestWriter struct {
	file *os.File
	csv  *csv.Writer
	rows int
}

// createManifest truncates or creates path and writes the header row. The
// parent directory must already exist.
func createManifest(path string) (*manifestWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	m := &manifestWriter{file: f, csv: csv.NewWriter(f)}
	if err := m.csv.Write(manifestHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	return m, nil
}

func (m *manifestWriter) Write(record monitors.ExportRecord) error {
	row := []string{
		optional(record.Account),
		strconv.Itoa(record.AccountID),
		record.Name,
		record.MonitorType,
		optional(record.MonitoredURL),
		strconv.Itoa(record.Period),
		optional(record.MonitorStatus),
		record.GUID,
	}

	if err := m.csv.Write(row); err != nil {
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}

	m.rows++
	return nil
}

// Close flushes every buffered row to disk and closes the file.
func (m *manifestWriter) Close() error {
	m.csv.Flush()
	if err := m.csv.Error(); err != nil {
		m.file.Close()
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}

	if err := m.file.Sync(); err != nil {
		m.file.Close()
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}

	if err := m.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}

	return nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
