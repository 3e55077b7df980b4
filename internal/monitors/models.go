package monitors

// Tag is a key with one or more values. Only the first value is meaningful
// for the keys this package reads.
type Tag struct {
	Key    string   `json:"key"`
	Values []string `json:"values,omitempty"`
}

// RawEntity is a synthetic monitor as returned by an entity search.
type RawEntity struct {
	AccountID    int     `json:"accountId"`
	GUID         string  `json:"guid"`
	Name         string  `json:"name"`
	MonitorType  string  `json:"monitorType"`
	MonitoredURL *string `json:"monitoredUrl"`
	Period       int     `json:"period"`
	Tags         []Tag   `json:"tags"`
}

// ExportRecord is the flattened, manifest-ready form of a RawEntity.
type ExportRecord struct {
	Account       *string
	AccountID     int
	Name          string
	MonitorType   string
	MonitoredURL  *string
	Period        int
	MonitorStatus *string
	GUID          string
}
