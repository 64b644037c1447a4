package api

// StatusType drives the styling of the status banner on the dashboard.
type StatusType string

// String implements Stringer interface
func (st StatusType) String() string {
	return string(st)
}

const (
	StatusSuccess StatusType = "success"
	StatusInfo    StatusType = "info"
	StatusWarning StatusType = "warning"
	StatusError   StatusType = "error"
	// StatusNone means nothing worth a banner happened (pure cache hit)
	StatusNone StatusType = ""
)

// ListRequest selects the sources of a bulk page and optionally forces a
// refresh. Empty region/environment selections fall back to the ones saved
// in the session.
type ListRequest struct {
	Regions      []string `json:"regions"`
	Environments []string `json:"environments"`
	ForceRefresh bool     `json:"force_refresh"`
}

// ListResponse is the common shape of the bulk pages: the merged records
// plus the aggregate status the narrator produced.
type ListResponse[R any] struct {
	Records              []R        `json:"records"`
	StatusMessage        string     `json:"status_message"`
	StatusType           StatusType `json:"status_type"`
	Fetched              int        `json:"fetched"`
	Cached               int        `json:"cached"`
	Errors               []string   `json:"errors"`
	CacheTimestamp       string     `json:"cache_timestamp,omitempty"`
	Regions              []string   `json:"regions"`
	Environments         []string   `json:"environments"`
	SelectedRegions      []string   `json:"selected_regions"`
	SelectedEnvironments []string   `json:"selected_environments"`
}
