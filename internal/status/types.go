package status

import "time"

// Info describes one entry of the configurable status list.
type Info struct {
	ID    int    `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Desc  string `json:"desc" mapstructure:"desc"`
	Color string `json:"color" mapstructure:"color"`
}

// Unknown is returned when the stored status id is not in the configured
// list (usually a config edit after the fact).
var Unknown = Info{ID: -1, Name: "unknown", Desc: "unknown status id, check the status list", Color: "error"}

// PageMeta is the visitor-facing site metadata from the page config section.
type PageMeta struct {
	Name          string `json:"name" mapstructure:"name"`
	Title         string `json:"title" mapstructure:"title"`
	Desc          string `json:"desc" mapstructure:"desc"`
	Favicon       string `json:"favicon" mapstructure:"favicon"`
	Background    string `json:"background" mapstructure:"background"`
	MoreText      string `json:"more_text" mapstructure:"more_text"`
	LearnMoreLink string `json:"learn_more_link" mapstructure:"learn_more_link"`
	LearnMoreText string `json:"learn_more_text" mapstructure:"learn_more_text"`
}

// DisplayOptions control how device records are presented to visitors.
type DisplayOptions struct {
	RefreshInterval int    `json:"refresh_interval" mapstructure:"refresh_interval"` // polling fallback interval, ms
	DeviceSlice     int    `json:"device_slice" mapstructure:"device_slice"`         // max app-name length shown
	NotUsing        string `json:"not_using" mapstructure:"not_using"`               // text shown for idle devices
	Sorted          bool   `json:"sorted" mapstructure:"sorted"`
	UsingFirst      bool   `json:"using_first" mapstructure:"using_first"`
}

// DeviceView is the public projection of a device record.
type DeviceView struct {
	Name     string    `json:"name"`
	ShowName string    `json:"show_name"`
	Using    bool      `json:"using"`
	App      string    `json:"app,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

// QueryResponse is the payload of GET /api/v1/status/query and of SSE/WS
// update events.
type QueryResponse struct {
	Success     bool         `json:"success"`
	Time        time.Time    `json:"time"`
	Status      Info         `json:"status"`
	Devices     []DeviceView `json:"devices"`
	Private     bool         `json:"private"`
	LastUpdated time.Time    `json:"last_updated"`
}

// MetaResponse is the payload of GET /api/v1/meta.
type MetaResponse struct {
	Success bool              `json:"success"`
	Version map[string]string `json:"version"`
	Page    PageMeta          `json:"page"`
	Display DisplayOptions    `json:"display"`
	Visits  bool              `json:"visits"`
}

// ListResponse is the payload of GET /api/v1/status/list.
type ListResponse struct {
	Success    bool   `json:"success"`
	StatusList []Info `json:"status_list"`
}

// SetResponse is the payload of POST /api/v1/status.
type SetResponse struct {
	Success bool `json:"success"`
	SetTo   int  `json:"set_to"`
}
