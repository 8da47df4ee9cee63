package api

import (
	"strings"
	"time"
)

// --- Visor ---

// Visor is a node managed by the hypervisor.
type Visor struct {
	LocalPK     string      `json:"local_pk"`
	TCPAddr     string      `json:"tcp_addr"`
	Online      bool        `json:"online"`
	Version     string      `json:"node_version,omitempty"`
	Label       string      `json:"label,omitempty"`
	Apps        []App       `json:"apps,omitempty"`
	Transports  []Transport `json:"transports,omitempty"`
	RoutesCount int         `json:"routes_count"`
}

// DisplayName returns the label, falling back to the public key.
func (v Visor) DisplayName() string {
	if strings.TrimSpace(v.Label) != "" {
		return v.Label
	}
	return v.LocalPK
}

// --- Route ---

// Route is a routing rule of a visor.
type Route struct {
	Key  int    `json:"key"`
	Rule string `json:"rule"`
}

// --- Transport ---

// Transport is a link between the visor and a remote visor.
type Transport struct {
	ID       string       `json:"id"`
	LocalPK  string       `json:"local_pk"`
	RemotePK string       `json:"remote_pk"`
	Type     string       `json:"type"`
	IsUp     bool         `json:"is_up"`
	Log      TransportLog `json:"log"`
}

// TransportLog holds the traffic counters of a transport.
type TransportLog struct {
	Recv uint64 `json:"recv"`
	Sent uint64 `json:"sent"`
}

// CreateTransportInput defines the fields required to create a transport.
type CreateTransportInput struct {
	RemotePK string `json:"remote_pk" validate:"required,len=66,hexadecimal"`
	Type     string `json:"transport_type" validate:"required"`
	Public   bool   `json:"public"`
}

// --- App ---

// AppStatus is the run state of an app.
type AppStatus int

const (
	AppStopped AppStatus = iota
	AppRunning
	AppFailed
)

func (s AppStatus) String() string {
	switch s {
	case AppRunning:
		return "running"
	case AppFailed:
		return "failed"
	default:
		return "stopped"
	}
}

// App is an application hosted by a visor.
type App struct {
	Name      string    `json:"name"`
	Autostart bool      `json:"autostart"`
	Port      int       `json:"port"`
	Status    AppStatus `json:"status"`
	Args      []string  `json:"args,omitempty"`
}

// ServerKey returns the value of the -srv argument, used by proxy clients to
// name the remote server.
func (a App) ServerKey() string {
	for i := 0; i < len(a.Args)-1; i++ {
		if a.Args[i] == "-srv" {
			return a.Args[i+1]
		}
	}
	return ""
}

// UpdateAppInput defines the fields for changing an app. Nil fields are left
// untouched.
type UpdateAppInput struct {
	Status    *AppStatus `json:"status,omitempty"`
	Autostart *bool      `json:"autostart,omitempty"`
	ServerPK  *string    `json:"pk,omitempty" validate:"omitempty,len=66,hexadecimal"`
}

// AppLogs is the log output of an app.
type AppLogs struct {
	Logs []string `json:"logs"`
}

// LogWindow is one of the log filter choices. Days < 0 means everything.
type LogWindow struct {
	Label string
	Days  int
}

// LogWindows lists the supported log filters.
var LogWindows = []LogWindow{
	{Label: "last 7 days", Days: 7},
	{Label: "last month", Days: 30},
	{Label: "last 3 months", Days: 90},
	{Label: "last 6 months", Days: 180},
	{Label: "last year", Days: 365},
	{Label: "all", Days: -1},
}

// LookupLogWindow finds the window for a day count.
func LookupLogWindow(days int) (LogWindow, bool) {
	for _, w := range LogWindows {
		if w.Days == days {
			return w, true
		}
	}
	return LogWindow{}, false
}

// Since returns the start of the window relative to now, or the zero time
// for the unbounded window.
func (w LogWindow) Since(now time.Time) time.Time {
	if w.Days < 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -w.Days)
}

// --- Discovery ---

// Proxy is a proxy server announced on the discovery service.
type Proxy struct {
	Address   string `json:"address"`
	Available bool   `json:"available"`
	Geo       *Geo   `json:"geo,omitempty"`
}

// Geo is the approximate location of a proxy.
type Geo struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
}

// PublicKey returns the key part of the pk:port address.
func (p Proxy) PublicKey() string {
	pk, _, _ := strings.Cut(p.Address, ":")
	return pk
}

// Location formats the geo data for display.
func (p Proxy) Location() string {
	if p.Geo == nil {
		return ""
	}
	if p.Geo.Region == "" {
		return p.Geo.Country
	}
	return p.Geo.Region + ", " + p.Geo.Country
}

// --- Hypervisor ---

// About identifies the hypervisor.
type About struct {
	PublicKey string    `json:"public_key"`
	Build     BuildInfo `json:"build"`
}

// BuildInfo is the hypervisor build metadata.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Snapshot is everything the node page shows, fetched in one go.
type Snapshot struct {
	Visor      Visor
	Routes     []Route
	Transports []Transport
	Apps       []App
}
