// Package lists binds the hypervisor record types to list pipelines: which
// columns sort them, what identifies a row and how a row is printed.
package lists

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/listview"
)

// Kinds used as SortStore keys.
const (
	KindVisors     = "visors"
	KindRoutes     = "routes"
	KindTransports = "transports"
	KindApps       = "apps"
)

// View describes how one record type is listed.
type View[T any, K comparable] struct {
	Kind    string
	Columns listview.Columns[T]
	Key     func(T) K
	// Headers and Row must have the same length.
	Headers []string
	Row     func(T) []string
	// FormatKey renders an identity for messages and the clipboard.
	FormatKey func(K) string
}

// Pipeline builds a pipeline for the view.
func (v View[T, K]) Pipeline(opts ...listview.Option) *listview.Pipeline[T, K] {
	return listview.NewPipeline(v.Kind, v.Columns, v.Key, opts...)
}

// Rows renders items with Row.
func (v View[T, K]) Rows(items []T) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = v.Row(item)
	}
	return rows
}

// Routes lists routing rules, keyed by route key.
var Routes = View[api.Route, int]{
	Kind: KindRoutes,
	Columns: listview.Columns[api.Route]{
		{Name: "Key", Compare: listview.Numeric(func(r api.Route) int { return r.Key })},
		{Name: "Rule", Compare: listview.Text(func(r api.Route) string { return r.Rule })},
	},
	Key:     func(r api.Route) int { return r.Key },
	Headers: []string{"KEY", "RULE"},
	Row: func(r api.Route) []string {
		return []string{strconv.Itoa(r.Key), r.Rule}
	},
	FormatKey: strconv.Itoa,
}

// Transports lists links, keyed by transport id.
var Transports = View[api.Transport, string]{
	Kind: KindTransports,
	Columns: listview.Columns[api.Transport]{
		{Name: "ID", Compare: listview.Text(func(t api.Transport) string { return t.ID })},
		{Name: "Remote", Compare: listview.Text(func(t api.Transport) string { return t.RemotePK })},
		{Name: "Type", Compare: listview.Text(func(t api.Transport) string { return t.Type })},
		{Name: "Up", Compare: listview.Bool(func(t api.Transport) bool { return t.IsUp })},
		{Name: "Sent", Compare: listview.Numeric(func(t api.Transport) uint64 { return t.Log.Sent })},
		{Name: "Recv", Compare: listview.Numeric(func(t api.Transport) uint64 { return t.Log.Recv })},
	},
	Key:     func(t api.Transport) string { return t.ID },
	Headers: []string{"ID", "REMOTE", "TYPE", "UP", "SENT", "RECV"},
	Row: func(t api.Transport) []string {
		return []string{t.ID, t.RemotePK, t.Type, yesNo(t.IsUp), humanize.Bytes(t.Log.Sent), humanize.Bytes(t.Log.Recv)}
	},
	FormatKey: func(id string) string { return id },
}

// Apps lists visor applications, keyed by name.
var Apps = View[api.App, string]{
	Kind: KindApps,
	Columns: listview.Columns[api.App]{
		{Name: "Name", Compare: listview.Text(func(a api.App) string { return a.Name })},
		{Name: "Port", Compare: listview.Numeric(func(a api.App) int { return a.Port })},
		{Name: "Status", Compare: listview.Numeric(func(a api.App) int { return int(a.Status) })},
		{Name: "Autostart", Compare: listview.Bool(func(a api.App) bool { return a.Autostart })},
	},
	Key:     func(a api.App) string { return a.Name },
	Headers: []string{"NAME", "PORT", "STATUS", "AUTOSTART"},
	Row: func(a api.App) []string {
		return []string{a.Name, strconv.Itoa(a.Port), a.Status.String(), yesNo(a.Autostart)}
	},
	FormatKey: func(name string) string { return name },
}

// Visors lists the nodes of the hypervisor, keyed by public key.
var Visors = View[api.Visor, string]{
	Kind: KindVisors,
	Columns: listview.Columns[api.Visor]{
		{Name: "Key", Compare: listview.Text(func(v api.Visor) string { return v.LocalPK })},
		{Name: "Label", Compare: listview.Text(func(v api.Visor) string { return v.DisplayName() })},
		{Name: "Online", Compare: listview.Bool(func(v api.Visor) bool { return v.Online })},
		{Name: "Version", Compare: listview.Text(func(v api.Visor) string { return v.Version })},
	},
	Key:     func(v api.Visor) string { return v.LocalPK },
	Headers: []string{"KEY", "LABEL", "ONLINE", "ADDRESS", "VERSION"},
	Row: func(v api.Visor) []string {
		return []string{v.LocalPK, v.Label, yesNo(v.Online), v.TCPAddr, v.Version}
	},
	FormatKey: func(pk string) string { return pk },
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ParseRouteKeys converts CLI arguments to route keys.
func ParseRouteKeys(args []string) ([]int, error) {
	keys := make([]int, 0, len(args))
	for _, a := range args {
		k, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, &InvalidKeyError{Value: a}
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// InvalidKeyError reports a route key that is not an integer.
type InvalidKeyError struct {
	Value string
}

func (e *InvalidKeyError) Error() string {
	return "invalid route key " + strconv.Quote(e.Value)
}
