package lists

import (
	"fmt"
	"strings"

	"github.com/skyfleet/skymanager/internal/api"
)

// ProxyState filters proxies by availability.
type ProxyState int

const (
	AnyState ProxyState = iota
	Available
	Offline
)

func (s ProxyState) String() string {
	switch s {
	case Available:
		return "available"
	case Offline:
		return "offline"
	default:
		return "any"
	}
}

// ParseProxyState accepts any, available and offline.
func ParseProxyState(s string) (ProxyState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return AnyState, nil
	case "available", "online":
		return Available, nil
	case "offline", "unavailable":
		return Offline, nil
	}
	return AnyState, fmt.Errorf("unknown proxy state %q (want any, available or offline)", s)
}

// ProxyFilter narrows a proxy list. Text fields match case-insensitive
// substrings; empty fields match everything.
type ProxyFilter struct {
	State    ProxyState
	Location string
	Key      string
}

// Empty reports whether the filter lets everything through.
func (f ProxyFilter) Empty() bool {
	return f.State == AnyState && strings.TrimSpace(f.Location) == "" && strings.TrimSpace(f.Key) == ""
}

// Match reports whether p passes the filter.
func (f ProxyFilter) Match(p api.Proxy) bool {
	switch f.State {
	case Available:
		if !p.Available {
			return false
		}
	case Offline:
		if p.Available {
			return false
		}
	}
	if !containsFold(p.Location(), f.Location) {
		return false
	}
	return containsFold(p.PublicKey(), f.Key)
}

// Apply returns the matching proxies in input order.
func (f ProxyFilter) Apply(proxies []api.Proxy) []api.Proxy {
	out := make([]api.Proxy, 0, len(proxies))
	for _, p := range proxies {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ProxyHeaders and ProxyRow render a proxy table.
var ProxyHeaders = []string{"KEY", "LOCATION", "AVAILABLE"}

func ProxyRow(p api.Proxy) []string {
	return []string{p.PublicKey(), p.Location(), yesNo(p.Available)}
}
