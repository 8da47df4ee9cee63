package api

import "time"

// DefaultBaseURL is the address a local hypervisor listens on.
const DefaultBaseURL = "http://localhost:8000"

// DefaultDiscoveryURL is the public proxy discovery service.
const DefaultDiscoveryURL = "http://service.discovery.skycoin.com"

// NewDefaultClient builds a client pointed at the default hypervisor URL.
func NewDefaultClient(timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, timeout...)
}
