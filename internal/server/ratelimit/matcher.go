package ratelimit

import "strings"

// MatchEndpoint returns the endpoint limiting path and method, or nil when
// the default applies. GET /health is never limited. Exact paths win over
// prefixes.
func MatchEndpoint(path, method string, endpoints []Endpoint) *Endpoint {
	if path == "/health" && method == "GET" {
		return &Endpoint{Path: path, Method: method}
	}
	for i := range endpoints {
		if endpoints[i].Method == method && endpoints[i].Path == path {
			return &endpoints[i]
		}
	}
	for i := range endpoints {
		ep := &endpoints[i]
		if ep.Method == method && strings.HasSuffix(ep.Path, "/") && strings.HasPrefix(path, ep.Path) {
			return ep
		}
	}
	return nil
}
