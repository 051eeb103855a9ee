package ratelimit

import "strings"

// MatchEndpoint finds the endpoint configuration for a path and method.
// Exact path matches win over prefix matches; a config path ending in "/"
// matches as a prefix, so "/jobs/" covers "/jobs/{id}". Returns nil when
// nothing matches, which sends the request to the global default.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
