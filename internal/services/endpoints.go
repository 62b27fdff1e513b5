package services

import (
	"net/url"
	"strings"
)

// dockerInternalHost is the hostname Docker Model Runner exposes to
// containers; a loopback address in the configured endpoint usually means
// the service was configured for the host but is running inside a container.
const dockerInternalHost = "model-runner.docker.internal"

var completionPaths = []string{
	"/engines/llama.cpp/v1/chat/completions",
	"/v1/chat/completions",
}

// ResolveCandidates derives the ordered list of URLs to try for one
// configured base endpoint: the literal endpoint first, then the
// container-internal hostname variant, then each with the model-runner and
// generic OpenAI-compatible completion paths appended. Duplicates are
// removed, keeping the earliest position. Pure transformation, no I/O.
func ResolveCandidates(base string) []string {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil
	}

	hosts := []string{base}
	if swapped := swapLoopbackHost(base); swapped != base {
		hosts = append(hosts, swapped)
	}

	var candidates []string
	seen := make(map[string]bool)
	add := func(u string) {
		u = strings.TrimSuffix(u, "/")
		if u != "" && !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
		}
	}

	for _, h := range hosts {
		add(h)
	}
	for _, p := range completionPaths {
		for _, h := range hosts {
			add(withCompletionPath(h, p))
		}
	}

	return candidates
}

func swapLoopbackHost(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}

	hostname := u.Hostname()
	if hostname != "localhost" && hostname != "127.0.0.1" {
		return base
	}

	host := dockerInternalHost
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	return u.String()
}

func withCompletionPath(base, completionPath string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	path := strings.TrimSuffix(u.Path, "/")
	if strings.HasSuffix(path, "/chat/completions") {
		return base
	}
	u.Path = path + completionPath
	return u.String()
}
