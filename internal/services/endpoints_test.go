package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCandidates_EmptyBase(t *testing.T) {
	assert.Nil(t, ResolveCandidates(""))
	assert.Nil(t, ResolveCandidates("   "))
}

func TestResolveCandidates_LoopbackBase(t *testing.T) {
	candidates := ResolveCandidates("http://localhost:12434")

	require.Equal(t, []string{
		"http://localhost:12434",
		"http://model-runner.docker.internal:12434",
		"http://localhost:12434/engines/llama.cpp/v1/chat/completions",
		"http://model-runner.docker.internal:12434/engines/llama.cpp/v1/chat/completions",
		"http://localhost:12434/v1/chat/completions",
		"http://model-runner.docker.internal:12434/v1/chat/completions",
	}, candidates)
}

func TestResolveCandidates_LiteralEndpointComesFirst(t *testing.T) {
	candidates := ResolveCandidates("http://127.0.0.1:8080/api")

	require.NotEmpty(t, candidates)
	assert.Equal(t, "http://127.0.0.1:8080/api", candidates[0])
}

func TestResolveCandidates_NonLoopbackHostIsNotSwapped(t *testing.T) {
	candidates := ResolveCandidates("http://10.0.0.5:8080")

	require.Equal(t, []string{
		"http://10.0.0.5:8080",
		"http://10.0.0.5:8080/engines/llama.cpp/v1/chat/completions",
		"http://10.0.0.5:8080/v1/chat/completions",
	}, candidates)
}

func TestResolveCandidates_CompletionPathNotAppendedTwice(t *testing.T) {
	candidates := ResolveCandidates("http://10.0.0.5:8080/v1/chat/completions")

	require.Equal(t, []string{
		"http://10.0.0.5:8080/v1/chat/completions",
	}, candidates)
}

func TestResolveCandidates_TrailingSlashIsNormalized(t *testing.T) {
	candidates := ResolveCandidates("http://10.0.0.5:8080/")

	require.NotEmpty(t, candidates)
	assert.Equal(t, "http://10.0.0.5:8080", candidates[0])
}

func TestResolveCandidates_NoDuplicates(t *testing.T) {
	candidates := ResolveCandidates("http://localhost:12434/engines/llama.cpp/v1/chat/completions")

	seen := make(map[string]bool)
	for _, c := range candidates {
		assert.False(t, seen[c], "duplicate candidate %s", c)
		seen[c] = true
	}
}
