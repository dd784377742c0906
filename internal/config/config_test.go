package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads. t.Setenv registers the restore
// cleanup; the unset afterwards matters because an empty value still counts as
// set for LookupEnv.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN",
		"GITHUB_API_URL",
		"GRADER_LISTEN_ADDR",
		"GRADER_SERVER_URL",
		"GRADER_COMMIT_PAGES",
		"GRADER_PER_PAGE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.APIBaseURL)
	assert.Equal(t, ":5005", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:5005", cfg.ServerURL)
	assert.Equal(t, 3, cfg.CommitPages)
	assert.Equal(t, 100, cfg.PerPage)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_API_URL", "http://ghe.example.com/api/v3/")
	t.Setenv("GRADER_LISTEN_ADDR", ":9090")
	t.Setenv("GRADER_SERVER_URL", "http://grader.internal:9090")
	t.Setenv("GRADER_COMMIT_PAGES", "5")
	t.Setenv("GRADER_PER_PAGE", "50")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test", cfg.Token)
	assert.Equal(t, "http://ghe.example.com/api/v3/", cfg.APIBaseURL)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "http://grader.internal:9090", cfg.ServerURL)
	assert.Equal(t, 5, cfg.CommitPages)
	assert.Equal(t, 50, cfg.PerPage)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "commit pages not a number", key: "GRADER_COMMIT_PAGES", value: "many"},
		{name: "commit pages zero", key: "GRADER_COMMIT_PAGES", value: "0"},
		{name: "commit pages negative", key: "GRADER_COMMIT_PAGES", value: "-1"},
		{name: "per page not a number", key: "GRADER_PER_PAGE", value: "all"},
		{name: "per page zero", key: "GRADER_PER_PAGE", value: "0"},
		{name: "per page over API maximum", key: "GRADER_PER_PAGE", value: "101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
