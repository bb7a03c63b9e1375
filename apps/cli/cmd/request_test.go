package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		key     string
		value   string
		wantErr bool
	}{
		{name: "with space", input: "X-Tenant: acme", key: "X-Tenant", value: "acme"},
		{name: "without space", input: "X-Tenant:acme", key: "X-Tenant", value: "acme"},
		{name: "value with colon", input: "Referer: https://example.com", key: "Referer", value: "https://example.com"},
		{name: "empty value", input: "X-Empty:", key: "X-Empty", value: ""},
		{name: "missing colon", input: "X-Tenant acme", wantErr: true},
		{name: "empty key", input: ": value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := parseHeaderFlag(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestParseQueryFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		key     string
		value   string
		wantErr bool
	}{
		{name: "simple", input: "page=2", key: "page", value: "2"},
		{name: "value with equals", input: "filter=a=b", key: "filter", value: "a=b"},
		{name: "empty value", input: "q=", key: "q", value: ""},
		{name: "missing equals", input: "page", wantErr: true},
		{name: "empty key", input: "=2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := parseQueryFlag(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestResolveBodyData(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		data, err := resolveBodyData(`{"name":"widget"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"widget"}`, string(data))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"n":1}`), 0644))

		data, err := resolveBodyData("@" + path)
		require.NoError(t, err)
		assert.Equal(t, `{"n":1}`, string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := resolveBodyData("@/nonexistent/body.json")
		assert.Error(t, err)
	})
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("RESTFLOW_TEST_BOOL", "true")
	assert.True(t, getEnvBool("RESTFLOW_TEST_BOOL", false))

	t.Setenv("RESTFLOW_TEST_BOOL", "0")
	assert.False(t, getEnvBool("RESTFLOW_TEST_BOOL", true))

	assert.True(t, getEnvBool("RESTFLOW_UNSET_BOOL", true))
}
