package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 60*time.Minute, c.VerificationTokenValidityDuration)
	assert.Equal(t, 30*time.Minute, c.SessionTokenValidityDuration)
	assert.Equal(t, 10*time.Minute, c.DownloadTokenValidityDuration)
	assert.Equal(t, StorageFS, c.StorageBackend)
	assert.Equal(t, "./uploads", c.UploadDir)
	assert.Equal(t, int64(32<<20), c.MaxUploadBytes)
	assert.Equal(t, "docdrop", c.S3Bucket)
	assert.Equal(t, 587, c.SMTPPort)
	assert.False(t, c.RequireVerified)
	assert.Zero(t, c.MinPasswordEntropy)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": "json:1",
		"storage_backend":    "memory",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "flag:2"}

	c := LoadConfig()

	assert.Equal(t, "flag:2", c.EndpointAddrHTTP)
	assert.Equal(t, StorageMemory, c.StorageBackend)
	assert.Equal(t, 30*time.Minute, c.SessionTokenValidityDuration)
}
