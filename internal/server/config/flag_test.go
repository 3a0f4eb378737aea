package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server",
		"-a", ":7070",
		"-d", "postgres://u:p@h:5432/db",
		"-i", "issuer-x",
		"-k", "/etc/keys/private.pem",
		"-s", "flag-secret",
		"-w", "12",
		"-o", "example.com",
		"-t", "15",
		"-r", "1440",
	}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, "postgres://u:p@h:5432/db", c.DatabaseDSN)
	assert.Equal(t, "issuer-x", c.Issuer)
	assert.Equal(t, "/etc/keys/private.pem", c.PrivateKeyPath)
	assert.Equal(t, "flag-secret", c.RefreshTokenSecret)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, "example.com", c.CookieDomain)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
}

func TestParseFlags_UnknownFlagsIgnored(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server", "-z", "ignored", "-a", ":6060"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":6060", c.EndpointAddr)
}
