package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dsmirnov/authkeeper/internal/flagx"
	"github.com/dsmirnov/authkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify token lifetimes either as strings like
// "1h" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	Issuer                       string         `json:"issuer"`
	PrivateKeyPath               string         `json:"private_key_path"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	CookieDomain                 string         `json:"cookie_domain"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config command-line flags (via
// flagx.JsonConfigFlags); when neither is present, no JSON is loaded.
// Zero-valued JSON fields leave the current Config values untouched.
// Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.Issuer != "" {
		cfg.Issuer = jc.Issuer
	}
	if jc.PrivateKeyPath != "" {
		cfg.PrivateKeyPath = jc.PrivateKeyPath
	}
	if jc.RefreshTokenSecret != "" {
		cfg.RefreshTokenSecret = jc.RefreshTokenSecret
	}
	if jc.BcryptCost != 0 {
		cfg.BcryptCost = jc.BcryptCost
	}
	if jc.CookieDomain != "" {
		cfg.CookieDomain = jc.CookieDomain
	}
	if jc.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = time.Duration(jc.AccessTokenValidityDuration.Duration)
	}
	if jc.RefreshTokenValidityDuration.Duration != 0 {
		cfg.RefreshTokenValidityDuration = time.Duration(jc.RefreshTokenValidityDuration.Duration)
	}
}
