package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/docdrop/internal/flagx"
	"github.com/dmitrijs2005/docdrop/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP                  string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC                  string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                       string         `json:"database_dsn"`
	SecretKey                         string         `json:"secret_key"`
	VerificationTokenValidityDuration timex.Duration `json:"verification_token_validity_duration"`
	SessionTokenValidityDuration      timex.Duration `json:"session_token_validity_duration"`
	DownloadTokenValidityDuration     timex.Duration `json:"download_token_validity_duration"`
	PublicBaseURL                     string         `json:"public_base_url"`
	StorageBackend                    string         `json:"storage_backend"`
	UploadDir                         string         `json:"upload_dir"`
	StorageKey                        string         `json:"storage_key"`
	MaxUploadBytes                    int64          `json:"max_upload_bytes"`
	S3RootUser                        string         `json:"s3_root_user"`
	S3RootPassword                    string         `json:"s3_root_password"`
	S3Bucket                          string         `json:"s3_bucket"`
	S3Region                          string         `json:"s3_region"`
	S3BaseEndpoint                    string         `json:"s3_base_endpoint"`
	SMTPHost                          string         `json:"smtp_host"`
	SMTPPort                          int            `json:"smtp_port"`
	SMTPUsername                      string         `json:"smtp_username"`
	SMTPPassword                      string         `json:"smtp_password"`
	SMTPFrom                          string         `json:"smtp_from"`
	SeedFile                          string         `json:"seed_file"`
	RequireVerified                   *bool          `json:"require_verified"`
	MinPasswordEntropy                float64        `json:"min_password_entropy"`
	LogLevel                          string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Fields missing from the file keep their current value. An unreadable or
// malformed file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.VerificationTokenValidityDuration.Duration > 0 {
		config.VerificationTokenValidityDuration = c.VerificationTokenValidityDuration.Duration
	}
	if c.SessionTokenValidityDuration.Duration > 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.DownloadTokenValidityDuration.Duration > 0 {
		config.DownloadTokenValidityDuration = c.DownloadTokenValidityDuration.Duration
	}
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.StorageKey, c.StorageKey)
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
	setString(&config.SMTPUsername, c.SMTPUsername)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.SeedFile, c.SeedFile)
	if c.RequireVerified != nil {
		config.RequireVerified = *c.RequireVerified
	}
	if c.MinPasswordEntropy > 0 {
		config.MinPasswordEntropy = c.MinPasswordEntropy
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
