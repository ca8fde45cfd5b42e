// Package config handles configuration for the DocDrop server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Storage backends understood by StorageBackend.
const (
	StorageMemory = "memory"
	StorageFS     = "fs"
	StorageS3     = "s3"
)

// Config holds runtime settings for the DocDrop server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the HTTP API and the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps accounts and the file index in memory.
//   - SecretKey: HMAC secret for signing tokens (HS256). Empty means a random per-process key.
//   - *TokenValidityDuration: lifetimes of verification, session and download tokens.
//   - PublicBaseURL: prefix for links handed out by signup and download-link requests.
//   - StorageBackend / UploadDir / MaxUploadBytes: where and how much uploaded content is stored.
//   - StorageKey: passphrase for encrypting stored content, empty stores it as uploaded.
//   - S3*: settings for the S3-compatible backend.
//   - SMTP*: mail relay for verification links. Empty SMTPHost logs links instead.
//   - SeedFile: YAML file with accounts provisioned out-of-band (ops users).
//   - RequireVerified: deny file operations to accounts that never verified their email.
//   - MinPasswordEntropy: minimum password entropy in bits on signup, 0 disables the check.
type Config struct {
	EndpointAddrHTTP                  string
	EndpointAddrGRPC                  string
	DatabaseDSN                       string
	SecretKey                         string
	VerificationTokenValidityDuration time.Duration
	SessionTokenValidityDuration      time.Duration
	DownloadTokenValidityDuration     time.Duration
	PublicBaseURL                     string
	StorageBackend                    string
	UploadDir                         string
	StorageKey                        string
	MaxUploadBytes                    int64
	S3RootUser                        string
	S3RootPassword                    string
	S3Bucket                          string
	S3Region                          string
	S3BaseEndpoint                    string
	SMTPHost                          string
	SMTPPort                          int
	SMTPUsername                      string
	SMTPPassword                      string
	SMTPFrom                          string
	SeedFile                          string
	RequireVerified                   bool
	MinPasswordEntropy                float64
	LogLevel                          string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the empty SecretKey makes every restart invalidate issued tokens.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.VerificationTokenValidityDuration = 60 * time.Minute
	c.SessionTokenValidityDuration = 30 * time.Minute
	c.DownloadTokenValidityDuration = 10 * time.Minute
	c.PublicBaseURL = ""
	c.StorageBackend = StorageFS
	c.UploadDir = "./uploads"
	c.MaxUploadBytes = 32 << 20
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "docdrop"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SMTPPort = 587
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
