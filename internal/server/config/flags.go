package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/docdrop/internal/flagx"
)

var knownFlags = []string{
	"-a", "-health-addr", "-d", "-s",
	"-verify-ttl", "-session-ttl", "-download-ttl",
	"-base-url", "-storage", "-upload-dir", "-storage-key", "-max-upload",
	"-u", "-p", "-b", "-g", "-e",
	"-smtp-host", "-smtp-port", "-smtp-user", "-smtp-password", "-smtp-from",
	"-seed", "-require-verified", "-min-entropy", "-log-level",
}

// parseFlags overlays command-line flags onto config.
//
// Token lifetimes are given in whole minutes. Only the flags listed in
// knownFlags are looked at, so -c/-config and foreign flags pass through.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP API address")
	fs.StringVar(&config.EndpointAddrGRPC, "health-addr", config.EndpointAddrGRPC, "gRPC health endpoint address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN, empty for in-memory stores")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")

	verifyTTL := fs.Int("verify-ttl", int(config.VerificationTokenValidityDuration.Minutes()), "verification token validity (in minutes)")
	sessionTTL := fs.Int("session-ttl", int(config.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	downloadTTL := fs.Int("download-ttl", int(config.DownloadTokenValidityDuration.Minutes()), "download token validity (in minutes)")

	fs.StringVar(&config.PublicBaseURL, "base-url", config.PublicBaseURL, "public base URL used in issued links")
	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "blob storage backend: memory, fs or s3")
	fs.StringVar(&config.UploadDir, "upload-dir", config.UploadDir, "directory for the fs backend")
	fs.StringVar(&config.StorageKey, "storage-key", config.StorageKey, "passphrase for encrypting stored files")
	fs.Int64Var(&config.MaxUploadBytes, "max-upload", config.MaxUploadBytes, "maximum upload request size in bytes")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host, empty to log verification links")
	fs.IntVar(&config.SMTPPort, "smtp-port", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUsername, "smtp-user", config.SMTPUsername, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "smtp-password", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.SMTPFrom, "smtp-from", config.SMTPFrom, "sender address for verification mail")

	fs.StringVar(&config.SeedFile, "seed", config.SeedFile, "YAML file with provisioned accounts")
	fs.BoolVar(&config.RequireVerified, "require-verified", config.RequireVerified, "deny file access to unverified accounts")
	fs.Float64Var(&config.MinPasswordEntropy, "min-entropy", config.MinPasswordEntropy, "minimum password entropy in bits, 0 disables")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.VerificationTokenValidityDuration = time.Duration(*verifyTTL) * time.Minute
	config.SessionTokenValidityDuration = time.Duration(*sessionTTL) * time.Minute
	config.DownloadTokenValidityDuration = time.Duration(*downloadTTL) * time.Minute
}
