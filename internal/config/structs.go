package config

import (
	"time"

	"github.com/GoPress-Admin/GoPress-Admin/internal/logger"
)

// Storage backend identifiers for backup and media payloads.
const (
	// StorageBackendLocal stores payloads on the local filesystem.
	StorageBackendLocal = "local"
	// StorageBackendS3 stores payloads in an S3 compatible bucket.
	StorageBackendS3 = "s3"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Backup    Backup
	Storage   Storage
	Mail      Mail
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Backup holds backup subsystem settings.
type Backup struct {
	Dir     string // local directory for backup documents
	Storage string // payload storage backend: local or s3
}

// Storage holds S3 compatible object storage settings.
type Storage struct {
	Endpoint  string // custom endpoint, empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Mail holds SMTP delivery settings.
type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address used for all outgoing mail
}
