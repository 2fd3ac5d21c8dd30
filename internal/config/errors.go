package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownStorageBackend error if config backup.storage names an unknown backend.
	ErrUnknownStorageBackend = errors.New("toml config backup.storage must be local or s3")

	// ErrEmptyS3Bucket error if the s3 backend is selected without a bucket.
	ErrEmptyS3Bucket = errors.New("toml config storage.bucket can not be empty when backup.storage is s3")
)
