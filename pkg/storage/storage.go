package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the file storage contract the framework programs against.
// S3Storage is the shipped implementation; tests substitute fakes.
type Storage interface {
	// Put streams size bytes from r into storage and reports where they
	// landed. Options pick the key, tenant, ACL, content type, and any
	// validation to run first.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get opens the stored object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the stored object.
	Delete(ctx context.Context, key string) error

	// URL returns a link to the object: public when the configuration or
	// options say so, otherwise signed with a bounded lifetime.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config describes an S3-compatible backend. Bucket and both credentials
// are required; everything else has a working default. Embed it in your app
// config for env parsing with caarlos0/env.
type Config struct {
	Bucket    string `env:"STORAGE_BUCKET"`
	AccessKey string `env:"STORAGE_ACCESS_KEY"`
	SecretKey string `env:"STORAGE_SECRET_KEY"`

	// Endpoint points at a non-AWS service such as MinIO or R2. Empty
	// means AWS proper.
	Endpoint string `env:"STORAGE_ENDPOINT"`
	Region   string `env:"STORAGE_REGION" envDefault:"us-east-1"`

	// PublicURL is a CDN or bucket website prefix. When set, public links
	// are built from it instead of the raw endpoint.
	PublicURL string `env:"STORAGE_PUBLIC_URL"`

	// DefaultACL applies to uploads that do not override it and decides
	// whether URL hands out public or signed links.
	DefaultACL ACL `env:"STORAGE_DEFAULT_ACL" envDefault:"private"`

	// PathStyle addresses objects as endpoint/bucket/key. MinIO needs it.
	PathStyle bool `env:"STORAGE_PATH_STYLE"`

	// MaxDownloadSize caps PutFromURL transfers in bytes.
	MaxDownloadSize int64 `env:"STORAGE_MAX_DOWNLOAD"`
}

// FileInfo describes a stored object.
type FileInfo struct {
	Key         string
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL names the access level of a stored object.
type ACL string

const (
	// ACLPrivate objects are reachable only through signed URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead objects are readable by anyone holding the URL.
	ACLPublicRead ACL = "public-read"
)

const (
	DefaultRegion          = "us-east-1"
	DefaultMaxDownloadSize = 50 << 20
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
	if c.MaxDownloadSize == 0 {
		c.MaxDownloadSize = DefaultMaxDownloadSize
	}
}

func (c *Config) validate() error {
	switch {
	case c.Bucket == "":
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	case c.AccessKey == "":
		return fmt.Errorf("%w: access key is required", ErrInvalidConfig)
	case c.SecretKey == "":
		return fmt.Errorf("%w: secret key is required", ErrInvalidConfig)
	}
	return nil
}
