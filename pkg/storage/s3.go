package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrymomot/anvil/pkg/id"
)

// S3Storage talks to S3 or any compatible service (MinIO, R2, Spaces).
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	cfg       Config
}

var _ Storage = (*S3Storage)(nil)

// New builds a client from cfg. Credentials are static; role-based auth is
// out of scope for this package.
func New(cfg Config) (*S3Storage, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = cfg.PathStyle
	}

	client := s3.New(opts)
	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}, nil
}

// Put uploads size bytes from r. Without WithKey the object lands under a
// generated sortable key; without WithContentType the type comes from the
// payload's magic bytes.
func (s *S3Storage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := &putOptions{acl: s.cfg.DefaultACL}
	for _, opt := range opts {
		opt(o)
	}

	contentType, body, err := s.prepareBody(r, o.contentType)
	if err != nil {
		return nil, err
	}

	if err := ValidateReader(size, contentType, o.rules...); err != nil {
		return nil, err
	}

	key := o.key
	if key == "" {
		key = s.buildKey(o.tenant, o.prefix, contentType)
	}

	acl := types.ObjectCannedACLPrivate
	if o.acl == ACLPublicRead {
		acl = types.ObjectCannedACLPublicRead
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           acl,
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

// prepareBody resolves the content type and turns r into the io.ReadSeeker
// the SDK needs for payload hashing.
func (s *S3Storage) prepareBody(r io.Reader, override string) (string, io.ReadSeeker, error) {
	if override == "" {
		ct, body := detectSeekable(r)
		return ct, body, nil
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		return override, rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("storage: read upload: %w", err)
	}
	return override, bytes.NewReader(data), nil
}

// Get opens the object for reading. The caller closes the returned body.
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}
	return out.Body, nil
}

// Delete removes the object. Deleting a missing key is not an error, per S3.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// URL links to the object. With a public default ACL the link is the plain
// public URL; otherwise it is signed. WithSigned and WithPublic override
// either way.
func (s *S3Storage) URL(ctx context.Context, key string, opts ...URLOption) (string, error) {
	o := &urlOptions{expiry: DefaultURLExpiry}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case o.forcePublic:
		return s.publicURL(key), nil
	case o.forceSigned:
		return s.signedURL(ctx, key, o)
	case s.cfg.DefaultACL == ACLPublicRead:
		return s.publicURL(key), nil
	default:
		return s.signedURL(ctx, key, o)
	}
}

// HeadObject fetches size and content type without downloading the body.
// The reported ACL is the configured default; S3 does not return the real
// one on a HEAD.
func (s *S3Storage) HeadObject(ctx context.Context, key string) (*FileInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}

	return &FileInfo{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ACL:         s.cfg.DefaultACL,
	}, nil
}

// Copy duplicates an object within the bucket. The copy gets the bucket's
// default ACL, not the source's.
func (s *S3Storage) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.cfg.Bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(s.cfg.Bucket + "/" + srcKey),
	})
	if err != nil {
		return wrapS3Error(err, ErrCopyFailed)
	}
	return nil
}

// buildKey assembles {tenant}/{prefix}/{id}{ext}. The generated id sorts by
// creation time, so listings come back chronological for free.
func (s *S3Storage) buildKey(tenant, prefix, contentType string) string {
	var parts []string
	if tenant != "" {
		parts = append(parts, sanitizeSegment(tenant))
	}
	if prefix != "" {
		parts = append(parts, sanitizeSegment(prefix))
	}

	ext := ExtFromMIME(contentType)
	if ext == "" {
		ext = ".bin"
	}
	parts = append(parts, id.NewULID()+ext)

	return strings.Join(parts, "/")
}

func (s *S3Storage) publicURL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
		if s.cfg.PathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, s.cfg.Bucket, key)
		}
		return fmt.Sprintf("%s/%s", endpoint, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func (s *S3Storage) signedURL(ctx context.Context, key string, o *urlOptions) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}
	if o.downloadName != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", o.downloadName))
	}

	signed, err := s.presigner.PresignGetObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = o.expiry
	})
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}
	return signed.URL, nil
}

var segmentUnsafe = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeSegment makes tenant and prefix values safe as key segments:
// no separators, no traversal, nothing outside [a-zA-Z0-9-_.].
func sanitizeSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "..", "")
	segment = strings.Trim(segment, " /\\")
	return segmentUnsafe.ReplaceAllString(segment, "_")
}
