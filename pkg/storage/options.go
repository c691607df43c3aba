package storage

import "time"

// Option tunes a single Put.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	tenant      string
	contentType string
	acl         ACL
	rules       []ValidationRule
}

// WithKey stores the object under an explicit key instead of a generated
// one. Use it to overwrite a known location.
func WithKey(key string) Option {
	return func(o *putOptions) { o.key = key }
}

// WithPrefix groups generated keys under a path segment, e.g.
// WithPrefix("avatars") yields "avatars/<id>.<ext>".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) { o.prefix = prefix }
}

// WithTenant prepends a tenant segment to generated keys, keeping each
// tenant's files under its own path.
func WithTenant(id string) Option {
	return func(o *putOptions) { o.tenant = id }
}

// WithContentType skips magic-byte detection and stores the object with the
// given type. Detection is usually the safer choice.
func WithContentType(ct string) Option {
	return func(o *putOptions) { o.contentType = ct }
}

// WithACL overrides the configured default ACL for this upload.
func WithACL(acl ACL) Option {
	return func(o *putOptions) { o.acl = acl }
}

// WithValidation runs rules before any bytes reach the backend. A failing
// rule aborts the upload with a *FileValidationError.
func WithValidation(rules ...ValidationRule) Option {
	return func(o *putOptions) { o.rules = append(o.rules, rules...) }
}

// URLOption tunes a single URL call.
type URLOption func(*urlOptions)

type urlOptions struct {
	downloadName string
	expiry       time.Duration
	forceSigned  bool
	forcePublic  bool
}

// DefaultURLExpiry bounds signed links that do not choose their own expiry.
const DefaultURLExpiry = 15 * time.Minute

// WithExpiry sets how long a signed link stays valid.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) { o.expiry = d }
}

// WithDownload makes browsers save the file under filename instead of
// displaying it. Implies a signed link, since the disposition rides on the
// signed query.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
		o.forceSigned = true
	}
}

// WithSigned forces a signed link even for public objects. A zero expiry
// keeps the default.
func WithSigned(expiry time.Duration) URLOption {
	return func(o *urlOptions) {
		o.forceSigned = true
		if expiry > 0 {
			o.expiry = expiry
		}
	}
}

// WithPublic forces an unsigned public link. The object must actually be
// readable without credentials for the link to work.
func WithPublic() URLOption {
	return func(o *urlOptions) { o.forcePublic = true }
}
