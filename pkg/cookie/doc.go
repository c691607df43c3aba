// Package cookie reads and writes HTTP cookies in three grades: plain,
// tamper-evident (HMAC-SHA256 signed), and confidential (AES-256-GCM
// encrypted), plus encrypted flash values that delete themselves on read.
//
// A Manager carries the attribute defaults (domain, path, Secure,
// HttpOnly, SameSite) and, when built with WithSecret, the key material
// for the signed and encrypted grades. Without a secret those operations
// return ErrNoSecret; plain cookies always work.
//
//	m := cookie.New(
//		cookie.WithSecret("at-least-32-bytes-of-key-material"),
//		cookie.WithSecure(true),
//	)
//	m.Set(w, "theme", "dark", 86400)
//	err := m.SetSigned(w, "uid", userID, 86400)
//	id, err := m.GetSigned(r, "uid")
//
// GetSigned and GetEncrypted verify before trusting: a stripped or
// altered value surfaces as ErrInvalidSignature or a decryption error,
// never as data. Flash and SetFlash round-trip any JSON-encodable value
// and expire the cookie the moment it is read, which is what the
// framework uses for one-shot form errors and notices.
package cookie
