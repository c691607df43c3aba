// Package password hashes and verifies user passwords with bcrypt.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/anvil/pkg/password"
//
//	hash, err := password.Hash(plaintext)
//	if err != nil {
//		// handle error
//	}
//
//	if !password.Verify(hash, plaintext) {
//		// wrong password
//	}
//
// # Cost Upgrades
//
// When the configured cost changes, rehash on the next successful login:
//
//	if password.Verify(stored, plaintext) {
//		if password.NeedsRehash(stored, password.WithCost(12)) {
//			stored, _ = password.Hash(plaintext, password.WithCost(12))
//			// persist the new hash
//		}
//	}
//
// # Errors
//
// Hash reports failures through sentinel errors:
//   - [ErrEmptyPassword]: empty input
//   - [ErrPasswordTooLong]: input exceeds the 72-byte bcrypt limit
//   - [ErrInvalidCost]: cost outside bcrypt.MinCost..bcrypt.MaxCost
package password
