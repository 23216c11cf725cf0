// Package verifycode generates human-typeable verification codes for
// email login challenges.
//
// Codes are four groups of five lowercase letters joined by hyphens
// (e.g. "abcde-fghij-klmno-pqrst"), drawn from crypto/rand. The format
// is easy to read aloud and copy from an email while still carrying
// ~94 bits of entropy.
//
// # Usage
//
//	import "github.com/connectorhq/authkit/pkg/verifycode"
//
//	code := verifycode.Generate()
//
// Generate never fails: exhaustion of the system entropy source is a
// fatal process condition, not something a caller can recover from.
package verifycode
