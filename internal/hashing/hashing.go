// Package hashing provides the SHA-256 and HMAC-SHA256 primitives the SigV4
// notary (internal/sigv4) is built on, matching the contract of h5s3's
// hash::sha256_hexdigest / hash::hmac_sha256_hexdigest.
//
// spec.md §1 treats these primitives as assumed available from a library;
// the standard library's crypto/sha256 and crypto/hmac satisfy that
// contract directly, and no non-stdlib SHA-256/HMAC implementation appears
// anywhere in the example pack, so there is nothing to wire here beyond
// stdlib.
package hashing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex returns the lower-case hex-encoded SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Sha256 returns the raw SHA-256 digest of data.
func Sha256(data []byte) [sha256.Size]byte {
	return sha256.Sum256(data)
}

// HMACSha256 returns the raw HMAC-SHA256 of data under key.
func HMACSha256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HMACSha256Hex returns the lower-case hex-encoded HMAC-SHA256 of data
// under key.
func HMACSha256Hex(key, data []byte) string {
	return hex.EncodeToString(HMACSha256(key, data))
}

// EmptyPayloadHash is the SHA-256 hex digest of the empty string, the value
// S3 requires in the x-amz-content-sha256 header for GET requests.
var EmptyPayloadHash = Sha256Hex(nil)
