package detail

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

const stableKeySalt = "stable_key_salt"

// stableKeyPattern matches the normative stable-key format: 16 URL-safe
// base64 characters, an underscore, then a non-negative decimal integer.
var stableKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16}_(0|[1-9][0-9]*)$`)

// StableKey derives the deterministic, content-free sibling key for the
// index-th occurrence of tagName among the direct children of <detail>
// in the event identified by uid. The key is
// base64url_nopad(sha256(uid || tagName || "stable_key_salt"))[0:16] + "_" + index.
//
// uid and tagName are NFC-normalized before hashing, so two producers
// that encode the same uid or tag under different Unicode
// normalization forms still derive the same stable key.
func StableKey(uid, tagName string, index int) string {
	h := sha256.Sum256([]byte(norm.NFC.String(uid) + norm.NFC.String(tagName) + stableKeySalt))
	prefix := base64.RawURLEncoding.EncodeToString(h[:])[:16]
	return fmt.Sprintf("%s_%d", prefix, index)
}

// IsStableKey reports whether key matches the normative stable-key
// shape. It does not verify the key actually derives from any
// particular (uid, tagName) pair — that binding is recovered from the
// value's _tag metadata, per spec.
func IsStableKey(key string) bool {
	return stableKeyPattern.MatchString(key)
}

// stableKeyIndex extracts the trailing integer suffix of a stable key.
// The caller must have already confirmed IsStableKey(key).
func stableKeyIndex(key string) int {
	i := len(key) - 1
	for i >= 0 && key[i] != '_' {
		i--
	}
	n, _ := strconv.Atoi(key[i+1:])
	return n
}
