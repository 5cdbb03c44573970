package querycache

import "strings"

// Key identifies a cache entry as an ordered tuple, e.g.
// ("receivedPings", wallet, filters).
type Key []string

// K builds a Key.
func K(parts ...string) Key { return Key(parts) }

// String joins the parts with "/". Parts are expected to be path-safe.
func (k Key) String() string { return strings.Join(k, "/") }

// HasPrefix reports whether p is a leading sub-tuple of k. The empty prefix
// matches every key.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

// Append returns a new key with parts added.
func (k Key) Append(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}
