package pkg

import "crypto/subtle"

// BoundChannels reports whether a value delivered over two channels (for
// example a URL parameter and a cookie) is present on both and identical.
// The comparison runs in constant time.
func BoundChannels(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
