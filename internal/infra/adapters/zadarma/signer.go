package zadarma

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
)

// Sign builds the Authorization header value for method and its canonical
// parameter string:
//
//	key:base64(hex(HMAC-SHA1(secret, method + params + hex(MD5(params)))))
//
// Empty keys or secrets are not rejected; they produce a header the
// provider will refuse.
func Sign(key, secret, method, params string) string {
	sum := md5.Sum([]byte(params))
	data := method + params + hex.EncodeToString(sum[:])

	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write([]byte(data))
	digest := hex.EncodeToString(mac.Sum(nil))

	return key + ":" + base64.StdEncoding.EncodeToString([]byte(digest))
}
