// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// SignPayload computes the hex HMAC-SHA256 of the exact raw request body
// under the webhook secret. Asana sends the same digest in the
// X-Hook-Signature header.
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return fmt.Sprintf("%x", mac.Sum(nil))
}

// ValidSignature compares a presented signature against the recomputed one in
// constant time.
func ValidSignature(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(SignPayload(secret, body)), []byte(signature))
}
