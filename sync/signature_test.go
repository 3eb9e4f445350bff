// Copyright 2025 mirrorhq.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignPayload(t *testing.T) {
	// RFC-style known answer for HMAC-SHA256
	signature := SignPayload("key", []byte("The quick brown fox jumps over the lazy dog"))
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", signature)
	assert.Len(t, signature, 64)
}

func TestValidSignature(t *testing.T) {
	secret := "2a4f6b8c0d2e4f6a8b0c2d4e6f8a0b2c"
	body := []byte(`{"events":[{"action":"changed"}]}`)
	signature := SignPayload(secret, body)

	t.Run("accepts the matching signature", func(t *testing.T) {
		assert.True(t, ValidSignature(secret, body, signature))
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		tampered := append([]byte{}, body...)
		tampered[10] ^= 1
		assert.False(t, ValidSignature(secret, tampered, signature))
	})

	t.Run("rejects a tampered signature", func(t *testing.T) {
		tampered := []byte(signature)
		if tampered[0] == 'a' {
			tampered[0] = 'b'
		} else {
			tampered[0] = 'a'
		}
		assert.False(t, ValidSignature(secret, body, string(tampered)))
	})

	t.Run("rejects the wrong secret", func(t *testing.T) {
		assert.False(t, ValidSignature("some-other-secret", body, signature))
	})
}
