package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":              "",
		"Code":          "code",
		"EncryptedSeed": "encrypted_seed",
		"HTTPServer":    "http_server",
		"userID":        "user_id",
		"Base32Secret":  "base32_secret",
		"ValidFor":      "valid_for",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}
