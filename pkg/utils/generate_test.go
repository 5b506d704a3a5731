package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP_Shape(t *testing.T) {
	t.Parallel()

	for _, length := range []int{4, 6, 8} {
		code := GenerateOTP(length)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "OTP must be numeric, got %q", code)
		}
	}
}

func TestGenerateOTP_DefaultLength(t *testing.T) {
	t.Parallel()

	assert.Len(t, GenerateOTP(0), 6)
	assert.Len(t, GenerateOTP(-1), 6)
}

func TestGenerateOTP_NotConstant(t *testing.T) {
	t.Parallel()

	// 32 draws of a 6-digit code colliding into a single value would mean
	// the generator is broken.
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		seen[GenerateOTP(6)] = true
	}
	assert.Greater(t, len(seen), 1)
}
