package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	for _, bad := range []string{"", "ana", "ana@", "@example.com", "a@b@c.com", "ana@ex"} {
		assert.False(t, IsValidEmail(bad), bad)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana Horvat", DisplayName(" Ana Horvat ", "ana@example.com"))
	assert.Equal(t, "ivo.k", DisplayName("", "ivo.k@example.com"))
	assert.Equal(t, "User", DisplayName("  ", ""))
	assert.Equal(t, "User", DisplayName("", "@example.com"))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ana", FirstName("Ana Horvat"))
	assert.Equal(t, "there", FirstName(" "))
}
