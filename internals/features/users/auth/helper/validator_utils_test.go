package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegisterInput(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  string
	}{
		{"ok", "siti_a", "siti@example.com", "rahasia123", ""},
		{"short user name", "si", "siti@example.com", "rahasia123", "user_name"},
		{"bad email", "siti", "siti@", "rahasia123", "email"},
		{"short password", "siti", "siti@example.com", "abc1", "at least 8"},
		{"letters only", "siti", "siti@example.com", "rahasiaaa", "letters and numbers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegisterInput(tt.userName, tt.email, tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateChangePassword(t *testing.T) {
	assert.Error(t, ValidateChangePassword("", "abcdefg1"))
	assert.Error(t, ValidateChangePassword("abcdefg1", "abcdefg1"))
	assert.NoError(t, ValidateChangePassword("abcdefg1", "abcdefg2"))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", hash)
	assert.NoError(t, CheckPasswordHash(hash, "rahasia123"))
	assert.Error(t, CheckPasswordHash(hash, "salah123"))
}
