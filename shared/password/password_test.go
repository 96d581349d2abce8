package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"pos/shared/password"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "staff password", plain: "ChangeMe123"},
		{name: "exactly minimum", plain: "12345678"},
		{name: "too short", plain: "short", wantErr: password.ErrTooShort},
		{name: "empty", plain: "", wantErr: password.ErrTooShort},
		{name: "past bcrypt limit", plain: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := password.Hash(tt.plain)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hashed)

				return
			}

			assert.NoError(t, err)
			assert.NotEqual(t, tt.plain, hashed)
			assert.NoError(t, password.Verify(tt.plain, hashed))
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("ChangeMe123")
	assert.NoError(t, err)

	second, err := password.Hash("ChangeMe123")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hashed, err := password.Hash("ChangeMe123")
	assert.NoError(t, err)

	tests := []struct {
		name    string
		plain   string
		hash    string
		wantErr error
	}{
		{name: "match", plain: "ChangeMe123", hash: hashed},
		{name: "mismatch", plain: "changeme123", hash: hashed, wantErr: password.ErrInvalidPassword},
		{name: "blank password", plain: "", hash: hashed, wantErr: password.ErrInvalidPassword},
		{name: "blank hash", plain: "ChangeMe123", hash: "", wantErr: password.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.plain, tt.hash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}

	t.Run("malformed hash", func(t *testing.T) {
		err := password.Verify("ChangeMe123", "not-a-bcrypt-hash")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, password.ErrInvalidPassword)
	})
}

func TestNeedsRehash(t *testing.T) {
	current, err := password.Hash("ChangeMe123")
	assert.NoError(t, err)

	legacy, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123"), bcrypt.MinCost)
	assert.NoError(t, err)

	assert.False(t, password.NeedsRehash(current))
	assert.True(t, password.NeedsRehash(string(legacy)))
	assert.True(t, password.NeedsRehash("not-a-hash"))
}
