package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity Identity
		owner    string
		allowed  bool
	}{
		{name: "owner acting on own resource", identity: Authenticated("alice"), owner: "alice", allowed: true},
		{name: "authenticated as someone else", identity: Authenticated("alice"), owner: "bob", allowed: false},
		{name: "anonymous", identity: Anonymous(), owner: "bob", allowed: false},
		{name: "anonymous against empty owner", identity: Anonymous(), owner: "", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.identity, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	assert.False(t, Anonymous().LoggedIn())
	assert.Empty(t, Anonymous().Username())

	id := Authenticated("alice")
	assert.True(t, id.LoggedIn())
	assert.Equal(t, "alice", id.Username())
}
