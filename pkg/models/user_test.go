package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserCapabilities(t *testing.T) {
	t.Parallel()

	librarian := &User{
		ID: 1,
		Role: &Role{
			Name: RoleLibrarian,
			Permissions: []*Permission{
				{Codename: CapabilityMarkReturned},
				{Codename: CapabilityAddAuthor},
			},
		},
	}
	assert.True(t, librarian.HasCapability(CapabilityMarkReturned))
	assert.False(t, librarian.HasCapability(CapabilityDeleteAuthor))

	caller := librarian.Caller()
	assert.Equal(t, 1, caller.UserID)
	assert.True(t, caller.Can(CapabilityAddAuthor))
	assert.Equal(t, []string{"catalog.add_author", "catalog.can_mark_returned"}, caller.Capabilities.Sorted())

	noRole := &User{ID: 2}
	assert.False(t, noRole.HasCapability(CapabilityMarkReturned))
	assert.Empty(t, noRole.Caller().Capabilities)
}
