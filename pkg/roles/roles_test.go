package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(Warehouse))
	assert.True(t, Admin.HasPermission(Admin))
	assert.True(t, Warehouse.HasPermission(User))
	assert.False(t, Warehouse.HasPermission(Admin))
	assert.False(t, User.HasPermission(Warehouse))
}

func TestIsValid(t *testing.T) {
	assert.True(t, User.IsValid())
	assert.True(t, Warehouse.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("superuser").IsValid())
}
