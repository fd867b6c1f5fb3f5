package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsAdmin(t *testing.T) {
	policy := NewPolicy("Admin@Example.com")

	assert.True(t, policy.IsAdmin("admin@example.com"))
	assert.True(t, policy.IsAdmin("ADMIN@EXAMPLE.COM"))
	assert.True(t, policy.IsAdmin("  admin@example.com  "))
	assert.False(t, policy.IsAdmin("someone@example.com"))
	assert.False(t, policy.IsAdmin(""))
}

func TestPolicy_EmptyConfigTrustsNobody(t *testing.T) {
	policy := NewPolicy("")
	assert.False(t, policy.IsAdmin(""))
	assert.False(t, policy.IsAdmin("admin@example.com"))
}

func TestPolicy_Role(t *testing.T) {
	policy := NewPolicy("admin@example.com")
	assert.Equal(t, RoleAdmin, policy.Role("admin@example.com"))
	assert.Equal(t, "customer", policy.Role("shopper@example.com"))
}
