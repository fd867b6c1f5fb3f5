package auth

import "strings"

// RoleAdmin is the only privileged role the storefront knows about.
const RoleAdmin = "admin"

// Policy decides which identities are privileged. The store runs with a
// single administrator; the email comes from configuration.
type Policy struct {
	adminEmail string
}

func NewPolicy(adminEmail string) *Policy {
	return &Policy{adminEmail: strings.ToLower(strings.TrimSpace(adminEmail))}
}

// IsAdmin reports whether the given email is the configured administrator.
// All other identities are unprivileged regardless of authentication success.
func (p *Policy) IsAdmin(email string) bool {
	if p.adminEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), p.adminEmail)
}

// Role returns the role for an identity under this policy.
func (p *Policy) Role(email string) string {
	if p.IsAdmin(email) {
		return RoleAdmin
	}
	return "customer"
}
