package models

import "matdepot/pkg/roles"

// Actor is the caller identity threaded explicitly through every workflow
// call. Role gating happens at the HTTP boundary; workflows only use it for
// audit attribution.
type Actor struct {
	ID       int        `json:"id"`
	Username string     `json:"username"`
	Role     roles.Role `json:"role"`
}
