// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Identity

// Identity is the authenticated principal attached to a request.
//
// It is reconstructed from access-token claims by the authentication
// middleware and never mutated afterwards.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsZero reports whether the identity carries no subject.
func (identity Identity) IsZero() bool {
	return identity.ID == ""
}

// # Ownership Policy

// Owns reports whether the identity may access a resource owned by ownerID.
//
// There are no roles, no sharing and no admin override: a resource is
// accessible only to the identity whose id equals the owner id.
func (identity Identity) Owns(ownerID string) bool {
	return identity.ID != "" && identity.ID == ownerID
}
