// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package auth verifies GitHub credentials and describes the identity they
// belong to.
package auth

import (
	"encoding/json"
	"fmt"
)

// Identity is the GitHub account a verified credential belongs to.
// It never carries the credential itself.
type Identity struct {
	// Login is the canonical GitHub handle.
	Login string

	// ID is the numeric GitHub user ID, when the provider returned one.
	ID int64

	// Name is the display name, when the account has one set.
	Name string
}

// String returns a short representation suitable for log lines.
func (i *Identity) String() string {
	if i == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Identity{Login:%q}", i.Login)
}

// MarshalJSON emits the identity with lowercase field names.
func (i *Identity) MarshalJSON() ([]byte, error) {
	if i == nil {
		return []byte("null"), nil
	}

	type safeIdentity struct {
		Login string `json:"login"`
		ID    int64  `json:"id,omitempty"`
		Name  string `json:"name,omitempty"`
	}

	return json.Marshal(&safeIdentity{
		Login: i.Login,
		ID:    i.ID,
		Name:  i.Name,
	})
}
