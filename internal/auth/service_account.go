// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "crypto/subtle"

// ServiceAccount is the built-in administrative credential pair. It is
// checked before the user collection is consulted, so the admin login works
// even against an empty database. The credentials come from configuration
// and never expire or rotate.
type ServiceAccount struct {
	email    string
	password string
}

// NewServiceAccount creates a service account from the configured pair.
func NewServiceAccount(email, password string) *ServiceAccount {
	return &ServiceAccount{email: email, password: password}
}

// Email returns the service account's login email.
func (s *ServiceAccount) Email() string {
	return s.email
}

// Matches reports whether the submitted pair is the service account.
// Both fields are compared in constant time.
func (s *ServiceAccount) Matches(email, password string) bool {
	if s == nil || s.email == "" || s.password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	return emailOK && passOK
}
