// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package security provides best-effort scrubbing for buffers that held
// candidate documents or detected contact data.
package security

// Zero overwrites b in place. Go's garbage collector may have copied
// the data elsewhere in the heap, so this reduces the window of
// exposure rather than guaranteeing erasure. Do not rely on it for
// cryptographic-strength memory protection.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Sensitive wraps detected contact text with scrubbing on Clear.
//
// Limitations: string-to-[]byte conversions (e.g. in String()) create
// immutable copies that cannot be zeroed. Clear() zeroes the internal
// byte slice only.
type Sensitive struct {
	data []byte
}

// NewSensitive copies s into a mutable byte slice.
func NewSensitive(s string) *Sensitive {
	data := make([]byte, len(s))
	copy(data, s)
	return &Sensitive{data: data}
}

// String returns the value. Each call creates an immutable copy that
// Clear cannot reach, so use sparingly.
func (s *Sensitive) String() string {
	return string(s.data)
}

// Clear overwrites the internal byte slice with zeros and releases it.
func (s *Sensitive) Clear() {
	Zero(s.data)
	s.data = nil
}
