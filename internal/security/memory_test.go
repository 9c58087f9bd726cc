// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"testing"
)

func TestZero(t *testing.T) {
	b := []byte("jane.doe@example.com")
	Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not zeroed: %d", i, v)
		}
	}
	// Nil and empty slices are no-ops
	Zero(nil)
	Zero([]byte{})
}

func TestNewSensitive_StoresValue(t *testing.T) {
	s := NewSensitive("555-123-4567")
	if s.String() != "555-123-4567" {
		t.Errorf("expected '555-123-4567', got %q", s.String())
	}
}

func TestNewSensitive_EmptyString(t *testing.T) {
	s := NewSensitive("")
	if s.String() != "" {
		t.Errorf("expected empty string, got %q", s.String())
	}
}

func TestSensitive_Clear_ZeroesData(t *testing.T) {
	s := NewSensitive("jane.doe@example.com")
	s.Clear()
	// After Clear, String() should return empty (data is nil)
	if s.String() != "" {
		t.Errorf("expected empty string after Clear, got %q", s.String())
	}
}

func TestSensitive_Clear_Idempotent(t *testing.T) {
	s := NewSensitive("data")
	s.Clear()
	// Calling Clear again should not panic
	s.Clear()
}

func TestSensitive_LargeValue(t *testing.T) {
	large := make([]byte, 10000)
	for i := range large {
		large[i] = byte('a' + i%26)
	}
	v := string(large)
	s := NewSensitive(v)
	if s.String() != v {
		t.Error("large value not stored correctly")
	}
	s.Clear()
	if s.String() != "" {
		t.Error("large value not cleared correctly")
	}
}
