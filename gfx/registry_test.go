// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"reflect"
	"testing"
)

func fakeFactory() Backend { return &fakeBackend{} }

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, fakeFactory, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" || entry.Priority != 50 {
		t.Errorf("entry = %q/%d, want test/50", entry.Name, entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}

	r.Unregister("test")
	if _, ok := r.Get("test"); ok {
		t.Error("backend should not exist after unregister")
	}
}

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 10, fakeFactory, nil)
	r.Register("high", 100, fakeFactory, func() bool { return false })
	r.Register("mid", 50, fakeFactory, nil)
	r.Register("also-mid", 50, fakeFactory, nil)

	if got, want := r.List(), []string{"high", "also-mid", "mid", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := r.Available(), []string{"also-mid", "mid", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestRegistryNew(t *testing.T) {
	r := NewRegistry()
	r.Register("ok", 10, fakeFactory, nil)
	r.Register("off", 20, fakeFactory, func() bool { return false })
	r.Register("broken", 30, func() Backend { return nil }, nil)

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"ok", false},
		{"off", true},
		{"broken", true},
		{"missing", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := r.New(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrBackendNotAvailable) {
					t.Errorf("New(%q) error = %v, want ErrBackendNotAvailable", tt.name, err)
				}
				return
			}
			if err != nil || b == nil {
				t.Errorf("New(%q) = %v, %v", tt.name, b, err)
			}
		})
	}
}

func TestRegistryDefault(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Default(); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default() on empty registry = %v", err)
	}

	r.Register("broken", 100, func() Backend { return nil }, nil)
	r.Register("fallback", 1, fakeFactory, nil)

	b, err := r.Default()
	if err != nil {
		t.Fatalf("Default() = %v", err)
	}
	if b.Name() != "fake" {
		t.Errorf("Default() = %q, want the fallback backend", b.Name())
	}
}
