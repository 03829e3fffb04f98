//go:build !windows

package winhelper

import (
	"errors"
	"testing"
)

func TestSystemUnsupported(t *testing.T) {
	var s Store = System{}
	if _, err := s.OpenKey(`HKCU\Software`); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if ok, err := Exists(s, `HKCU\Software`); ok || !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %t %v", ok, err)
	}
}
