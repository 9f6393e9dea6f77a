// ABOUTME: Tests for identity context propagation
// ABOUTME: Covers WithIdentity/FromContext/MustFromContext round-trips

package auth

import (
	"context"
	"testing"
)

func TestWithIdentity_RoundTrip(t *testing.T) {
	id := &Identity{Username: "alice01"}
	ctx := WithIdentity(context.Background(), id)

	got := FromContext(ctx)
	if got == nil {
		t.Fatal("FromContext() = nil, want identity")
	}
	if got.Username != "alice01" {
		t.Errorf("Username = %q, want %q", got.Username, "alice01")
	}
}

func TestFromContext_Empty(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext() should panic on empty context")
		}
	}()
	MustFromContext(context.Background())
}
