package authctx

import (
	"context"
	"testing"

	"github.com/skillsenselab/identity/model"
)

func TestSetGet(t *testing.T) {
	id := &model.Identity{ID: 1, Email: "anish@example.com"}
	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.Email != "anish@example.com" {
		t.Errorf("expected anish@example.com, got %s", got.Email)
	}
}

func TestGet_Empty(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}
	if _, err := GetOrError(context.Background()); err != ErrNoIdentity {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}

func TestMustGet_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing identity")
		}
	}()
	MustGet(context.Background())
}
