package services

import (
	"context"
	"errors"
	"testing"
)

func TestUserService_Upsert(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	ctx := context.Background()
	svc := NewUserService(env.gw)

	first, err := svc.UpsertByExternalID(ctx, UserInput{ExternalID: "google|1", Email: "a@x.io", Name: "A", AvatarURL: "https://img/a.png"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	again, err := svc.UpsertByExternalID(ctx, UserInput{ExternalID: " google|1 ", Name: "Alex"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("second login created user %d; want %d", again.ID, first.ID)
	}
	if again.Name != "Alex" || again.Email != "a@x.io" || again.AvatarURL == nil || *again.AvatarURL != "https://img/a.png" {
		t.Fatalf("profile after refresh = %+v", again)
	}

	got, err := svc.Get(ctx, first.ID)
	if err != nil || got.ExternalID != "google|1" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := svc.Get(ctx, first.ID+10); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing Get err = %v; want ErrUserNotFound", err)
	}
}

func TestUserService_UpsertValidation(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	svc := NewUserService(env.gw)
	for _, in := range []UserInput{
		{ExternalID: "  "},
		{ExternalID: "x", AvatarURL: "not a url"},
	} {
		if _, err := svc.UpsertByExternalID(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("UpsertByExternalID(%+v) err = %v; want ErrValidation", in, err)
		}
	}
}
