package session

import (
	"context"
	"errors"
	"testing"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/user"
	"recruit_client/internal/store"
)

type fakeAuthenticator struct {
	account *user.User
	err     error
}

func (f fakeAuthenticator) Login(ctx context.Context, creds user.Credentials) (*user.User, error) {
	return f.account, f.err
}

func TestCurrentEmpty(t *testing.T) {
	slot := NewSlot(store.NewMemory(0), "")
	account, err := slot.Current(context.Background())
	if err != nil || account != nil {
		t.Fatalf("expected no user, got %+v %v", account, err)
	}
}

func TestCurrentNull(t *testing.T) {
	mem := store.NewMemory(0)
	_ = mem.Set(context.Background(), DefaultSlot, []byte("null"))
	account, err := NewSlot(mem, "").Current(context.Background())
	if err != nil || account != nil {
		t.Fatalf("expected no user, got %+v %v", account, err)
	}
}

func TestCurrentMalformed(t *testing.T) {
	mem := store.NewMemory(0)
	_ = mem.Set(context.Background(), DefaultSlot, []byte("{"))
	_, err := NewSlot(mem, "").Current(context.Background())
	var decodeErr *common.DecodeFailure
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestLoginSavesSession(t *testing.T) {
	mem := store.NewMemory(0)
	slot := NewSlot(mem, "")
	auth := fakeAuthenticator{account: &user.User{ID: 7, Name: "Maria", Role: user.RoleManager}}
	if _, err := Login(context.Background(), auth, slot, user.Credentials{Email: "m@x.com", Password: "p"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	account, err := slot.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if account == nil || account.ID != 7 {
		t.Fatalf("unexpected account %+v", account)
	}
	if err := slot.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if account, _ := slot.Current(context.Background()); account != nil {
		t.Fatalf("expected cleared session")
	}
}

func TestLoginFailureKeepsSessionEmpty(t *testing.T) {
	slot := NewSlot(store.NewMemory(0), "")
	auth := fakeAuthenticator{err: &common.AuthFailure{Status: 401}}
	if _, err := Login(context.Background(), auth, slot, user.Credentials{}); err == nil {
		t.Fatalf("expected error")
	}
	if account, _ := slot.Current(context.Background()); account != nil {
		t.Fatalf("session must stay empty")
	}
}
