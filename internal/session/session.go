package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/user"
	"recruit_client/internal/store"
)

const DefaultSlot = "usuarioLogado"

// Identity отдает текущего аутентифицированного пользователя или nil.
type Identity interface {
	Current(ctx context.Context) (*user.User, error)
}

// Slot читает и пишет пользователя сессии в именованный слот хранилища.
type Slot struct {
	store store.Store
	key   string
}

func NewSlot(s store.Store, key string) *Slot {
	if key == "" {
		key = DefaultSlot
	}
	return &Slot{store: s, key: key}
}

func (s *Slot) Current(ctx context.Context) (*user.User, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var account user.User
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, &common.DecodeFailure{Operation: "session", Err: err}
	}
	return &account, nil
}

func (s *Slot) Save(ctx context.Context, account user.User) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return &common.PersistenceFailure{Key: s.key, Err: err}
	}
	return nil
}

func (s *Slot) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.key); err != nil {
		return &common.PersistenceFailure{Key: s.key, Err: err}
	}
	return nil
}

type Authenticator interface {
	Login(ctx context.Context, creds user.Credentials) (*user.User, error)
}

// Login выполняет вход на бэкенде и сохраняет пользователя в слот сессии.
func Login(ctx context.Context, auth Authenticator, slot *Slot, creds user.Credentials) (*user.User, error) {
	account, err := auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := slot.Save(ctx, *account); err != nil {
		return nil, err
	}
	return account, nil
}
