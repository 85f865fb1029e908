package server

import (
	"github.com/google/uuid"

	"go.eeprom/internal/auth"
)

type Session struct {
	ID   string
	user *auth.User
}

func newSession() *Session {
	return &Session{ID: uuid.New().String()}
}

func (s *Session) IsAuth() bool {
	return s.user != nil
}
