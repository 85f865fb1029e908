package auth

import "github.com/pkg/errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Store interface {
	GetUser(username string) (*User, error)
	SaveUser(*User) error
	DeleteUser(username string) error
	ListUsers() ([]*User, error)
}

type Authenticator struct {
	store Store
}

func NewAuthenticator(store Store) *Authenticator {
	return &Authenticator{store: store}
}

func (a *Authenticator) Store() Store {
	return a.store
}

func (a *Authenticator) Authenticate(username, password string) (*User, error) {
	u, err := a.store.GetUser(username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, errors.WithStack(ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword([]byte(u.Password), password) {
		return nil, errors.WithStack(ErrInvalidCredentials)
	}
	return u, nil
}
