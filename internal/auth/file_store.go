package auth

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var _ Store = &FileStore{}

type FileStore struct {
	fs    afero.Fs
	path  string
	mu    sync.RWMutex
	users map[string]*User
}

func NewFileStore(fs afero.Fs, path string) (*FileStore, error) {
	store := &FileStore{
		fs:    fs,
		path:  path,
		users: make(map[string]*User),
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

// Load the user catalog from store.path
func (store *FileStore) load() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	f, err := store.fs.Open(store.path)
	if errors.Is(err, os.ErrNotExist) {
		// First run, the catalog is created by the first SaveUser
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var list []*User
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return errors.Wrapf(err, "failed to parse %s", store.path)
	}

	for _, u := range list {
		store.users[u.Username] = u
	}
	return nil
}

// write from memory to user catalog
func (store *FileStore) persist() (err error) {
	f, err := store.fs.Create(store.path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.WithStack(cerr)
		}
	}()

	return errors.WithStack(json.NewEncoder(f).Encode(store.list()))
}

func (store *FileStore) list() []*User {
	list := make([]*User, 0, len(store.users))
	for _, u := range store.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Username < list[j].Username
	})
	return list
}

func (store *FileStore) GetUser(username string) (*User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	u, ok := store.users[username]
	if !ok {
		return nil, errors.Wrap(ErrUserNotFound, username)
	}

	// Copy so callers don't hold a reference into the catalog
	user := *u
	return &user, nil
}

func (store *FileStore) SaveUser(u *User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	prev, existed := store.users[u.Username]
	user := *u
	store.users[u.Username] = &user

	if err := store.persist(); err != nil {
		// Keep the catalog in line with the file
		if existed {
			store.users[u.Username] = prev
		} else {
			delete(store.users, u.Username)
		}
		return err
	}
	return nil
}

func (store *FileStore) DeleteUser(username string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	prev, ok := store.users[username]
	if !ok {
		return errors.Wrap(ErrUserNotFound, username)
	}
	delete(store.users, username)

	if err := store.persist(); err != nil {
		store.users[username] = prev
		return err
	}
	return nil
}

func (store *FileStore) ListUsers() ([]*User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return store.list(), nil
}
