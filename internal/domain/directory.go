package domain

import (
	"fmt"
	"sort"
)

// Directory is the in-memory registry of accounts keyed by username.
type Directory struct {
	accounts map[string]*UserAccount
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{accounts: make(map[string]*UserAccount)}
}

// Register creates an account. Usernames are case-sensitive.
func (d *Directory) Register(username, password string) (*UserAccount, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is empty", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	if d.Exists(username) {
		return nil, ErrUsernameTaken
	}
	a := NewAccount(username, password)
	d.accounts[username] = a
	return a, nil
}

// Insert adds an already built account, e.g. one restored from a snapshot.
func (d *Directory) Insert(a *UserAccount) error {
	if a == nil || a.Username == "" {
		return fmt.Errorf("%w: account without username", ErrInvalidInput)
	}
	if d.Exists(a.Username) {
		return fmt.Errorf("%w: %q", ErrUsernameTaken, a.Username)
	}
	d.accounts[a.Username] = a
	return nil
}

// Authenticate returns the account for username if password matches.
// Unknown users and wrong passwords yield the same error.
func (d *Directory) Authenticate(username, password string) (*UserAccount, error) {
	a, ok := d.accounts[username]
	if !ok || !a.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// Exists reports whether username is registered.
func (d *Directory) Exists(username string) bool {
	_, ok := d.accounts[username]
	return ok
}

// Accounts returns all accounts ordered by username.
func (d *Directory) Accounts() []*UserAccount {
	out := make([]*UserAccount, 0, len(d.accounts))
	for _, a := range d.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Len returns the number of accounts.
func (d *Directory) Len() int { return len(d.accounts) }
