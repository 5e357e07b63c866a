package domain

import "crypto/subtle"

// UserAccount owns a username, its credential and the user's task queue.
type UserAccount struct {
	Username string
	password string // stored as given, see credentialsMatch
	queue    TaskQueue
}

// NewAccount creates an account with an empty queue.
func NewAccount(username, password string) *UserAccount {
	return &UserAccount{Username: username, password: password}
}

// RestoreAccount rebuilds an account from persisted state, tasks front to back.
func RestoreAccount(username, password string, tasks []Task) *UserAccount {
	a := NewAccount(username, password)
	for _, t := range tasks {
		a.queue.PushBack(t)
	}
	return a
}

// Password returns the stored credential. Only storage adapters need it.
func (a *UserAccount) Password() string { return a.password }

// CheckPassword reports whether candidate matches the stored credential.
func (a *UserAccount) CheckPassword(candidate string) bool {
	return credentialsMatch(a.password, candidate)
}

// credentialsMatch is the single place credentials are compared. Swap it
// out together with how NewAccount stores the secret to introduce hashing.
func credentialsMatch(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// AddTask queues t behind all existing tasks.
func (a *UserAccount) AddTask(t Task) { a.queue.PushBack(t) }

// AddPriorityTask queues t ahead of all existing tasks.
func (a *UserAccount) AddPriorityTask(t Task) { a.queue.PushFront(t) }

// PeekNextTask returns the next task without completing it.
func (a *UserAccount) PeekNextTask() (Task, bool) { return a.queue.PeekFront() }

// CompleteNextTask removes and returns the next task.
func (a *UserAccount) CompleteNextTask() (Task, bool) { return a.queue.PopFront() }

// AllTasks returns a copy of the queue, front to back.
func (a *UserAccount) AllTasks() []Task { return a.queue.Slice() }

// Len returns the number of queued tasks.
func (a *UserAccount) Len() int { return a.queue.Len() }
