// Package session tracks who is logged in and routes actions to the
// directory or to the current account.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/port"
	"github.com/taskdeck/taskdeck/internal/usecase/store"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrExited          = errors.New("session has ended")
)

type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
	StateExited
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged-out"
	case StateLoggedIn:
		return "logged-in"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Controller is the session state machine. It does not own the accounts it
// points to; the directory does.
type Controller struct {
	dir     *domain.Directory
	repo    port.DirectoryRepository
	logger  *log.Logger
	now     func() time.Time
	current *domain.UserAccount
	exited  bool
}

type Option func(*Controller)

// WithClock overrides the clock used to stamp new tasks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(dir *domain.Directory, repo port.DirectoryRepository, logger *log.Logger, opts ...Option) *Controller {
	c := &Controller{
		dir:    dir,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	switch {
	case c.exited:
		return StateExited
	case c.current != nil:
		return StateLoggedIn
	default:
		return StateLoggedOut
	}
}

// Username returns the logged in user, or "" when logged out.
func (c *Controller) Username() string {
	if c.current == nil {
		return ""
	}
	return c.current.Username
}

func (c *Controller) requireState(want State) error {
	got := c.State()
	if got == want {
		return nil
	}
	switch got {
	case StateExited:
		return ErrExited
	case StateLoggedIn:
		return ErrAlreadyLoggedIn
	default:
		return ErrNotLoggedIn
	}
}

func (c *Controller) Login(username, password string) error {
	if err := c.requireState(StateLoggedOut); err != nil {
		return err
	}
	acct, err := c.dir.Authenticate(username, password)
	if err != nil {
		c.logger.Debug("login rejected", "username", username)
		return err
	}
	c.current = acct
	c.logger.Debug("login", "username", username)
	return nil
}

// CheckUsernameAvailable lets a front-end reject a taken name before asking
// for a password.
func (c *Controller) CheckUsernameAvailable(username string) error {
	if err := c.requireState(StateLoggedOut); err != nil {
		return err
	}
	if c.dir.Exists(username) {
		return domain.ErrUsernameTaken
	}
	return nil
}

func (c *Controller) Register(username, password string) error {
	if err := c.requireState(StateLoggedOut); err != nil {
		return err
	}
	if _, err := c.dir.Register(username, password); err != nil {
		return err
	}
	c.logger.Debug("registered", "username", username)
	return nil
}

func (c *Controller) Logout() error {
	if err := c.requireState(StateLoggedIn); err != nil {
		return err
	}
	c.logger.Debug("logout", "username", c.current.Username)
	c.current = nil
	return nil
}

func (c *Controller) AddTask(description string) (domain.Task, error) {
	if err := c.requireState(StateLoggedIn); err != nil {
		return domain.Task{}, err
	}
	t := domain.NewTask(description, false, c.now())
	c.current.AddTask(t)
	return t, nil
}

func (c *Controller) AddPriorityTask(description string) (domain.Task, error) {
	if err := c.requireState(StateLoggedIn); err != nil {
		return domain.Task{}, err
	}
	t := domain.NewTask(description, true, c.now())
	c.current.AddPriorityTask(t)
	return t, nil
}

func (c *Controller) PeekNext() (domain.Task, error) {
	if err := c.requireState(StateLoggedIn); err != nil {
		return domain.Task{}, err
	}
	t, ok := c.current.PeekNextTask()
	if !ok {
		return domain.Task{}, domain.ErrEmptyQueue
	}
	return t, nil
}

func (c *Controller) CompleteNext() (domain.Task, error) {
	if err := c.requireState(StateLoggedIn); err != nil {
		return domain.Task{}, err
	}
	t, ok := c.current.CompleteNextTask()
	if !ok {
		return domain.Task{}, domain.ErrEmptyQueue
	}
	return t, nil
}

// ListAll returns the current user's tasks front to back; ErrEmptyQueue if
// there are none.
func (c *Controller) ListAll() ([]domain.Task, error) {
	if err := c.requireState(StateLoggedIn); err != nil {
		return nil, err
	}
	tasks := c.current.AllTasks()
	if len(tasks) == 0 {
		return nil, domain.ErrEmptyQueue
	}
	return tasks, nil
}

// Exit ends the session and persists the directory. Only the first call
// persists; later calls return nil. A persistence error is returned for
// reporting, the session is over either way.
func (c *Controller) Exit(ctx context.Context) error {
	if c.exited {
		return nil
	}
	c.exited = true
	c.current = nil
	// An interrupted loop still gets its snapshot written.
	return store.PersistDirectory(context.WithoutCancel(ctx), c.repo, c.dir, c.logger)
}
