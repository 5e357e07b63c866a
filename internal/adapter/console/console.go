// Package console is the interactive front-end: it prints menus, reads one
// choice per line and maps it to session actions.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/usecase/session"
	"github.com/taskdeck/taskdeck/internal/usecase/store"
)

var (
	ErrInvalidMenuChoice = errors.New("invalid menu choice")

	errInputClosed = errors.New("input closed")
)

const (
	msgInvalidChoice = "Invalid choice. Please try again."
	msgEmptyQueue    = "No tasks in the queue!"
	rule             = "===================================="
)

// Console drives one interactive session.
type Console struct {
	ctrl       *session.Controller
	lines      <-chan inputLine
	done       chan struct{} // closed when Run returns
	readerDone chan struct{} // closed when the input goroutine exits
	stopOnce   sync.Once
	out        io.Writer
	logger     *log.Logger
}

type inputLine struct {
	text string
	err  error
}

func New(ctrl *session.Controller, in io.Reader, out io.Writer, logger *log.Logger) *Console {
	c := &Console{
		ctrl:       ctrl,
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
		out:        out,
		logger:     logger,
	}
	c.lines = c.readLines(in)
	return c
}

// readLines feeds trimmed input lines into a channel so reads can be
// abandoned when the context is cancelled. Lines have no length limit.
// The channel closes at EOF, after a read error has been delivered, or
// once Run has returned.
func (c *Console) readLines(in io.Reader) <-chan inputLine {
	ch := make(chan inputLine)
	send := func(l inputLine) bool {
		select {
		case ch <- l:
			return true
		case <-c.done:
			return false
		}
	}
	go func() {
		defer close(c.readerDone)
		defer close(ch)
		r := bufio.NewReader(in)
		for {
			s, err := r.ReadString('\n')
			if err == nil || (errors.Is(err, io.EOF) && s != "") {
				if !send(inputLine{text: strings.TrimSpace(s)}) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					send(inputLine{err: fmt.Errorf("read input: %w", err)})
				}
				return
			}
		}
	}()
	return ch
}

func (c *Console) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// ReportLoad tells the user how the directory was obtained at startup.
func (c *Console) ReportLoad(status store.LoadStatus, err error) {
	switch status {
	case store.LoadStatusFresh:
		c.println("No existing data found. Starting fresh.")
	case store.LoadStatusRecovered:
		c.println("Error loading data:", err)
	default:
		c.println("Data loaded successfully!")
	}
}

// Run loops until the user exits, input ends or ctx is cancelled, then
// persists the directory once and says goodbye.
func (c *Console) Run(ctx context.Context) {
	c.println(rule)
	c.println("WELCOME TO MULTI-USER TODO APP")
	c.println(rule)
	defer c.stop()

	for {
		c.showMenu()
		choice, err := c.readLine(ctx)
		if err != nil {
			c.println()
			if !errors.Is(err, errInputClosed) && ctx.Err() == nil {
				c.logger.Error("reading input failed", "err", err)
				c.println("Error:", err)
			}
			break
		}
		if exit := c.step(ctx, choice); exit {
			break
		}
	}

	if err := c.ctrl.Exit(ctx); err != nil {
		c.println("Error saving data:", err)
	} else {
		c.println("Data saved successfully!")
	}
	c.println("Thank you for using the Todo App. Goodbye!")
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", errInputClosed
		}
		if line.err != nil {
			return "", line.err
		}
		return line.text, nil
	}
}

func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	c.printf("%s: ", label)
	return c.readLine(ctx)
}

func (c *Console) showMenu() {
	if c.ctrl.State() == session.StateLoggedIn {
		c.printf("\n--- MAIN MENU (Logged in as: %s) ---\n", c.ctrl.Username())
		c.println("1. Add task")
		c.println("2. View next task")
		c.println("3. Complete next task")
		c.println("4. View all tasks")
		c.println("5. Add priority task (add to front of queue)")
		c.println("6. Logout")
		c.println("7. Exit")
	} else {
		c.println("\n--- LOGIN MENU ---")
		c.println("1. Login")
		c.println("2. Register")
		c.println("3. Exit")
	}
	c.printf("Enter your choice: ")
}

// step runs one menu action and reports whether the session should end.
// Errors and panics stay inside the cycle.
func (c *Console) step(ctx context.Context, choice string) (exit bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("menu action panicked", "choice", choice, "panic", r)
			c.println("Error:", r)
			exit = false
		}
	}()

	var err error
	if c.ctrl.State() == session.StateLoggedIn {
		exit, err = c.dispatchMain(ctx, choice)
	} else {
		exit, err = c.dispatchLogin(ctx, choice)
	}
	switch {
	case err == nil:
	case errors.Is(err, errInputClosed) || ctx.Err() != nil:
		c.println()
		return true
	case errors.Is(err, ErrInvalidMenuChoice):
		c.println(msgInvalidChoice)
	case errors.Is(err, domain.ErrEmptyQueue):
		c.println(msgEmptyQueue)
	default:
		c.logger.Debug("menu action failed", "choice", choice, "err", err)
		c.println("Error:", err)
	}
	return exit
}

func (c *Console) dispatchLogin(ctx context.Context, choice string) (bool, error) {
	switch choice {
	case "1":
		return false, c.login(ctx)
	case "2":
		return false, c.register(ctx)
	case "3":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidMenuChoice, choice)
	}
}

func (c *Console) dispatchMain(ctx context.Context, choice string) (bool, error) {
	switch choice {
	case "1":
		return false, c.addTask(ctx, false)
	case "2":
		return false, c.viewNext()
	case "3":
		return false, c.completeNext()
	case "4":
		return false, c.viewAll()
	case "5":
		return false, c.addTask(ctx, true)
	case "6":
		return false, c.logout()
	case "7":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidMenuChoice, choice)
	}
}

func (c *Console) login(ctx context.Context) error {
	username, err := c.prompt(ctx, "Enter username")
	if err != nil {
		return err
	}
	password, err := c.prompt(ctx, "Enter password")
	if err != nil {
		return err
	}
	err = c.ctrl.Login(username, password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		c.println("Invalid username or password!")
		return nil
	}
	if err != nil {
		return err
	}
	c.println("Login successful!")
	return nil
}

func (c *Console) register(ctx context.Context) error {
	username, err := c.prompt(ctx, "Enter new username")
	if err != nil {
		return err
	}
	if err := c.ctrl.CheckUsernameAvailable(username); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			c.println("Username already exists!")
			return nil
		}
		return err
	}
	password, err := c.prompt(ctx, "Enter password")
	if err != nil {
		return err
	}
	err = c.ctrl.Register(username, password)
	if errors.Is(err, domain.ErrUsernameTaken) {
		c.println("Username already exists!")
		return nil
	}
	if err != nil {
		return err
	}
	c.println("Registration successful!")
	return nil
}

func (c *Console) logout() error {
	if err := c.ctrl.Logout(); err != nil {
		return err
	}
	c.println("Logged out successfully!")
	return nil
}

func (c *Console) addTask(ctx context.Context, priority bool) error {
	label := "Enter task description"
	if priority {
		label = "Enter priority task description"
	}
	description, err := c.prompt(ctx, label)
	if err != nil {
		return err
	}
	if priority {
		if _, err := c.ctrl.AddPriorityTask(description); err != nil {
			return err
		}
		c.println("Priority task added successfully!")
		return nil
	}
	if _, err := c.ctrl.AddTask(description); err != nil {
		return err
	}
	c.println("Task added successfully!")
	return nil
}

func (c *Console) viewNext() error {
	t, err := c.ctrl.PeekNext()
	if err != nil {
		return err
	}
	c.printf("\nNext task: %s\n", t.Describe())
	return nil
}

func (c *Console) completeNext() error {
	t, err := c.ctrl.CompleteNext()
	if err != nil {
		return err
	}
	c.printf("Completed task: %s\n", t.Description)
	return nil
}

func (c *Console) viewAll() error {
	tasks, err := c.ctrl.ListAll()
	if err != nil {
		return err
	}
	c.println("\n--- Your Tasks ---")
	for i, t := range tasks {
		c.printf("%d. %s\n", i+1, t.Describe())
	}
	return nil
}
