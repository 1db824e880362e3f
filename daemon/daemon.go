// Package daemon runs a web binary under the host's service manager
// (systemd, launchd or the Windows SCM) via kardianos/service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/emailcheck/app"
	"github.com/kardianos/service"
)

// ActionRun runs the program in the foreground under the service manager.
// It is the action an installed service is started with.
const ActionRun = "run"

// ActionStatus prints whether the service is installed and running.
const ActionStatus = "status"

// stopTimeout bounds how long Stop waits for app.Run to return.
const stopTimeout = 30 * time.Second

// Program adapts app.Run to service.Interface. Start launches the app in
// a goroutine; Stop cancels its context and waits for it to drain.
type Program[C any] struct {
	Hooks app.Hooks[C]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// Start is called by the service manager. It must not block.
func (p *Program[C]) Start(service.Service) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return errors.New("daemon: already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	p.cancel, p.done = cancel, done

	go func() { done <- app.Run(ctx, p.Hooks) }()
	return nil
}

// Stop cancels the running app and returns its error, if any.
func (p *Program[C]) Stop(service.Service) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case err := <-done:
		return err
	case <-time.After(stopTimeout):
		return fmt.Errorf("daemon: app did not stop within %s", stopTimeout)
	}
}

// Config describes the service. args are passed back to the binary,
// after "service run", when the service manager starts it.
func Config(name, description string, args []string) *service.Config {
	return &service.Config{
		Name:        name,
		DisplayName: name,
		Description: description,
		Arguments:   append([]string{"service", ActionRun}, args...),
	}
}

// Actions lists every action Control accepts.
func Actions() []string {
	return append([]string{ActionRun, ActionStatus}, service.ControlAction[:]...)
}

// Controller is the part of service.Service that Control drives.
type Controller interface {
	Run() error
	Start() error
	Stop() error
	Restart() error
	Install() error
	Uninstall() error
	Status() (service.Status, error)
}

// Control performs action on s. Status is written to out.
func Control(s Controller, action string, out io.Writer) error {
	switch action {
	case ActionRun:
		return s.Run()
	case ActionStatus:
		st, err := s.Status()
		if errors.Is(err, service.ErrNotInstalled) {
			_, werr := fmt.Fprintln(out, "not installed")
			return werr
		}
		if err != nil {
			return fmt.Errorf("service status: %w", err)
		}
		_, err = fmt.Fprintln(out, StatusString(st))
		return err
	case "start":
		return s.Start()
	case "stop":
		return s.Stop()
	case "restart":
		return s.Restart()
	case "install":
		return s.Install()
	case "uninstall":
		return s.Uninstall()
	}
	return fmt.Errorf("unknown service action %q (want one of %v)", action, Actions())
}

// StatusString names a service.Status.
func StatusString(st service.Status) string {
	switch st {
	case service.StatusRunning:
		return "running"
	case service.StatusStopped:
		return "stopped"
	}
	return "unknown"
}

// Main handles "service <action> [flags...]" for a web binary and
// returns the process exit code. Flags are stored in the service
// definition on install and ignored by the other control actions.
func Main[C any](name, description string, args []string, hooks func(flags []string) app.Hooks[C], stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(stderr, "usage: %s service <%s> [flags]\n", name, joinActions())
		return 2
	}
	action, flags := args[0], args[1:]
	if !slices.Contains(Actions(), action) {
		fmt.Fprintf(stderr, "%s: unknown service action %q (want one of %s)\n", name, action, joinActions())
		return 2
	}

	prg := &Program[C]{Hooks: hooks(flags)}
	s, err := service.New(prg, Config(name, description, flags))
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}
	if err := Control(s, action, stdout); err != nil {
		fmt.Fprintf(stderr, "%s: service %s: %v\n", name, action, err)
		return 1
	}
	return 0
}

func joinActions() string { return strings.Join(Actions(), "|") }
