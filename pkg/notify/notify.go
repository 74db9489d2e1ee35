// Package notify shows reminder notifications.
// Every Notifier is best effort: failures are logged and never returned.
package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/0xAX/notificator"
	"github.com/charmbracelet/log"
)

type Permission int

const (
	Default Permission = iota
	Granted
	Denied
)

func (p Permission) String() string {
	switch p {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "default"
	}
}

type Notification struct {
	Title    string
	Body     string
	Critical bool
}

type Notifier interface {
	Permission() Permission
	RequestPermission()
	Notify(Notification)
}

// New builds a notifier by name: "desktop", "log" or "none"
func New(kind string, logger *log.Logger) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "desktop":
		return NewDesktop("taskman", logger), nil
	case "log":
		return NewLog(logger), nil
	case "none":
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown notifier %q, expected 'desktop', 'log' or 'none'", kind)
}

// permission starts in Default and is granted on request
type permission struct {
	mu    sync.Mutex
	state Permission
}

func (p *permission) Permission() Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *permission) RequestPermission() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Default {
		p.state = Granted
	}
}

type Desktop struct {
	permission
	n      *notificator.Notificator
	logger *log.Logger
}

func NewDesktop(app string, logger *log.Logger) *Desktop {
	return &Desktop{
		n:      notificator.New(notificator.Options{AppName: app}),
		logger: logger,
	}
}

func (d *Desktop) Notify(n Notification) {
	urgency := notificator.UR_NORMAL
	if n.Critical {
		urgency = notificator.UR_CRITICAL
	}
	if err := d.n.Push(n.Title, n.Body, "", urgency); err != nil {
		d.logger.Warn("desktop notification failed", "title", n.Title, "err", err)
	}
}

// Log writes notifications to the logger instead of the desktop
type Log struct {
	permission
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(n Notification) {
	l.logger.Info(n.Title, "body", n.Body, "critical", n.Critical)
}

// None never gets permission, so nothing is ever shown
type None struct{}

func (None) Permission() Permission { return Denied }
func (None) RequestPermission()     {}
func (None) Notify(Notification)    {}
