package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dori/grove/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes a command; exec.Command(...).Run by default
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     Runner
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
		run:     execRunner,
	}
}

// WithRunner replaces the command runner, mainly for tests
func (n *Notifier) WithRunner(r Runner) *Notifier {
	n.run = r
	return n
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send argument list
func (nt Notification) Args() []string {
	args := []string{}

	switch nt.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if nt.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(nt.Timeout.Milliseconds())))
	}

	if nt.Icon != "" {
		args = append(args, "-i", nt.Icon)
	}

	args = append(args, "-a", "grove", nt.Title)
	if nt.Body != "" {
		args = append(args, nt.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(nt Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", nt.Args()...)
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendRecurrenceGenerated announces occurrences created by the startup sweep
func (n *Notifier) SendRecurrenceGenerated(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	title := "New recurring task"
	if len(tasks) > 1 {
		title = fmt.Sprintf("%d new recurring tasks", len(tasks))
	}
	return n.Send(Notification{
		Title:   title,
		Body:    summarize(tasks, 3),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "view-refresh-symbolic",
	})
}

// SendOverdueSummary warns about incomplete tasks past their due date
func (n *Notifier) SendOverdueSummary(overdue []model.Task) error {
	if len(overdue) == 0 {
		return nil
	}

	title := "1 task is overdue"
	if len(overdue) > 1 {
		title = fmt.Sprintf("%d tasks are overdue", len(overdue))
	}
	return n.Send(Notification{
		Title:   title,
		Body:    summarize(overdue, 3),
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}

func summarize(tasks []model.Task, max int) string {
	lines := make([]string, 0, max+1)
	for i, t := range tasks {
		if i == max {
			lines = append(lines, fmt.Sprintf("and %d more", len(tasks)-max))
			break
		}
		lines = append(lines, t.Title)
	}
	return strings.Join(lines, "\n")
}
