// Package quickadd parses one-line task entries such as
// "pay rent @home !high due:friday every:month".
package quickadd

import (
	"strconv"
	"strings"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/dori/grove/internal/todo"
)

// Parse splits text into a title and the attributes given by markers.
// Unrecognised markers stay part of the title.
func Parse(text string, now time.Time) todo.TaskInput {
	var in todo.TaskInput
	var titleParts []string

	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		// Tags (@home, @work)
		case strings.HasPrefix(word, "@") && len(word) > 1:
			in.Tags = append(in.Tags, word[1:])

		// Priority (!low, !h)
		case strings.HasPrefix(word, "!"):
			if p, ok := ParsePriority(lower[1:]); ok {
				in.Priority = p
			} else {
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:fri, due:2024-01-15)
		case strings.HasPrefix(lower, "due:"):
			if d, ok := ParseDate(lower[len("due:"):], now); ok {
				in.DueDate = &d
			} else {
				titleParts = append(titleParts, word)
			}

		// Recurrence (every:day, every:3d, every:mon,thu)
		case strings.HasPrefix(lower, "every:"):
			if r, ok := ParseRecurrence(lower[len("every:"):]); ok {
				in.Recurrence = r
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	in.Title = strings.Join(titleParts, " ")
	// a recurring task needs an anchor date
	if in.Recurrence != nil && in.DueDate == nil {
		d := model.StartOfDay(now)
		in.DueDate = &d
	}
	return in
}

// ParsePriority accepts full names and one-letter abbreviations
func ParsePriority(s string) (model.Priority, bool) {
	switch strings.ToLower(s) {
	case "low", "l":
		return model.PriorityLow, true
	case "medium", "med", "m":
		return model.PriorityMedium, true
	case "high", "hi", "h":
		return model.PriorityHigh, true
	}
	return "", false
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseDate resolves natural words relative to now and falls back to the
// absolute layouts accepted by todo.ParseDate. Results are local midnight.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	today := model.StartOfDay(now)
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "today":
		return today, true
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), true
	case "nextweek", "next-week":
		return today.AddDate(0, 0, 7), true
	}
	if wd, ok := weekdays[s]; ok {
		return nextWeekday(today, wd), true
	}
	// +3d, +2w
	if strings.HasPrefix(s, "+") && len(s) > 2 {
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err == nil && n >= 0 {
			switch s[len(s)-1] {
			case 'd':
				return today.AddDate(0, 0, n), true
			case 'w':
				return today.AddDate(0, 0, 7*n), true
			}
		}
	}

	t, err := todo.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// nextWeekday returns the next occurrence of day strictly after today
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// ParseRecurrence reads the value of an every: marker
func ParseRecurrence(s string) (*model.Recurrence, bool) {
	r := &model.Recurrence{
		Enabled:            true,
		CompletionBehavior: model.CreateNext,
	}

	switch s {
	case "day", "daily":
		r.Type = model.RecurDaily
		return r, true
	case "week", "weekly":
		r.Type = model.RecurWeekly
		return r, true
	case "month", "monthly":
		r.Type = model.RecurMonthly
		return r, true
	case "weekday", "weekdays":
		r.Type = model.RecurWeekdays
		r.Weekdays = []int{1, 2, 3, 4, 5}
		return r, true
	}

	if strings.HasSuffix(s, "d") {
		if n, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil && n > 0 {
			r.Type = model.RecurCustom
			r.Interval = n
			return r, true
		}
	}

	// mon,wed,fri
	var days []int
	for _, name := range strings.Split(s, ",") {
		wd, ok := weekdays[name]
		if !ok {
			return nil, false
		}
		days = append(days, int(wd))
	}
	r.Type = model.RecurWeekdays
	r.Weekdays = days
	return r, true
}
