package todo

import (
	"errors"
	"strings"
	"time"

	"github.com/dori/grove/internal/model"
	"github.com/go-playground/validator/v10"
)

const (
	msgTitleRequired = "Title is required"
	msgTitleLength   = "Title must be 100 characters or fewer"
	msgDescLength    = "Description must be 500 characters or fewer"
	msgPriority      = "Priority must be one of high, medium or low"
	msgDueDate       = "Due date is not a valid date"
)

// dateLayouts are tried in order by ParseDate
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
}

// TaskForm is raw, user-entered task data
type TaskForm struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Priority    string `validate:"omitempty,oneof=high medium low"`
	DueDate     string `validate:"omitempty,duedate"`
	Tags        []string
	GroupID     string
	Recurrence  *model.Recurrence
}

// ValidationResult lists every rule the form broke
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidationError is returned by engine operations given invalid data
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate checks the form. Violations accumulate.
func Validate(form TaskForm) ValidationResult {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.DueDate = strings.TrimSpace(form.DueDate)

	return resultOf(validate.Struct(form))
}

func resultOf(err error) ValidationResult {
	if err == nil {
		return ValidationResult{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationResult{Errors: []string{err.Error()}}
	}

	res := ValidationResult{}
	for _, fe := range fieldErrs {
		res.Errors = append(res.Errors, formatFieldError(fe))
	}
	return res
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "required" {
			return msgTitleRequired
		}
		return msgTitleLength
	case "Description":
		return msgDescLength
	case "Priority":
		return msgPriority
	case "DueDate":
		return msgDueDate
	default:
		return fe.Field() + " is invalid"
	}
}

// Input converts a validated form into create input
func (f TaskForm) Input() (TaskInput, error) {
	if res := Validate(f); !res.Valid {
		return TaskInput{}, &ValidationError{Errors: res.Errors}
	}

	in := TaskInput{
		Title:       f.Title,
		Description: f.Description,
		Tags:        f.Tags,
		Priority:    model.Priority(f.Priority),
		GroupID:     f.GroupID,
		Recurrence:  f.Recurrence,
	}
	if s := strings.TrimSpace(f.DueDate); s != "" {
		due, _ := ParseDate(s)
		in.DueDate = &due
	}
	return in, nil
}

// checkTask applies the form rules to an already typed task
func checkTask(title, description string, priority model.Priority) []string {
	res := Validate(TaskForm{Title: title, Description: description, Priority: string(priority)})
	return res.Errors
}

// checkPatch applies the form rules to the fields patch sets, reading their
// merged values from next
func checkPatch(patch TaskPatch, next model.Task) []string {
	var fields []string
	if patch.Title != nil {
		fields = append(fields, "Title")
	}
	if patch.Description != nil {
		fields = append(fields, "Description")
	}
	if patch.Priority != nil {
		fields = append(fields, "Priority")
	}
	if len(fields) == 0 {
		return nil
	}
	form := TaskForm{Title: next.Title, Description: next.Description, Priority: string(next.Priority)}
	return resultOf(validate.StructPartial(form, fields...)).Errors
}

// ParseDate parses an RFC3339 timestamp, a local date-time or a local date.
// A bare date means local midnight.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
