// Package validators holds the input checks run before any persistence call.
// Each function reports every violated field, not just the first one.
package validators

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskhub/engine/internal/models"
	appErr "github.com/taskhub/engine/pkg/errors"
)

const (
	NameMaxLength     = 50
	PasswordMinLength = 6
	// bcrypt only reads the first 72 bytes and rejects longer input.
	PasswordMaxBytes = 72
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

var validate = New()

// New returns a validator with the project's custom rules registered:
// "useremail" (account email pattern) and "calendardate" (YYYY-MM-DD or RFC 3339).
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("useremail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

type checker struct {
	fields []appErr.FieldError
	failed map[string]string
}

func newChecker() *checker {
	return &checker{failed: map[string]string{}}
}

// check runs tag against value and records the first failing rule for field.
func (c *checker) check(field string, value any, tag string) bool {
	if _, done := c.failed[field]; done {
		return false
	}
	if err := validate.Var(value, tag); err != nil {
		c.fail(field, tagOf(err))
		return false
	}
	return true
}

func (c *checker) fail(field, tag string) {
	if _, done := c.failed[field]; done {
		return
	}
	c.failed[field] = tag
	c.fields = append(c.fields, appErr.FieldError{Field: field, Reason: reason(tag)})
}

func (c *checker) has(tag string) bool {
	for _, t := range c.failed {
		if t == tag {
			return true
		}
	}
	return false
}

func (c *checker) tagFor(field string) string { return c.failed[field] }

func (c *checker) ok() bool { return len(c.fields) == 0 }

func tagOf(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return "invalid"
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "max":
		return "is too long"
	case "min":
		return "is too short"
	case "useremail":
		return "must be a valid email address"
	case "eqfield":
		return "does not match"
	case "oneof":
		return "must be one of low, medium, high"
	case "calendardate":
		return "must be a date formatted YYYY-MM-DD"
	default:
		return "is invalid"
	}
}

// Signup validates a registration request.
func Signup(name, email, password, confirmPassword string) error {
	c := newChecker()
	if c.check("name", strings.TrimSpace(name), "required") {
		c.check("name", strings.TrimSpace(name), "max=50")
	}
	if c.check("email", strings.TrimSpace(email), "required") {
		c.check("email", strings.ToLower(strings.TrimSpace(email)), "useremail")
	}
	if c.check("password", password, "required") {
		if c.check("password", password, "min=6") && len(password) > PasswordMaxBytes {
			c.fail("password", "max")
		}
	}
	if c.check("confirmPassword", confirmPassword, "required") && password != "" {
		if err := validate.VarWithValue(confirmPassword, password, "eqfield"); err != nil {
			c.fail("confirmPassword", "eqfield")
		}
	}
	if c.ok() {
		return nil
	}

	var msg string
	switch {
	case c.has("required"):
		msg = "Please provide all required fields: name, email, password, confirmPassword"
	case c.tagFor("confirmPassword") == "eqfield":
		msg = "Passwords do not match"
	case c.tagFor("password") == "min":
		msg = "Password must be at least 6 characters"
	case c.tagFor("password") == "max":
		msg = "Password cannot be more than 72 bytes"
	case c.tagFor("name") == "max":
		msg = "Name cannot be more than 50 characters"
	default:
		msg = "Please provide a valid email"
	}
	return appErr.Validation(msg, c.fields)
}

// Login validates a login request. The email format is not checked here so that a
// malformed address is answered like any other unknown account.
func Login(email, password string) error {
	c := newChecker()
	c.check("email", strings.TrimSpace(email), "required")
	c.check("password", password, "required")
	if c.ok() {
		return nil
	}
	return appErr.Validation("Please provide email and password", c.fields)
}

// TaskCreate validates the fields of a new task. An empty priority is allowed and
// defaults to medium.
func TaskCreate(title, priority, dueDate string) error {
	c := newChecker()
	c.check("title", strings.TrimSpace(title), "required")
	if priority != "" {
		c.check("priority", priority, priorityRule)
	}
	if c.check("dueDate", dueDate, "required") {
		c.check("dueDate", dueDate, "calendardate")
	}
	if c.ok() {
		return nil
	}
	return appErr.Validation("Error Creating Task: "+summary(c.fields), c.fields)
}

// TaskUpdate validates a partial update. Nil pointers are fields left untouched.
func TaskUpdate(title, description, priority, dueDate *string, completed *bool) error {
	if title == nil && description == nil && priority == nil && dueDate == nil && completed == nil {
		return appErr.Validation("Please provide at least one field to update", nil)
	}
	c := newChecker()
	if title != nil {
		c.check("title", strings.TrimSpace(*title), "required")
	}
	if priority != nil {
		c.check("priority", *priority, priorityRule)
	}
	if dueDate != nil {
		c.check("dueDate", *dueDate, "calendardate")
	}
	if c.ok() {
		return nil
	}
	return appErr.Validation("Error Updating Task: "+summary(c.fields), c.fields)
}

var priorityRule = "oneof=" + strings.Join([]string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}, " ")

func summary(fields []appErr.FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return strings.Join(parts, "; ")
}
