package service

import (
	"regexp"
	"strings"

	"github.com/tilehub/tilehub-go/internal/model"
)

// emailPattern is the standard address shape accepted at registration.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 6
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full list of input problems for a request.
// Validation runs before any domain logic and touches no external state.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

// orNil returns the list as an error, or nil when it is empty.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func validateUsername(errs ValidationErrors, username string) ValidationErrors {
	trimmed := strings.TrimSpace(username)
	if len(trimmed) < minUsernameLength || len(trimmed) > maxUsernameLength {
		return append(errs, FieldError{Field: "username", Message: "must be between 3 and 30 characters"})
	}
	return errs
}

func validateEmail(errs ValidationErrors, email string) ValidationErrors {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}
	return errs
}

func validatePassword(errs ValidationErrors, field, password string) ValidationErrors {
	if len(password) < minPasswordLength {
		return append(errs, FieldError{Field: field, Message: "must be at least 6 characters"})
	}
	return errs
}

func validateRegister(req model.RegisterRequest) error {
	var errs ValidationErrors
	errs = validateUsername(errs, req.Username)
	errs = validateEmail(errs, req.Email)
	errs = validatePassword(errs, "password", req.Password)
	return errs.orNil()
}

func validateLogin(req model.LoginRequest) error {
	var errs ValidationErrors
	errs = validateEmail(errs, req.Email)
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "is required"})
	}
	return errs.orNil()
}

func validateUpdateProfile(req model.UpdateProfileRequest) error {
	var errs ValidationErrors
	if req.Username == "" && req.Email == "" {
		return append(errs, FieldError{Field: "request", Message: "at least one of username or email is required"})
	}
	if req.Username != "" {
		errs = validateUsername(errs, req.Username)
	}
	if req.Email != "" {
		errs = validateEmail(errs, req.Email)
	}
	return errs.orNil()
}

func validateChangePassword(req model.ChangePasswordRequest) error {
	var errs ValidationErrors
	if req.OldPassword == "" {
		errs = append(errs, FieldError{Field: "oldPassword", Message: "is required"})
	}
	errs = validatePassword(errs, "newPassword", req.NewPassword)
	return errs.orNil()
}
