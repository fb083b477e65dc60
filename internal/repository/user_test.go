package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrUserNotFound.Error() != "user not found" {
		t.Fatalf("unexpected error message: %s", ErrUserNotFound.Error())
	}
	if ErrDuplicateEmail.Error() != "email already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateEmail.Error())
	}
	if ErrDuplicateUsername.Error() != "username already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateUsername.Error())
	}
}

func TestDuplicateKeyErrorEmail(t *testing.T) {
	err := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'tester@example.com' for key 'users.users_email_key'",
	}

	if got := duplicateKeyError(err); !errors.Is(got, ErrDuplicateEmail) {
		t.Errorf("duplicateKeyError() = %v, want ErrDuplicateEmail", got)
	}
}

func TestDuplicateKeyErrorUsername(t *testing.T) {
	err := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'tester' for key 'users.users_username_key'",
	}

	if got := duplicateKeyError(err); !errors.Is(got, ErrDuplicateUsername) {
		t.Errorf("duplicateKeyError() = %v, want ErrDuplicateUsername", got)
	}
}

func TestDuplicateKeyErrorWrapped(t *testing.T) {
	inner := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'tester@example.com' for key 'users.users_email_key'",
	}
	wrapped := fmt.Errorf("exec insert: %w", inner)

	if got := duplicateKeyError(wrapped); !errors.Is(got, ErrDuplicateEmail) {
		t.Errorf("duplicateKeyError() = %v, want ErrDuplicateEmail", got)
	}
}

func TestDuplicateKeyErrorOtherErrors(t *testing.T) {
	if got := duplicateKeyError(nil); got != nil {
		t.Errorf("duplicateKeyError(nil) = %v, want nil", got)
	}
	if got := duplicateKeyError(ErrUserNotFound); got != nil {
		t.Errorf("duplicateKeyError(plain error) = %v, want nil", got)
	}
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	if got := duplicateKeyError(deadlock); got != nil {
		t.Errorf("duplicateKeyError(deadlock) = %v, want nil", got)
	}
}
