package helpers

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	reLetter   = regexp.MustCompile(`[A-Za-z]`)
	reDigit    = regexp.MustCompile(`[0-9]`)
	reEmail    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	reUserName = regexp.MustCompile(`^[A-Za-z0-9_.]{3,50}$`)
)

func isAlphaNumeric(s string) bool {
	return reLetter.MatchString(s) && reDigit.MatchString(s)
}

func isValidEmail(email string) bool {
	return reEmail.MatchString(email)
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return errors.New("password must be at most 72 characters")
	}
	if !isAlphaNumeric(password) {
		return errors.New("password must contain letters and numbers")
	}
	return nil
}

func ValidateRegisterInput(userName, email, password string) error {
	if !reUserName.MatchString(strings.TrimSpace(userName)) {
		return errors.New("user_name must be 3-50 characters of letters, numbers, '_' or '.'")
	}
	if !isValidEmail(strings.TrimSpace(email)) {
		return errors.New("invalid email format")
	}
	return ValidatePassword(password)
}

func ValidateLoginInput(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" {
		return errors.New("identifier is required")
	}
	if password == "" {
		return errors.New("password is required")
	}
	return nil
}

func ValidateChangePassword(current, next string) error {
	if current == "" {
		return errors.New("current_password is required")
	}
	if current == next {
		return errors.New("new password must differ from the current one")
	}
	return ValidatePassword(next)
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
