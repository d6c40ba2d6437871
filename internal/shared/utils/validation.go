package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// String length limits
const (
	MaxUsernameLength = 64
	MinUsernameLength = 3
	MaxIDLength       = 128
	MaxLabelLength    = 256
	MaxMessageLength  = 2048
	MaxBucketLength   = 64
	MaxObjectPath     = 512
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// UsernamePattern allows alphanumeric and underscores
	UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	// BucketPattern matches storage bucket names
	BucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	// EmailPattern is a basic email validation
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateID validates an entity identifier.
func ValidateID(id string, fieldName string, required bool) error {
	if id == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%s exceeds maximum length of %d", fieldName, MaxIDLength)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateUsername validates a profile username.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return fmt.Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username exceeds maximum length of %d", MaxUsernameLength)
	}
	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username contains invalid characters")
	}
	return nil
}

// ValidateEmail validates an email address when present.
func ValidateEmail(email string, required bool) error {
	if email == "" {
		if required {
			return fmt.Errorf("email is required")
		}
		return nil
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateBucket validates a storage bucket name.
func ValidateBucket(bucket string) error {
	if bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if len(bucket) > MaxBucketLength {
		return fmt.Errorf("bucket exceeds maximum length of %d", MaxBucketLength)
	}
	if !BucketPattern.MatchString(bucket) {
		return fmt.Errorf("bucket contains invalid characters")
	}
	return nil
}

// ValidateObjectPath validates a storage object path. Paths are always
// relative to a bucket and may not traverse upward.
func ValidateObjectPath(path string) error {
	if path == "" {
		return fmt.Errorf("file path is required")
	}
	if len(path) > MaxObjectPath {
		return fmt.Errorf("file path exceeds maximum length of %d", MaxObjectPath)
	}
	if strings.HasPrefix(path, "/") || strings.Contains(path, "..") {
		return fmt.Errorf("file path must be relative and may not contain '..'")
	}
	return nil
}

// ValidateLabel validates a short display string (titles, song labels).
func ValidateLabel(s string, fieldName string, required bool) error {
	if s == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
	if len(s) > MaxLabelLength {
		return fmt.Errorf("%s exceeds maximum length of %d", fieldName, MaxLabelLength)
	}
	return nil
}
