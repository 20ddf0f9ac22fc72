package errors

import (
	"errors"
	"strings"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing args).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, quota).
	CategorySystem
	// CategoryDegraded indicates a condition the app survives with reduced
	// functionality (sync disabled, backup history not persisting).
	CategoryDegraded
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if IsUserError(err) || errors.Is(err, ErrImportFormat) {
		return CategoryUser
	}

	if errors.Is(err, ErrSyncUnavailable) ||
		errors.Is(err, ErrStorageQuota) ||
		errors.Is(err, ErrComputation) {
		return CategoryDegraded
	}

	if IsSystemError(err) || isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

// IsQuotaExceeded reports whether an error indicates the durable store has
// run out of space. ENOSPC from the filesystem and badger's value-log
// rejections both count.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrStorageQuota) || errors.Is(err, ErrDiskFull) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ENOSPC {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no space left") ||
		strings.Contains(msg, "quota exceeded")
}

// IsCorruption reports whether the error indicates on-disk corruption of
// the database.
func IsCorruption(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDatabaseCorrupted) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"checksum mismatch",
		"corrupt",
		"unexpected eof",
		"bad magic",
		"truncated",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM,
			syscall.ENOENT, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied)
}
