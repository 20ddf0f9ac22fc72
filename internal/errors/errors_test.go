package errors

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserErrorWithField("date", "2026-13-40", "Invalid date", "Use YYYY-MM-DD")
	assert.Contains(t, err.Error(), "2026-13-40")
	assert.True(t, IsUserError(err))

	ue, ok := AsUserError(fmt.Errorf("wrapped: %w", error(err)))
	assert.True(t, ok)
	assert.Equal(t, "Use YYYY-MM-DD", ue.Suggestion)
}

func TestSystemError(t *testing.T) {
	err := NewSystemErrorWithOp("persist", "backup history not persisted", ErrStorageQuota)
	assert.True(t, IsSystemError(err))
	assert.True(t, Is(err, ErrStorageQuota))
	assert.Contains(t, err.Error(), "persist")
}

func TestComputationError(t *testing.T) {
	cause := New("index out of range")
	err := NewComputationError("insights", cause)
	assert.True(t, Is(err, ErrComputation))
	assert.Contains(t, err.Error(), "insights")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"user_error", NewUserError("bad input", "fix it"), CategoryUser},
		{"import_format", Wrap(ErrImportFormat, "decode"), CategoryUser},
		{"quota", Wrap(ErrStorageQuota, "persist"), CategoryDegraded},
		{"sync", ErrSyncUnavailable, CategoryDegraded},
		{"computation", NewComputationError("score", New("boom")), CategoryDegraded},
		{"system", NewSystemError("db open failed", New("io error")), CategorySystem},
		{"unknown", New("anything"), CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsQuotaExceeded(t *testing.T) {
	assert.True(t, IsQuotaExceeded(ErrStorageQuota))
	assert.True(t, IsQuotaExceeded(ErrDiskFull))
	assert.True(t, IsQuotaExceeded(syscall.ENOSPC))
	assert.True(t, IsQuotaExceeded(New("write /data: no space left on device")))
	assert.False(t, IsQuotaExceeded(New("permission denied")))
	assert.False(t, IsQuotaExceeded(nil))
}

func TestIsCorruption(t *testing.T) {
	assert.True(t, IsCorruption(ErrDatabaseCorrupted))
	assert.True(t, IsCorruption(New("checksum mismatch at offset 42")))
	assert.False(t, IsCorruption(New("file not found")))
	assert.False(t, IsCorruption(nil))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}
