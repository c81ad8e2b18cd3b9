package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docbatch/internal/queue"
)

var (
	ErrExternalTool = errors.New("external tool error")
	ErrLaunch       = errors.New("process launch failed")
	ErrTimeout      = errors.New("timeout")
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancellation reports whether err stems from a cancelled or expired context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FailureStatus maps a job error to the terminal status the engine records.
// Cancellation is not a failure: the job is skipped.
func FailureStatus(err error) queue.Status {
	if err != nil && IsCancellation(err) {
		return queue.StatusSkipped
	}
	return queue.StatusFailed
}

// Hint returns a short operator-facing suggestion for err, or "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLaunch):
		return "check the tool path with 'docbatch detect'"
	case errors.Is(err, ErrTimeout):
		return "the tool did not answer in time; verify it runs from a shell"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
