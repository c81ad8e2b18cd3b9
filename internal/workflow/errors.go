package workflow

import "errors"

var (
	// ErrBatchRunning is returned by StartBatch while another batch is active.
	ErrBatchRunning = errors.New("a batch is already running")
	// ErrToolNotReady is returned by StartBatch when the tool cannot be used.
	ErrToolNotReady = errors.New("conversion tool not ready")
)

const (
	messageDone      = "done"
	messageCancelled = "cancelled"
	messageFailed    = "conversion failed"
)
