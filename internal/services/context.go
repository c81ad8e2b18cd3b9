package services

import "context"

type contextKey string

const (
	jobKey     contextKey = "job"
	batchIDKey contextKey = "batch_id"
)

// WithJob annotates context with the input path of the job being processed.
func WithJob(ctx context.Context, inputPath string) context.Context {
	if inputPath == "" {
		return ctx
	}
	return context.WithValue(ctx, jobKey, inputPath)
}

// JobFromContext returns the job input path if present.
func JobFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBatchID annotates context with the batch identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the batch identifier if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(batchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
