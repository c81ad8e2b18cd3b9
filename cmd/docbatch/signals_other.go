//go:build !unix

package main

import (
	"context"
	"log/slog"

	"docbatch/internal/workflow"
)

func watchPauseToggle(context.Context, *workflow.Engine, *slog.Logger) {}
