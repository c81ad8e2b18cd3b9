package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const maxLineBytes = 1024 * 1024

// DefaultPollInterval is how often Follow checks the file for new lines.
const DefaultPollInterval = 250 * time.Millisecond

// Chunk is a batch of complete lines and the offset just past the last one.
type Chunk struct {
	Lines  []string
	Offset int64
}

// Last returns up to n trailing lines of path. A missing file yields an
// empty chunk at offset zero.
func Last(path string, n int) (Chunk, error) {
	chunk, err := From(path, 0)
	if err != nil {
		return Chunk{}, err
	}
	if n <= 0 {
		chunk.Lines = nil
	} else if len(chunk.Lines) > n {
		chunk.Lines = chunk.Lines[len(chunk.Lines)-n:]
	}
	return chunk, nil
}

// From returns the complete lines written after offset.
func From(path string, offset int64) (Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Chunk{}, nil
		}
		return Chunk{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Chunk{}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return Chunk{}, fmt.Errorf("log path %q is a directory", path)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, fmt.Errorf("seek log file: %w", err)
	}

	chunk := Chunk{Offset: offset}
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			chunk.Offset += int64(len(line))
			chunk.Lines = append(chunk.Lines, trimNewline(line))
			continue
		}
		if errors.Is(err, io.EOF) {
			// Unterminated tails past maxLineBytes are flushed as a line.
			if len(line) > maxLineBytes {
				chunk.Offset += int64(len(line))
				chunk.Lines = append(chunk.Lines, line)
			}
			return chunk, nil
		}
		return Chunk{}, fmt.Errorf("read log file: %w", err)
	}
}

// Follow calls emit for every line appended after offset until ctx ends.
// It returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		chunk, err := From(path, offset)
		if err != nil {
			return err
		}
		for _, line := range chunk.Lines {
			emit(line)
		}
		offset = chunk.Offset

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func trimNewline(line string) string {
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
