package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// followInterval is how often TailLog polls for new data when following.
const followInterval = 100 * time.Millisecond

// TailLog copies a log file to w. If n > 0 only the last n lines are
// written. With follow set it keeps copying appended data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := writeLastLines(w, file, n); err != nil {
			return fmt.Errorf("read log tail: %w", err)
		}
	} else if _, err := io.Copy(w, file); err != nil {
		return err
	}

	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file)
}

// writeLastLines writes the last n lines of r to w, leaving r at EOF.
func writeLastLines(w io.Writer, r io.Reader, n int) error {
	ring := make([]string, n)
	count := 0

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			ring[count%n] = line
			count++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	start := 0
	if count > n {
		start = count - n
	}
	for i := start; i < count; i++ {
		if _, err := io.WriteString(w, ring[i%n]); err != nil {
			return err
		}
	}
	return nil
}

// tailFollow copies data appended to file until ctx is cancelled.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
