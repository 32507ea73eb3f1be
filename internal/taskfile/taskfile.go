package taskfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// DefaultName is the task file name used when none is configured.
const DefaultName = "tasks.txt"

// Decode reads tasks from r, one per line. Lines have no length limit.
func Decode(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)

	tasks := make([]string, 0)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			tasks = append(tasks, strings.TrimRightFunc(line, unicode.IsSpace))
		}
		if err == io.EOF {
			return tasks, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read task file: %w", err)
		}
	}
}

// Encode writes tasks to w, each followed by a newline.
func Encode(w io.Writer, tasks []string) error {
	bw := bufio.NewWriter(w)
	for _, task := range tasks {
		if _, err := bw.WriteString(task); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read loads the task file at path. A missing file is reported with an
// error that satisfies errors.Is(err, os.ErrNotExist).
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Write replaces the task file at path with tasks. The new content is
// written to a temporary file and renamed into place. A symlinked path is
// followed and the existing file mode is kept; new files get 0644.
func Write(path string, tasks []string) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := Encode(tmp, tasks); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	committed = true
	return nil
}
