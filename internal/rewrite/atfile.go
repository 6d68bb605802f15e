// Package rewrite reads the access transformer file and commits the
// resolved result back to it in a single atomic replace.
package rewrite

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/atomicwriter"
)

// File permission used when the original mode cannot be determined.
const filePerm = 0o644

// ConfigMissingError reports an absent access transformer file.
type ConfigMissingError struct {
	Path string
}

func (e *ConfigMissingError) Error() string {
	return e.Path + " must be in current run directory"
}

// File is an access transformer file read into memory.
type File struct {
	// Path is the path as given.
	Path string
	// Target is Path with symlinks resolved; commits replace Target so a
	// linked file stays linked.
	Target string
	Lines  []string
	Mode   fs.FileMode
}

// Load reads the file at path. A missing file is a *ConfigMissingError.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigMissingError{Path: path}
	}

	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &File{Path: path, Target: target, Lines: lines, Mode: info.Mode().Perm()}, nil
}

// Render joins lines into file content, one line per row with a trailing newline.
func Render(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}

	return []byte(strings.Join(lines, "\n") + "\n")
}

// WriteAtomic replaces path with lines. The content goes to a temporary
// file in the same directory which is synced and renamed over path, so a
// failed write leaves the original untouched. path must not be a symlink.
func WriteAtomic(path string, lines []string, mode fs.FileMode) error {
	if mode == 0 {
		mode = filePerm
	}

	if err := atomicwriter.WriteFile(path, Render(lines), mode); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}

// Commit writes lines back to the file's path, keeping its mode.
func (f *File) Commit(lines []string) error {
	target := f.Target
	if target == "" {
		target = f.Path
	}

	return WriteAtomic(target, lines, f.Mode)
}
