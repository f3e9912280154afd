// Package vcs versions the bank's data file in a git repository.
package vcs

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when the file matches HEAD.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who commits data file changes.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// EnsureRepo initializes dir as a repository unless it already is one.
func EnsureRepo(dir string) error {
	if IsRepo(dir) {
		return nil
	}
	return Init(dir)
}

// CommitFile stages one file under dir and commits it. Returns the short
// commit hash, or ErrNothingToCommit when the file is unchanged.
func CommitFile(dir, file, message string, author Author) (string, error) {
	add := exec.Command("git", "add", "--", file)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// diff --quiet exits 1 when something is staged.
	diff := exec.Command("git", "diff", "--cached", "--quiet", "--", file)
	diff.Dir = dir
	if err := diff.Run(); err == nil {
		return "", ErrNothingToCommit
	}

	commit := exec.Command("git", "commit", "--quiet", "-m", message, "--author", author.String())
	commit.Dir = dir
	commit.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+author.Name,
		"GIT_COMMITTER_EMAIL="+author.Email,
	)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
