package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CosmoTheDev/artiscan/internal/scanner"
)

var errFound = errors.New("found")

// validate checks target without starting any process.
func (s *Session) validate(target scanner.Target) error {
	switch target.Kind {
	case scanner.TargetImage:
		if strings.TrimSpace(target.Image) == "" {
			return &TargetError{Path: target.Path, Reason: "image tag is empty"}
		}
		if target.SkipBuild {
			return nil
		}
		if err := requireDir(target.Path); err != nil {
			return err
		}
		manifest := filepath.Join(target.Path, s.opts.Manifest)
		info, err := os.Stat(manifest)
		if err != nil || info.IsDir() {
			return &TargetError{Path: target.Path, Reason: fmt.Sprintf("no %s found", s.opts.Manifest)}
		}
		return nil

	case scanner.TargetDirectory:
		if err := requireDir(target.Path); err != nil {
			return err
		}
		ok, err := containsMatch(target.Path, s.opts.IaCGlob)
		if err != nil {
			return &TargetError{Path: target.Path, Reason: err.Error()}
		}
		if !ok {
			return &TargetError{Path: target.Path, Reason: fmt.Sprintf("no files matching %s found", s.opts.IaCGlob)}
		}
		return nil

	default:
		return &TargetError{Path: target.Path, Reason: fmt.Sprintf("unknown target kind %q", target.Kind)}
	}
}

func requireDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return &TargetError{Reason: "path is empty"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &TargetError{Path: path, Reason: "directory does not exist"}
	}
	if !info.IsDir() {
		return &TargetError{Path: path, Reason: "not a directory"}
	}
	return nil
}

// containsMatch reports whether any file below root has a base name matching
// pattern. VCS metadata directories are not searched.
func containsMatch(root, pattern string) (bool, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return false, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			return errFound
		}
		return nil
	})
	if errors.Is(err, errFound) {
		return true, nil
	}
	return false, err
}
