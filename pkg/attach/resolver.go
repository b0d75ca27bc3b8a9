// Package attach is the single implementation of the attachment storage
// convention: messages_root/attachments/<type>/<direction>/<day>/<filename>.
// Both the transcript renderer and the bulk collector resolve paths through
// this package; a second implementation of the convention is the primary
// correctness risk and must never exist.
package attach

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNoDay means the owning message's attachment day could not be
	// derived from its source file name. Resolution fails closed; no day is
	// ever guessed.
	ErrNoDay = errors.New("attachment day unknown")
	// ErrUnsafeName means a path component would escape the resolved
	// directory. Such records are malformed, not traversal vectors.
	ErrUnsafeName = errors.New("unsafe path component")
)

// Root returns the attachments root beneath a messages directory.
func Root(messagesRoot string) string {
	return filepath.Join(messagesRoot, "attachments")
}

// Resolve computes the canonical on-disk location of an attachment:
// root/typ/direction/day/name. It is pure and deterministic; distinct
// (typ, direction, day, name) tuples always resolve to distinct paths.
// A filename (or any other segment) containing separators, "..", or an
// absolute path is rejected, and an empty day fails with ErrNoDay.
func Resolve(root, typ, direction, day, name string) (string, error) {
	if day == "" {
		return "", ErrNoDay
	}
	for _, seg := range []string{typ, direction, day, name} {
		if err := checkSegment(seg); err != nil {
			return "", err
		}
	}
	return filepath.Join(root, typ, direction, day, name), nil
}

func checkSegment(seg string) error {
	if seg == "" {
		return fmt.Errorf("%w: empty segment", ErrUnsafeName)
	}
	if strings.ContainsAny(seg, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrUnsafeName, seg)
	}
	if seg == "." || seg == ".." {
		return fmt.Errorf("%w: %q", ErrUnsafeName, seg)
	}
	if filepath.IsAbs(seg) {
		return fmt.Errorf("%w: %q is absolute", ErrUnsafeName, seg)
	}
	return nil
}
