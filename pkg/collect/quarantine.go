package collect

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"synparse/pkg/logger"
)

// quarantineMarker identifies quarantined archives in the backup; the
// carrier renames zips to *.zip_file_<n>.
const quarantineMarker = ".zip_file_"

// Quarantine extracts every quarantined archive found under root and
// copies the recovered files into compiledDir, fixing extensions from
// content signatures (quarantined files usually lost theirs). It returns
// the copied destinations and a list of per-archive errors; a corrupt
// archive is reported, not fatal.
func Quarantine(root, compiledDir string) ([]string, []string, error) {
	if err := os.MkdirAll(compiledDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create compiled dir: %w", err)
	}

	var archives []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.Contains(d.Name(), quarantineMarker) {
			archives = append(archives, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var copied []string
	var problems []string
	for _, archive := range archives {
		outputs, err := extractArchive(archive, compiledDir)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", archive, err))
			continue
		}
		copied = append(copied, outputs...)
	}

	logger.Info("quarantine_collected",
		zap.String("from", root),
		zap.String("to", compiledDir),
		zap.Int("archives", len(archives)),
		zap.Int("files", len(copied)),
		zap.Int("errors", len(problems)),
	)
	return copied, problems, nil
}

func extractArchive(archive, compiledDir string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	tmp, err := os.MkdirTemp("", "quarantine-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	var outputs []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		// Entry names come from a hostile-ish archive; keep the base name only.
		name := filepath.Base(filepath.FromSlash(entry.Name))
		staged := filepath.Join(tmp, name)
		if err := stageEntry(entry, staged); err != nil {
			return nil, fmt.Errorf("extract %s: %w", entry.Name, err)
		}
		fixed, err := fixExtension(staged)
		if err != nil {
			return nil, err
		}
		dest := UniqueName(compiledDir, filepath.Base(fixed))
		if _, err := CopyFile(fixed, dest); err != nil {
			return nil, err
		}
		outputs = append(outputs, dest)
	}
	return outputs, nil
}

func stageEntry(entry *zip.File, dest string) error {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// fixExtension renames a recovered file to carry the extension its content
// signature indicates, when it differs from what the name claims. Unknown
// content keeps its name untouched.
func fixExtension(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return path, nil
	}
	ext := mtype.Extension()
	if ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
		return path, nil
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fixed := UniqueName(filepath.Dir(path), stem+ext)
	if err := os.Rename(path, fixed); err != nil {
		return "", err
	}
	return fixed, nil
}
