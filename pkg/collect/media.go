package collect

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"synparse/pkg/logger"
)

// MediaHeaders are the fixed workbook columns for media collection.
var MediaHeaders = []string{"File Name", "Date", "Device", "MD5"}

// mediaExts are the file types picked up out of the device directories.
var mediaExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tiff": true, ".webp": true, ".mp4": true, ".mov": true,
}

// Media collects media files from a backup laid out as
// root/YYYY-MM-DD/<device name>/... into compiledDir, recording the day
// directory and device name alongside MD5 and EXIF for each file.
func Media(root, compiledDir string) ([]map[string]string, []string, error) {
	if err := os.MkdirAll(compiledDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create compiled dir: %w", err)
	}

	dateDirs, err := filepath.Glob(filepath.Join(root, "20??-??-??"))
	if err != nil {
		return nil, nil, err
	}

	var records []map[string]string
	exifKeys := map[string]bool{}
	var totalBytes int64

	for _, dateDir := range dateDirs {
		fi, err := os.Stat(dateDir)
		if err != nil || !fi.IsDir() {
			continue
		}
		dateStr := filepath.Base(dateDir)

		deviceDirs, err := os.ReadDir(dateDir)
		if err != nil {
			return nil, nil, err
		}
		for _, dev := range deviceDirs {
			if !dev.IsDir() {
				continue
			}
			deviceName := dev.Name()
			err := filepath.WalkDir(filepath.Join(dateDir, deviceName), func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !mediaExts[strings.ToLower(filepath.Ext(p))] {
					return nil
				}

				dest := UniqueName(compiledDir, d.Name())
				n, err := CopyFile(p, dest)
				if err != nil {
					return fmt.Errorf("copy %s: %w", p, err)
				}
				totalBytes += n

				md5sum, err := MD5Sum(p)
				if err != nil {
					return err
				}
				record := map[string]string{
					"File Name": filepath.Base(dest),
					"Date":      dateStr,
					"Device":    deviceName,
					"MD5":       md5sum,
				}
				mergeEXIF(record, exifKeys, p)
				records = append(records, record)
				return nil
			})
			if err != nil {
				return nil, nil, err
			}
		}
	}

	logger.Info("media_collected",
		zap.String("from", root),
		zap.String("to", compiledDir),
		zap.Int("files", len(records)),
		zap.String("bytes", humanize.Bytes(uint64(totalBytes))),
	)
	return records, sortedKeys(exifKeys), nil
}
