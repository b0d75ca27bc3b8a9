package collect

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

type exifCollector struct {
	tags map[string]string
}

func (c *exifCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	v := strings.Trim(tag.String(), `"`)
	c.tags[string(name)] = v
	return nil
}

// ExtractEXIF returns the EXIF tags of an image as a name → value map.
// Files without EXIF (or that are not images at all) yield an empty map;
// metadata extraction is best-effort and never fails a collection run.
func ExtractEXIF(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return map[string]string{}
	}
	c := &exifCollector{tags: map[string]string{}}
	if err := x.Walk(c); err != nil {
		return map[string]string{}
	}
	return c.tags
}

// mergeEXIF folds a file's EXIF tags into a record and accumulates the set
// of keys seen across the whole run, so workbook columns cover every tag.
func mergeEXIF(record map[string]string, keys map[string]bool, path string) {
	for k, v := range ExtractEXIF(path) {
		record[k] = v
		keys[k] = true
	}
}
