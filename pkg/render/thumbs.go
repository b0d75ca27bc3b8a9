package render

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"synparse/pkg/logger"
)

// ThumbDirName is the subtree under the output directory that mirrors the
// attachments' type/direction/day layout. Mirroring is what keeps two
// attachments with identical filenames in different contexts from ever
// sharing a thumbnail.
const ThumbDirName = "thumbnails"

// DefaultThumbSize is the bounding box, in pixels, thumbnails are fit into.
const DefaultThumbSize = 150

// ThumbName maps a source filename to its thumbnail name. Thumbnails are
// always written as PNG; the source extension stays in the name so that
// sources differing only by extension (photo.jpg, photo.png) keep distinct
// thumbnails. Names already ending in .png are their own thumbnail name.
func ThumbName(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".png") {
		return name
	}
	return name + ".png"
}

type thumbJob struct {
	src  string // physical attachment
	dest string // absolute thumbnail destination
}

// generateThumbs renders thumbnails concurrently. Destinations are unique
// by construction (the mirrored tree), so workers never contend on a file;
// the only shared resource is the result set. Sources that are not
// decodable images simply produce no thumbnail.
func generateThumbs(jobs []thumbJob, size, workers int) map[string]bool {
	if size <= 0 {
		size = DefaultThumbSize
	}
	if workers <= 0 {
		workers = 1
	}

	done := map[string]bool{}
	var mu sync.Mutex
	ch := make(chan thumbJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				if err := makeThumb(job.src, job.dest, size); err != nil {
					logger.Debug("thumbnail_skipped", zap.String("src", job.src), zap.Error(err))
					continue
				}
				mu.Lock()
				done[job.dest] = true
				mu.Unlock()
			}
		}()
	}
	for _, job := range jobs {
		ch <- job
	}
	close(ch)
	wg.Wait()
	return done
}

func makeThumb(src, dest string, size int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return err
	}
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)
	// Creating an already-existing directory is fine; concurrent MkdirAll
	// calls on shared parents are idempotent.
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return imaging.Save(thumb, dest)
}
