// Package lookup resolves release years for album folders that carry none.
package lookup

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
)

// audioExtensions are the file types the tag parser understands.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
}

// FileTags reads release years from the audio files inside the album folder
// itself, so no network round trip is needed when the rip already carries
// its metadata. The first file with a year tag wins.
type FileTags struct{}

// NewFileTags returns a Source backed by embedded audio tags.
func NewFileTags() *FileTags {
	return &FileTags{}
}

func (f *FileTags) Name() string {
	return "file tags"
}

// Find probes the audio files in q.Dir in name order and returns the first
// embedded year. Files the tag parser cannot read are skipped.
func (f *FileTags) Find(ctx context.Context, q Query) Result {
	entries, err := os.ReadDir(q.Dir)
	if err != nil {
		return Failed(err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Failed(err)
		}
		if entry.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if year, ok := readYear(filepath.Join(q.Dir, entry.Name())); ok {
			return Found(strconv.Itoa(year))
		}
	}
	return NotFound()
}

func readYear(path string) (int, bool) {
	file, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil {
		logrus.WithField("file", path).WithError(err).Debug("unreadable audio tags")
		return 0, false
	}
	if year := m.Year(); year != 0 {
		return year, true
	}
	return 0, false
}
