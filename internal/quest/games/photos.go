package games

import (
	"encoding/json"
	"os"
	"path"
	"strings"

	"github.com/samber/lo"

	"valentinequest/internal/logging"
)

var photoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// LoadManifest reads a JSON array of image filenames. A missing, unreadable
// or malformed manifest yields an empty list and a warning, never an error:
// the photo matrix is decoration and must not block the quest.
func LoadManifest(file string) []string {
	if file == "" {
		return nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		logging.Warn("Photo manifest %s unavailable, skipping photo matrix: %v", file, err)
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		logging.Warn("Photo manifest %s is malformed, skipping photo matrix: %v", file, err)
		return nil
	}
	names = lo.Filter(names, func(name string, _ int) bool {
		name = strings.TrimSpace(name)
		if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
			return false
		}
		return lo.Contains(photoExtensions, strings.ToLower(path.Ext(name)))
	})
	return lo.Uniq(names)
}

// PhotoMatrix is the final stage's grid of photos.
type PhotoMatrix struct {
	Photos  []string
	Columns int
}

// NewPhotoMatrix loads the manifest at file.
func NewPhotoMatrix(file string, columns int) *PhotoMatrix {
	if columns <= 0 {
		columns = 4
	}
	return &PhotoMatrix{Photos: LoadManifest(file), Columns: columns}
}

// Rows splits the photos into rows of Columns.
func (m *PhotoMatrix) Rows() [][]string {
	if len(m.Photos) == 0 {
		return nil
	}
	return lo.Chunk(m.Photos, m.Columns)
}
