package speaker

import (
	"bytes"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// extractMetadata reads the tags embedded in an audio file.
// ok is false when the data carries no readable tags.
func extractMetadata(data []byte) (md domain.TrackMetadata, ok bool) {
	// Use dhowden/tag library to extract metadata
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil || m == nil {
		return domain.TrackMetadata{}, false
	}

	md = domain.TrackMetadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Year:   m.Year(),
	}
	return md, md != (domain.TrackMetadata{})
}
