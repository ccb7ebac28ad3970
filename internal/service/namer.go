package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Namer issues render IDs. Artifact names are derived from the ID, so a
// result can always be matched to the file it describes.
type Namer interface {
	// NewID returns a fresh identifier such as "3f9a0c2b1d".
	NewID() string
}

type uuidNamer struct{}

func (uuidNamer) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// UUIDNamer returns the default Namer, which uses the first ten hex digits of
// a random UUID.
func UUIDNamer() Namer {
	return uuidNamer{}
}

// artifactName builds names such as "recolor_3f9a0c2b1d.jpg".
func artifactName(prefix, id, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, id, ext)
}
