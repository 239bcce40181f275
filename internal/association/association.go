// Package association resolves which declared room each inspection photo belongs to.
package association

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vistoria-app/vistoria/internal/models"
	"github.com/vistoria-app/vistoria/internal/normalize"
)

// ErrInsufficientSegments is returned for filenames that do not contain at
// least two underscore-separated segments.
var ErrInsufficientSegments = errors.New("filename must have at least two '_'-separated segments")

// RoomKey derives the room key from the first two underscore-separated
// segments of a filename: "Kitchen_1_photo.jpg" yields "Kitchen_1".
func RoomKey(filename string) (string, error) {
	parts := strings.SplitN(filename, "_", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("%q: %w", filename, ErrInsufficientSegments)
	}
	return parts[0] + "_" + parts[1], nil
}

// Resolve returns the label of the first declaration whose normalized token is
// a prefix of the normalized key, or models.RoomNotSpecified.
//
// This is first-match, not longest-match: a short token declared early
// shadows a more specific one declared later.
func Resolve(key string, rooms models.DeclaredRooms) string {
	normalizedKey := normalize.Normalize(key)
	for _, room := range rooms {
		if strings.HasPrefix(normalizedKey, normalize.Normalize(room.Token)) {
			return room.Label
		}
	}
	return models.RoomNotSpecified
}

// Associate resolves the room and observation for every description.
// The input slice is not modified.
func Associate(descriptions []models.ImageDescription, rooms models.DeclaredRooms, observations models.ObservationMap) ([]models.ImageDescription, error) {
	associated := make([]models.ImageDescription, 0, len(descriptions))
	for _, desc := range descriptions {
		key, err := RoomKey(desc.Image)
		if err != nil {
			return nil, err
		}

		desc.Room = Resolve(key, rooms)
		desc.Observation = observations[key]
		if desc.Room == models.RoomNotSpecified {
			slog.Warn("No declared room matches image", "image", desc.Image, "room_key", key)
		}

		associated = append(associated, desc)
	}
	return associated, nil
}
