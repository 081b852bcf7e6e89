package utils

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

var allowedAvatarExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarExtension returns the file extension for a supported avatar content
// type.
func AvatarExtension(contentType string) (string, bool) {
	ext, ok := allowedAvatarExt[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// GenerateAvatarKey builds a unique object key in the form
// avatars/<user id>/<uuid><ext>.
func GenerateAvatarKey(userID uint64, ext string) string {
	return path.Join("avatars", fmt.Sprintf("%d", userID), uuid.NewString()+ext)
}
