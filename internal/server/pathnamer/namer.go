// Package pathnamer derives object-storage keys for uploaded files.
//
// Keys are composed as owner/subjects/subjectID/category/token-name, where
// token is a time-based prefix plus a random suffix. Uniqueness is
// probabilistic: two calls collide only if they land on the same millisecond
// and draw the same random suffix. Collisions are not detected; last write
// wins silently.
package pathnamer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// nowFunc is a seam for tests.
var nowFunc = time.Now

// Derive returns the object-storage key for a new upload. originalName is
// sanitized so the resulting filename segment only contains characters from
// [A-Za-z0-9_.-]; everything else becomes '_'. Extensions are preserved
// as-is, never inferred or validated.
func Derive(ownerID, subjectID, category, originalName string) string {
	token := strconv.FormatInt(nowFunc().UnixMilli(), 36) + "-" + uuid.NewString()[:8]
	return fmt.Sprintf("%s/subjects/%s/%s/%s-%s", ownerID, subjectID, category, token, Sanitize(originalName))
}

// AvatarPath returns the fixed per-owner avatar key. Avatar uploads bypass
// Derive entirely and overwrite this key in place.
func AvatarPath(ownerID string) string {
	return ownerID + "/profile/avatar.jpg"
}

// Sanitize replaces every character outside [A-Za-z0-9_.-] with '_'.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
