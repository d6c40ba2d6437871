// Package uploads validates themed upload slots: each slot accepts a
// fixed set of MIME types, sniffed from content rather than trusted
// from the request, and maps to a fixed object path per identity.
package uploads

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/batcaveos/backend/internal/shared/utils"
	"github.com/batcaveos/backend/internal/storage"
)

// Slot identifies one themed upload target.
type Slot string

const (
	SlotAvatar     Slot = "avatar"
	SlotBackground Slot = "background"
	SlotSong       Slot = "song"
)

// MaxUploadBytes caps one upload.
const MaxUploadBytes = 25 << 20 // 25 MiB

// slotPolicy describes what a slot accepts and where it lands.
type slotPolicy struct {
	bucket  string
	accepts []string // acceptable MIME types
	// path builds the object path; ext is the sniffed extension
	// including the dot.
	path func(identityID, ext string) string
}

var slotPolicies = map[Slot]slotPolicy{
	SlotAvatar: {
		bucket:  storage.BucketProfilePictures,
		accepts: []string{"image/jpeg", "image/png", "image/webp"},
		// The avatar path is fixed regardless of the uploaded format so
		// the resolver's probe chain stays one entry long.
		path: func(identityID, _ string) string {
			return fmt.Sprintf("users/%s/pic.jpg", identityID)
		},
	},
	SlotBackground: {
		bucket:  storage.BucketBackgrounds,
		accepts: []string{"image/jpeg", "image/png", "image/webp"},
		path: func(identityID, ext string) string {
			return fmt.Sprintf("users/%s/background%s", identityID, ext)
		},
	},
	SlotSong: {
		bucket:  storage.BucketSongs,
		accepts: []string{"audio/mpeg", "audio/mp4", "audio/ogg", "audio/wav"},
		path: func(identityID, _ string) string {
			return fmt.Sprintf("users/%s/background-song.mp3", identityID)
		},
	},
}

// Upload is a validated upload ready for storage.
type Upload struct {
	Bucket      string
	Path        string
	ContentType string
	Data        []byte
}

// Validate checks an upload against a slot's policy and returns the
// storage placement. The MIME type is sniffed from the payload.
func Validate(slot Slot, identityID string, data []byte) (Upload, error) {
	policy, ok := slotPolicies[slot]
	if !ok {
		return Upload{}, fmt.Errorf("unknown upload slot: %s", slot)
	}
	// The identity becomes part of the object path, so it must be a
	// plain identifier before any interpolation happens.
	if err := utils.ValidateID(identityID, "userId", true); err != nil {
		return Upload{}, err
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("no file provided")
	}
	if len(data) > MaxUploadBytes {
		return Upload{}, fmt.Errorf("file exceeds %d byte limit", MaxUploadBytes)
	}

	detected := mimetype.Detect(data)
	if !accepted(policy.accepts, detected) {
		return Upload{}, fmt.Errorf("%s slot requires one of %s, got %s",
			slot, strings.Join(policy.accepts, ", "), detected.String())
	}

	return Upload{
		Bucket:      policy.bucket,
		Path:        policy.path(identityID, detected.Extension()),
		ContentType: detected.String(),
		Data:        data,
	}, nil
}

// accepted walks the mimetype parent chain so subtypes (e.g.
// audio/mp3 variants) match their registered base type.
func accepted(accepts []string, detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range accepts {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// Slots lists the known slots, for error messages and route setup.
func Slots() []Slot {
	return []Slot{SlotAvatar, SlotBackground, SlotSong}
}
