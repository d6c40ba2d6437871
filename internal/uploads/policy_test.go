package uploads

import (
	"strings"
	"testing"
)

// Minimal valid file headers for sniffing.
var (
	pngHeader  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)
	jpegHeader = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)
	mp3Header  = append([]byte("ID3"), make([]byte, 16)...)
)

const testID = "537b4ab5-500f-49e4-903d-025fb6c09d54"

func TestValidateBackgroundPNG(t *testing.T) {
	u, err := Validate(SlotBackground, testID, pngHeader)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if u.Bucket != "backgrounds" {
		t.Errorf("unexpected bucket: %s", u.Bucket)
	}
	if u.Path != "users/"+testID+"/background.png" {
		t.Errorf("unexpected path: %s", u.Path)
	}
	if u.ContentType != "image/png" {
		t.Errorf("unexpected content type: %s", u.ContentType)
	}
}

func TestValidateBackgroundJPEGExtension(t *testing.T) {
	u, err := Validate(SlotBackground, testID, jpegHeader)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if u.Path != "users/"+testID+"/background.jpg" {
		t.Errorf("extension should follow sniffed type, got %s", u.Path)
	}
}

func TestValidateAvatarFixedPath(t *testing.T) {
	u, err := Validate(SlotAvatar, testID, pngHeader)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if u.Path != "users/"+testID+"/pic.jpg" {
		t.Errorf("avatar path must be fixed, got %s", u.Path)
	}
}

func TestValidateSong(t *testing.T) {
	u, err := Validate(SlotSong, testID, mp3Header)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if u.Bucket != "songs" || u.Path != "users/"+testID+"/background-song.mp3" {
		t.Errorf("unexpected placement: %s/%s", u.Bucket, u.Path)
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	_, err := Validate(SlotSong, testID, pngHeader)
	if err == nil {
		t.Fatal("image in song slot should be rejected")
	}
	if !strings.Contains(err.Error(), "audio/") {
		t.Errorf("error should name the required types: %v", err)
	}

	if _, err := Validate(SlotBackground, testID, []byte("just some text")); err == nil {
		t.Error("plain text in background slot should be rejected")
	}
}

func TestValidateRejectsEmptyAndUnknown(t *testing.T) {
	if _, err := Validate(SlotBackground, testID, nil); err == nil {
		t.Error("empty payload should be rejected")
	}
	if _, err := Validate(SlotBackground, "", pngHeader); err == nil {
		t.Error("missing identity should be rejected")
	}
	if _, err := Validate(Slot("banner"), testID, pngHeader); err == nil {
		t.Error("unknown slot should be rejected")
	}
}

func TestValidateRejectsUnsafeIdentity(t *testing.T) {
	// The identity is interpolated into the object path, so anything
	// beyond a plain identifier must be rejected before a path exists.
	for _, id := range []string{
		"../../other-bucket",
		"users/../../etc",
		"a/b",
		"id with spaces",
		"id\x00null",
	} {
		u, err := Validate(SlotAvatar, id, pngHeader)
		if err == nil {
			t.Errorf("identity %q should be rejected, got path %s", id, u.Path)
		}
	}
}

func TestValidateRejectsOversized(t *testing.T) {
	big := make([]byte, MaxUploadBytes+1)
	copy(big, pngHeader)
	if _, err := Validate(SlotBackground, testID, big); err == nil {
		t.Error("oversized payload should be rejected")
	}
}
