package storage

import "testing"

func TestValidatePhotoType(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
		want        bool
	}{
		{"image/jpeg", "wedding_001.jpg", true},
		{"", "wedding_001.JPG", true},
		{"application/octet-stream", "raw.tiff", true},
		{"image/png", "noext", true},
		{"", "noext", false},
		{"video/mp4", "clip.mp4", false},
		{"application/pdf", "contract.pdf", false},
	}
	for _, tc := range cases {
		if got := ValidatePhotoType(tc.contentType, tc.filename); got != tc.want {
			t.Errorf("ValidatePhotoType(%q, %q) = %v, want %v", tc.contentType, tc.filename, got, tc.want)
		}
	}
}

func TestContentTypeForFilename(t *testing.T) {
	if got := ContentTypeForFilename("IMG_1234.JPG"); got != "image/jpeg" {
		t.Fatalf("got %s", got)
	}
	if got := ContentTypeForFilename("unknown.bin"); got != "application/octet-stream" {
		t.Fatalf("got %s", got)
	}
}

func TestObjectKeys(t *testing.T) {
	if got := OriginalKey("ev1", "ph1", "Wedding_001.JPG"); got != "originals/ev1/ph1.jpg" {
		t.Fatalf("original key = %s", got)
	}
	if got := EditedKey("ev1", "ph1", "retouched.png"); got != "edited/ev1/ph1.png" {
		t.Fatalf("edited key = %s", got)
	}
	if got := ThumbnailKey("ev1", "ph1"); got != "thumbs/ev1/ph1.jpg" {
		t.Fatalf("thumbnail key = %s", got)
	}
	if got := PreviewKey("ev1", "ph1"); got != "previews/ev1/ph1.jpg" {
		t.Fatalf("preview key = %s", got)
	}
}
