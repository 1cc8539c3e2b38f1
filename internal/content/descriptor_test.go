package content

import (
	"errors"
	"testing"
)

func TestForVideo_RequiresPlayableResource(t *testing.T) {
	_, err := ForVideo(PlatformAppx, "Course - Lesson", "", nil)
	if !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("expected ErrMalformedContent, got %v", err)
	}
}

func TestForVideo_RequiresTitle(t *testing.T) {
	_, err := ForVideo(PlatformAppx, "  ", "https://cdn.example.com/a.mp4", nil)
	if !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("expected ErrMalformedContent, got %v", err)
	}
}

func TestForDocument_RequiresDownloadURL(t *testing.T) {
	_, err := ForDocument(PlatformUtkarsh, "Notes", "")
	if !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("expected ErrMalformedContent, got %v", err)
	}
}

func TestPreferredURL(t *testing.T) {
	cases := []struct {
		name        string
		downloadURL string
		qualities   []Quality
		want        string
	}{
		{
			name:        "qualities take precedence",
			downloadURL: "https://cdn.example.com/plain.mp4",
			qualities: []Quality{
				{Label: "720p", URL: "https://cdn.example.com/720.mp4"},
				{Label: "480p", URL: "https://cdn.example.com/480.mp4"},
			},
			want: "https://cdn.example.com/720.mp4",
		},
		{
			name:        "falls back to download URL",
			downloadURL: "https://cdn.example.com/plain.mp4",
			want:        "https://cdn.example.com/plain.mp4",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ForVideo(PlatformGeneric, "Clip", tc.downloadURL, tc.qualities)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := d.PreferredURL(); got != tc.want {
				t.Fatalf("PreferredURL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPreferredURL_NeverEmptyForResolvedDescriptor(t *testing.T) {
	video, err := ForVideo(PlatformAppx, "V", "", []Quality{{Label: "Original", URL: "https://x/v.mp4"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := ForDocument(PlatformAppx, "D", "https://x/d.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range []*Descriptor{video, doc} {
		if d.PreferredURL() == "" {
			t.Fatalf("empty preferred URL for %q", d.Title)
		}
	}
}
