package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/hyperifyio/courseport/internal/content"
)

// The course-API platforms share a shape: a course identifier in the URL
// path, a read-only public endpoint keyed by that identifier, and a nested
// course tree walked in document order for the first video or pdf item.
// Only the JSON field names differ between the two.

type apiQuality struct {
	Quality   string `json:"quality"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

func mapQualities(in []apiQuality) []content.Quality {
	out := make([]content.Quality, 0, len(in))
	for _, q := range in {
		label := q.Quality
		if label == "" {
			label = "Unknown"
		}
		out = append(out, content.Quality{
			Label:       label,
			URL:         q.URL,
			SizeDisplay: content.FormatSize(q.SizeBytes),
		})
	}
	return out
}

func courseID(rawURL string, pattern *regexp.Regexp) (string, error) {
	m := pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrURLParse, rawURL)
	}
	return m[1], nil
}

func fetchCourse(ctx context.Context, g Getter, apiURL string, v any) error {
	body, _, err := g.Get(ctx, apiURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteAPI, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemoteAPI, err)
	}
	return nil
}

// AppxExtractor pulls the first playable item from an Appx public course.
type AppxExtractor struct {
	Client Getter
	// APIBase overrides the production endpoint, mainly for tests.
	APIBase string
}

var (
	appxURLPattern      = regexp.MustCompile(`^https?://(www\.)?appx\.com/.+`)
	appxCourseIDPattern = regexp.MustCompile(`/course/([^/]+)`)
)

const appxAPIBase = "https://api.appx.com/v1/courses"

type appxCourse struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Modules   []struct {
		Resources []appxResource `json:"resources"`
	} `json:"modules"`
}

type appxResource struct {
	Type      string       `json:"type"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Qualities []apiQuality `json:"qualities"`
}

func (e *AppxExtractor) Platform() content.Platform { return content.PlatformAppx }

func (e *AppxExtractor) CanHandle(rawURL string) bool {
	return appxURLPattern.MatchString(rawURL)
}

func (e *AppxExtractor) Extract(ctx context.Context, rawURL string) (*content.Descriptor, error) {
	id, err := courseID(rawURL, appxCourseIDPattern)
	if err != nil {
		return nil, err
	}
	base := e.APIBase
	if base == "" {
		base = appxAPIBase
	}
	var course appxCourse
	if err := fetchCourse(ctx, e.Client, fmt.Sprintf("%s/%s/public", base, id), &course); err != nil {
		return nil, err
	}

	// First playable item in document order wins; the rest of the course is
	// deliberately ignored.
	var picked *appxResource
	for _, mod := range course.Modules {
		for i := range mod.Resources {
			if t := mod.Resources[i].Type; t == "video" || t == "pdf" {
				picked = &mod.Resources[i]
				break
			}
		}
		if picked != nil {
			break
		}
	}
	if picked == nil {
		return nil, ErrNoContentFound
	}

	title := composeTitle(course.Title, "Appx Course", picked.Title)
	if picked.Type == "pdf" {
		d, err := content.ForDocument(content.PlatformAppx, title, picked.URL)
		if err != nil {
			return nil, err
		}
		d.ThumbnailURL = course.Thumbnail
		return d, nil
	}

	d, err := content.ForVideo(content.PlatformAppx, title, picked.URL, mapQualities(picked.Qualities))
	if err != nil {
		return nil, err
	}
	d.ThumbnailURL = course.Thumbnail
	return d, nil
}

// UtkarshExtractor pulls the first playable item from an Utkarsh course. The
// response shape mirrors Appx with different field names, and items carry a
// duration plus an optional per-item size used when no quality list exists.
type UtkarshExtractor struct {
	Client  Getter
	APIBase string
}

var (
	utkarshURLPattern      = regexp.MustCompile(`^https?://(www\.)?utkarsh\.com/.+`)
	utkarshCourseIDPattern = regexp.MustCompile(`/courses/([^/]+)`)
)

const utkarshAPIBase = "https://api.utkarsh.com/courses"

type utkarshCourse struct {
	CourseTitle  string `json:"course_title"`
	ThumbnailURL string `json:"thumbnail_url"`
	Sections     []struct {
		Items []utkarshItem `json:"items"`
	} `json:"sections"`
}

type utkarshItem struct {
	Type            string       `json:"type"`
	Title           string       `json:"title"`
	URL             string       `json:"url"`
	DurationSeconds int          `json:"duration_seconds"`
	SizeBytes       int64        `json:"size_bytes"`
	Qualities       []apiQuality `json:"qualities"`
}

func (e *UtkarshExtractor) Platform() content.Platform { return content.PlatformUtkarsh }

func (e *UtkarshExtractor) CanHandle(rawURL string) bool {
	return utkarshURLPattern.MatchString(rawURL)
}

func (e *UtkarshExtractor) Extract(ctx context.Context, rawURL string) (*content.Descriptor, error) {
	id, err := courseID(rawURL, utkarshCourseIDPattern)
	if err != nil {
		return nil, err
	}
	base := e.APIBase
	if base == "" {
		base = utkarshAPIBase
	}
	var course utkarshCourse
	if err := fetchCourse(ctx, e.Client, fmt.Sprintf("%s/%s/public", base, id), &course); err != nil {
		return nil, err
	}

	var picked *utkarshItem
	for _, sec := range course.Sections {
		for i := range sec.Items {
			if t := sec.Items[i].Type; t == "video" || t == "pdf" {
				picked = &sec.Items[i]
				break
			}
		}
		if picked != nil {
			break
		}
	}
	if picked == nil {
		return nil, ErrNoContentFound
	}

	title := composeTitle(course.CourseTitle, "Utkarsh Course", picked.Title)
	if picked.Type == "pdf" {
		d, err := content.ForDocument(content.PlatformUtkarsh, title, picked.URL)
		if err != nil {
			return nil, err
		}
		d.ThumbnailURL = course.ThumbnailURL
		return d, nil
	}

	qualities := mapQualities(picked.Qualities)
	if len(qualities) == 0 && picked.URL != "" {
		qualities = []content.Quality{{
			Label:       "Original",
			URL:         picked.URL,
			SizeDisplay: content.FormatSize(picked.SizeBytes),
		}}
	}
	d, err := content.ForVideo(content.PlatformUtkarsh, title, picked.URL, qualities)
	if err != nil {
		return nil, err
	}
	d.ThumbnailURL = course.ThumbnailURL
	d.DurationSeconds = picked.DurationSeconds
	d.DurationDisplay = content.FormatDuration(picked.DurationSeconds)
	return d, nil
}

func composeTitle(courseTitle, courseFallback, itemTitle string) string {
	if courseTitle == "" {
		courseTitle = courseFallback
	}
	if itemTitle == "" {
		itemTitle = "Content"
	}
	return courseTitle + " - " + itemTitle
}
