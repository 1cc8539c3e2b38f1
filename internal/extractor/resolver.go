package extractor

import "strings"

// Resolver picks the variant for a URL by case-insensitive substring match
// against a fixed, ordered keyword table. Ambiguous URLs resolve to whichever
// keyword is checked first; anything unmatched falls back to the generic
// variant, so Resolve never fails.
type Resolver struct {
	table    []dispatchEntry
	fallback Extractor
}

type dispatchEntry struct {
	keyword string
	ext     Extractor
}

// NewResolver builds the standard dispatch table over a shared fetch client.
func NewResolver(client Getter) *Resolver {
	return &Resolver{
		table: []dispatchEntry{
			{keyword: "utkarsh", ext: &UtkarshExtractor{Client: client}},
			{keyword: "appx", ext: &AppxExtractor{Client: client}},
			{keyword: "classplus", ext: &FrameExtractor{Client: client}},
		},
		fallback: &GenericExtractor{Client: client},
	}
}

// Resolve returns the first matching variant, or the generic fallback.
func (r *Resolver) Resolve(rawURL string) Extractor {
	lower := strings.ToLower(rawURL)
	for _, e := range r.table {
		if strings.Contains(lower, e.keyword) {
			return e.ext
		}
	}
	return r.fallback
}
