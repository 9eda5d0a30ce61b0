package media

import (
	"sort"
	"strings"

	"github.com/mohammad-safakhou/agentsocial/internal/helpers"
)

// PreferredImage returns the page's declared representative image:
// og:image, falling back to twitter:image, trimmed.
func PreferredImage(metadata map[string]any) string {
	for _, key := range []string{"og:image", "twitter:image"} {
		if s, ok := metadata[key].(string); ok && s != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// OrderCandidates returns images in preference order. An exact og match goes
// first with the rest untouched; otherwise same-site images lead and larger
// areas win within each group. The input slice is not modified.
func OrderCandidates(images []Candidate, articleURL, og string) []Candidate {
	if len(images) == 0 {
		return []Candidate{}
	}
	if og != "" {
		for i, im := range images {
			if im.Src != og {
				continue
			}
			out := make([]Candidate, 0, len(images))
			out = append(out, im)
			out = append(out, images[:i]...)
			return append(out, images[i+1:]...)
		}
	}

	type scored struct {
		c    Candidate
		same bool
		area int64
	}
	ranked := make([]scored, len(images))
	for i, im := range images {
		ranked[i] = scored{c: im, same: helpers.SameSite(articleURL, im.Src), area: im.Area()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].same != ranked[j].same {
			return ranked[i].same
		}
		return ranked[i].area > ranked[j].area
	})
	out := make([]Candidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.c
	}
	return out
}
