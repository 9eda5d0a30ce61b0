package media

import "testing"

func srcs(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Src
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPreferredImage(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want string
	}{
		{name: "og wins", meta: map[string]any{"og:image": " https://a/og.jpg ", "twitter:image": "https://a/tw.jpg"}, want: "https://a/og.jpg"},
		{name: "twitter fallback", meta: map[string]any{"og:image": "", "twitter:image": "https://a/tw.jpg"}, want: "https://a/tw.jpg"},
		{name: "non string ignored", meta: map[string]any{"og:image": 12}, want: ""},
		{name: "nil metadata", meta: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreferredImage(tt.meta); got != tt.want {
				t.Fatalf("PreferredImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrderCandidatesSameSiteBeatsArea(t *testing.T) {
	images := []Candidate{
		{Src: "https://cdn.example.com/a.jpg", Width: 100, Height: 100},
		{Src: "https://example.com/b.jpg", Width: 50, Height: 50},
	}
	got := srcs(OrderCandidates(images, "https://example.com/post", ""))
	want := []string{"https://example.com/b.jpg", "https://cdn.example.com/a.jpg"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOrderCandidatesOgMatchFirst(t *testing.T) {
	images := []Candidate{
		{Src: "https://example.com/b.jpg", Width: 500, Height: 500},
		{Src: "https://example.com/c.jpg"},
		{Src: "https://cdn.example.com/a.jpg", Width: 1, Height: 1},
		{Src: "https://example.com/d.jpg", Width: 900, Height: 900},
	}
	got := srcs(OrderCandidates(images, "https://example.com/post", "https://cdn.example.com/a.jpg"))
	want := []string{
		"https://cdn.example.com/a.jpg",
		"https://example.com/b.jpg",
		"https://example.com/c.jpg",
		"https://example.com/d.jpg",
	}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if images[0].Src != "https://example.com/b.jpg" {
		t.Fatalf("input slice was modified")
	}
}

func TestOrderCandidatesOgWithoutMatchFallsBackToScore(t *testing.T) {
	images := []Candidate{
		{Src: "https://other.com/small.jpg", Width: 10, Height: 10},
		{Src: "https://other.com/big.jpg", Width: 800, Height: 600},
		{Src: "https://example.com/nosize.jpg"},
		{Src: "https://example.com/sized.jpg", Width: 20, Height: 20},
	}
	got := srcs(OrderCandidates(images, "https://EXAMPLE.com/post", "https://nowhere.test/og.jpg"))
	want := []string{
		"https://example.com/sized.jpg",
		"https://example.com/nosize.jpg",
		"https://other.com/big.jpg",
		"https://other.com/small.jpg",
	}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOrderCandidatesStableOnTies(t *testing.T) {
	images := []Candidate{
		{Src: "https://x.test/1.jpg"},
		{Src: "https://x.test/2.jpg"},
		{Src: "https://x.test/3.jpg"},
	}
	got := srcs(OrderCandidates(images, "https://y.test/post", ""))
	if !equalStrings(got, srcs(images)) {
		t.Fatalf("expected input order on ties, got %v", got)
	}
}

func TestOrderCandidatesEmpty(t *testing.T) {
	if got := OrderCandidates(nil, "https://example.com", "https://example.com/og.jpg"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
