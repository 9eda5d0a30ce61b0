package schema

import "testing"

func TestValidateStateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "minimal", doc: `{}`},
		{
			name: "full",
			doc: `{
				"url": "https://example.com/a",
				"scraped_content": {
					"url": "https://example.com/a",
					"images": ["https://example.com/a.jpg", {"src": "https://example.com/b.jpg", "width": "640", "height": 480}, 7, null],
					"metadata": {"og:image": "https://example.com/b.jpg"}
				},
				"platform": "dryrun",
				"user_id": "u1",
				"connection_id": 3,
				"updated_at": "2026-01-02T03:04:05Z",
				"extra": {"kept": true}
			}`,
		},
		{name: "boolean and odd dimensions score zero", doc: `{"scraped_content": {"images": [{"src": "https://example.com/a.jpg", "width": true, "height": false}, {"url": "https://example.com/b.jpg", "width": 1.5, "height": "12px"}]}}`},
		{name: "null scraped url", doc: `{"url": "https://example.com/a", "scraped_content": {"url": null, "images": []}}`},
		{name: "non-boolean terminated", doc: `{"terminated": 1}`, wantErr: true},
		{name: "not an object", doc: `[]`, wantErr: true},
		{name: "images not a list", doc: `{"scraped_content": {"images": "https://example.com/a.jpg"}}`, wantErr: true},
		{name: "metadata not an object", doc: `{"scraped_content": {"metadata": "og"}}`, wantErr: true},
		{name: "object src not a string", doc: `{"scraped_content": {"images": [{"src": 5}]}}`, wantErr: true},
		{name: "fractional connection id", doc: `{"connection_id": 1.5}`, wantErr: true},
		{name: "bad timestamp", doc: `{"updated_at": "yesterday"}`, wantErr: true},
		{name: "invalid json", doc: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStateDocument([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStateDocument err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
