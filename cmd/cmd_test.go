package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/agentsocial/internal/pipeline"
)

func runRoot(t *testing.T, stdin string, args ...string) (*pipeline.State, error) {
	t.Helper()
	t.Setenv("MCP_PUBLISH_URL", "")
	t.Chdir(t.TempDir())
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return nil, err
	}
	var st pipeline.State
	if err := json.Unmarshal(out.Bytes(), &st); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	return &st, nil
}

func TestSelectImageWithoutCandidates(t *testing.T) {
	st, err := runRoot(t, `{"url":"https://example.com/a","scraped_content":{"images":[]}}`, "select-image")
	if err != nil {
		t.Fatalf("select-image: %v", err)
	}
	if !st.ImageMetadata.Empty() || st.UpdatedAt == nil {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestPublishInProcessDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte(`{"platform":"dryrun","user_id":"u1"}`), 0o600); err != nil {
		t.Fatalf("write state: %v", err)
	}
	st, err := runRoot(t, "", "publish", "--state", path, "--text", "hello", "--connection-id", "4")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if st.PublishResult.Status() != "published" || st.PublishResult.PostID() == "" {
		t.Fatalf("unexpected publish result %v", st.PublishResult)
	}
	if st.ConnectionID == nil || *st.ConnectionID != 4 || st.PostText != "hello" {
		t.Fatalf("flags not applied: %+v", st)
	}
}

func TestReadStateErrors(t *testing.T) {
	if _, err := readState(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := readState("-", strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := readState("-", strings.NewReader(`{"scraped_content":{"images":"x"}}`)); err == nil || !strings.Contains(err.Error(), "invalid state") {
		t.Fatalf("expected schema error, got %v", err)
	}
}
