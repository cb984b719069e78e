package markdown_test

import (
	"strings"
	"testing"

	"brack/internal/platform/markdown"
)

type noteMeta struct {
	ID       string `yaml:"id"`
	Duration int    `yaml:"duration_minutes"`
}

func TestDecodeFrontmatter(t *testing.T) {
	t.Parallel()
	var meta noteMeta
	body, ok, err := markdown.DecodeFrontmatter("---\nid: s-1\nduration_minutes: 25\n---\n# Body\n", &meta)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok || meta.ID != "s-1" || meta.Duration != 25 {
		t.Fatalf("unexpected meta %+v ok=%t", meta, ok)
	}
	if body != "# Body\n" {
		t.Fatalf("unexpected body %q", body)
	}

	var none noteMeta
	body, ok, err = markdown.DecodeFrontmatter("plain text", &none)
	if err != nil || ok || body != "plain text" {
		t.Fatalf("plain note: body=%q ok=%t err=%v", body, ok, err)
	}

	if _, _, err := markdown.DecodeFrontmatter("---\nid: broken\n", &none); err == nil {
		t.Fatalf("missing closing separator should fail")
	}
}

func TestRenderFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderFrontmatter(noteMeta{ID: "s-2", Duration: 40}, "text\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var meta noteMeta
	body, _, err := markdown.DecodeFrontmatter(rendered, &meta)
	if err != nil {
		t.Fatalf("decode rendered: %v", err)
	}
	if meta.ID != "s-2" || meta.Duration != 40 || strings.TrimSpace(body) != "text" {
		t.Fatalf("round trip mismatch: %+v body=%q", meta, body)
	}
}

func TestReplaceManagedBlock(t *testing.T) {
	t.Parallel()
	const start, end = "<!-- s -->", "<!-- e -->"

	fresh := markdown.ReplaceManagedBlock("", start, end, "one")
	if fresh != start+"\none\n"+end+"\n" {
		t.Fatalf("unexpected fresh block %q", fresh)
	}

	withText := markdown.ReplaceManagedBlock("my notes\n", start, end, "one")
	if !strings.HasPrefix(withText, "my notes\n\n"+start) {
		t.Fatalf("block should be appended after user text: %q", withText)
	}

	replaced := markdown.ReplaceManagedBlock(withText+"tail\n", start, end, "two")
	if strings.Contains(replaced, "one") || !strings.Contains(replaced, "two") {
		t.Fatalf("block content should be replaced: %q", replaced)
	}
	if !strings.HasPrefix(replaced, "my notes") || !strings.HasSuffix(replaced, "tail\n") {
		t.Fatalf("text outside the block must survive: %q", replaced)
	}
}
