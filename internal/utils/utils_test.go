package utils

import (
	"strings"
	"testing"
	"time"
)

func TestRandString(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := RandString(8)
		if len(s) != 8 {
			t.Fatalf("RandString(8) length = %d", len(s))
		}
		if seen[s] {
			t.Fatalf("RandString(8) produced duplicate %q after %d draws", s, i)
		}
		seen[s] = true
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html := RenderMarkdown("**bold** <script>alert(1)</script>")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := GetCache()
	c.Set("k", "v", 10*time.Millisecond)
	if got := c.Get("k"); got != "v" {
		t.Fatalf("Get = %v, want v", got)
	}
	time.Sleep(20 * time.Millisecond)
	if got := c.Get("k"); got != nil {
		t.Fatalf("expired Get = %v, want nil", got)
	}

	c.Set("k2", "v2", time.Minute)
	c.Delete("k2")
	if got := c.Get("k2"); got != nil {
		t.Fatalf("deleted Get = %v, want nil", got)
	}
}
