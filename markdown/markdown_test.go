package markdown

import (
	"strings"
	"testing"
)

func TestFormatContentInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"**a** and *b*", "<strong>a</strong> and <em>b</em>"},
		{"first\nsecond", "first<br>second"},
	}
	for _, tt := range tests {
		got := FormatContent(tt.input)
		if got != tt.expected {
			t.Errorf("FormatContent(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatContentEscapesHTML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"a < b & c > d", "a &lt; b &amp; c &gt; d"},
		{"**<b>**", "<strong>&lt;b&gt;</strong>"},
	}
	for _, tt := range tests {
		got := FormatContent(tt.input)
		if got != tt.expected {
			t.Errorf("FormatContent(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatContentLists(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"• one\n• two", "<ul><li>one</li><li>two</li></ul>"},
		{"- one\n- two", "<ul><li>one</li><li>two</li></ul>"},
		{"intro\n• a\n• b\noutro", "intro<br><ul><li>a</li><li>b</li></ul><br>outro"},
		{"• a\nbetween\n• b", "<ul><li>a</li></ul><br>between<br><ul><li>b</li></ul>"},
		{"• **bold item**", "<ul><li><strong>bold item</strong></li></ul>"},
	}
	for _, tt := range tests {
		got := FormatContent(tt.input)
		if got != tt.expected {
			t.Errorf("FormatContent(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatContentCombined(t *testing.T) {
	input := "**x** and *y*\n• one\n• two"
	expected := "<strong>x</strong> and <em>y</em><br><ul><li>one</li><li>two</li></ul>"
	if got := FormatContent(input); got != expected {
		t.Errorf("FormatContent(%q) = %q, want %q", input, got, expected)
	}
}

func TestFormatPreviewHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Title", "<h1>Title</h1>"},
		{"## Section", "<h2>Section</h2>"},
		{"### Sub", "<h3>Sub</h3>"},
		{"# Title\nbody", "<h1>Title</h1><br>body"},
	}
	for _, tt := range tests {
		got := FormatPreview(tt.input)
		if got != tt.expected {
			t.Errorf("FormatPreview(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatPreviewLinks(t *testing.T) {
	got := FormatPreview("[docs](https://example.com/docs)")
	want := `<a href="https://example.com/docs">docs</a>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatPreviewDropsUnsafeLinkURL(t *testing.T) {
	got := FormatPreview("[click](javascript:doEvil)")
	if got != "click" {
		t.Errorf("got %q, want link stripped to its text", got)
	}
}

func TestFormatPreviewImages(t *testing.T) {
	got := FormatPreview("![photo](data:image/jpeg;base64,abc)")
	want := `<img alt="photo" src="data:image/jpeg;base64,abc"/>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatPreviewDoesNotFormatInsideTags(t *testing.T) {
	// The URL contains asterisks; the italic pass must leave it alone.
	got := FormatPreview("*see* [link](https://example.com/a*b*c)")
	if !strings.Contains(got, `href="https://example.com/a*b*c"`) {
		t.Errorf("URL was corrupted by inline formatting: %q", got)
	}
	if !strings.Contains(got, "<em>see</em>") {
		t.Errorf("text outside tags was not formatted: %q", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"/relative/path", "/relative/path"},
		{"#fragment", "#fragment"},
		{"mailto:a@b.com", "mailto:a@b.com"},
		{"data:image/png;base64,xyz", "data:image/png;base64,xyz"},
		{"javascript:alert(1)", ""},
		{"data:text/html,<x>", ""},
		{"  https://example.com  ", "https://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		got := SafeURL(tt.input)
		if got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
