// Package markdown renders the constrained markup subset used in post
// content. Input is always HTML-escaped before any substitution, so
// untrusted text can never smuggle markup through; the formatting passes
// then run in a fixed order, each one over the already-transformed output
// of the previous. Because the passes chain, a bold span containing a raw
// list marker will be re-interpreted by the later list pass; that is a
// documented limitation of the format, not something the renderer repairs.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	reBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic = regexp.MustCompile(`\*([^*]+)\*`)
	reLink   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reImage  = regexp.MustCompile(`\!\[(.*?)\]\((.*?)\)`)
)

// FormatContent applies the restricted post-body transform: bold, italic,
// bullet lines (grouped into a list container), then line breaks.
func FormatContent(s string) string {
	if s == "" {
		return ""
	}
	out := html.EscapeString(s)
	out = reBold.ReplaceAllString(out, "<strong>$1</strong>")
	out = reItalic.ReplaceAllString(out, "<em>$1</em>")
	out = groupLists(out)
	return strings.ReplaceAll(out, "\n", "<br>")
}

// FormatPreview renders the editor preview: the FormatContent passes
// extended with headings (#, ##, ###), links and images.
func FormatPreview(s string) string {
	if s == "" {
		return ""
	}
	out := html.EscapeString(s)
	out = reImage.ReplaceAllStringFunc(out, func(m string) string {
		match := reImage.FindStringSubmatch(m)
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		return `<img alt="` + match[1] + `" src="` + src + `"/>`
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		return `<a href="` + href + `">` + match[1] + `</a>`
	})
	// Bold and italic must not touch the URLs just emitted into
	// src/href attributes.
	out = ApplyOutsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})
	out = groupBlocks(out)
	return strings.ReplaceAll(out, "\n", "<br>")
}

// listItem reports whether line is a bullet line and returns its text.
func listItem(line string) (string, bool) {
	for _, marker := range []string{"• ", "- "} {
		if strings.HasPrefix(line, marker) {
			return line[len(marker):], true
		}
	}
	return "", false
}

// groupLists converts runs of bullet lines into <ul> containers. Newlines
// between other lines are left in place for the final line-break pass.
func groupLists(s string) string {
	lines := strings.Split(s, "\n")
	var segs []string
	for i := 0; i < len(lines); {
		item, ok := listItem(lines[i])
		if !ok {
			segs = append(segs, lines[i])
			i++
			continue
		}
		var b strings.Builder
		b.WriteString("<ul>")
		for ok {
			b.WriteString("<li>")
			b.WriteString(item)
			b.WriteString("</li>")
			i++
			if i >= len(lines) {
				break
			}
			item, ok = listItem(lines[i])
		}
		b.WriteString("</ul>")
		segs = append(segs, b.String())
	}
	return strings.Join(segs, "\n")
}

// groupBlocks is the preview block pass: headings and bullet runs.
func groupBlocks(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			lines[i] = "<h3>" + strings.TrimSpace(line[4:]) + "</h3>"
		case strings.HasPrefix(line, "## "):
			lines[i] = "<h2>" + strings.TrimSpace(line[3:]) + "</h2>"
		case strings.HasPrefix(line, "# "):
			lines[i] = "<h1>" + strings.TrimSpace(line[2:]) + "</h1>"
		}
	}
	return groupLists(strings.Join(lines, "\n"))
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags, so
// formatting regexes never corrupt URLs inside attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// SafeURL validates a URL for use in HTML attributes. Relative paths,
// fragments, http(s), mailto and inline data-URI images are allowed;
// everything else is dropped.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	lower := strings.ToLower(val)
	switch {
	case strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "mailto:"),
		strings.HasPrefix(lower, "data:image/"):
		return html.EscapeString(val)
	}
	return ""
}
