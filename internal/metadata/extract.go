package metadata

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// infoLabels are the field labels douban prints in the #info block. 原作名
// participates in tokenization so the original title does not bleed into a
// neighbouring value, but it maps to no stored field.
var infoLabels = []string{
	"作者",
	"出版社",
	"原作名",
	"译者",
	"出版年",
	"页数",
	"定价",
	"装帧",
	"丛书",
	"ISBN",
}

// ExtractInfo parses the freeform info block into the labeled fields. The
// block arrives label-prefixed and newline-delimited, with values that may
// themselves span lines. The text is collapsed to one line and every label
// occurrence that is followed by a colon becomes a segment boundary; each
// segment is assigned to the label it starts with. Label keywords inside a
// value (publisher names routinely end in 出版社) carry no colon and are
// not boundaries. Absent labels leave empty strings.
func ExtractInfo(info *BookInfo, raw string) {
	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(line)
	}
	text := b.String()

	type boundary struct {
		pos   int
		label string
	}
	var bounds []boundary
	for _, label := range infoLabels {
		for from := 0; ; {
			i := strings.Index(text[from:], label)
			if i < 0 {
				break
			}
			pos := from + i
			if labelHasColon(text[pos+len(label):]) {
				bounds = append(bounds, boundary{pos: pos, label: label})
			}
			from = pos + len(label)
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].pos < bounds[j].pos })

	for i, bd := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1].pos
		}
		value, ok := valueAfterColon(text[bd.pos:end])
		if !ok {
			continue
		}
		assignField(info, bd.label, value)
	}
}

// labelHasColon reports whether a label occurrence is followed, after
// optional whitespace, by an ASCII or fullwidth colon. Only those
// occurrences are real labels; the rest are keywords inside values.
func labelHasColon(rest string) bool {
	rest = strings.TrimLeft(rest, " \t　")
	return strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "：")
}

// valueAfterColon returns the trimmed text after the first ASCII or
// fullwidth colon in the segment.
func valueAfterColon(segment string) (string, bool) {
	i := strings.IndexAny(segment, ":：")
	if i < 0 {
		return "", false
	}
	_, size := utf8.DecodeRuneInString(segment[i:])
	return strings.TrimSpace(segment[i+size:]), true
}

func assignField(info *BookInfo, label, value string) {
	switch label {
	case "作者":
		info.Author = value
	case "出版社":
		info.Publisher = value
	case "译者":
		info.Translator = value
	case "出版年":
		info.Pubdate = value
	case "页数":
		info.Pages = value
	case "定价":
		info.Price = value
	case "装帧":
		info.Binding = value
	case "丛书":
		info.Series = value
	case "ISBN":
		info.ISBN = value
	}
}
