package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var errNoContent = errors.New("no usable content")

// parsed is the raw outcome of reading a model reply.
type parsed struct {
	values      []string
	explanation string
}

// parseReply extracts values from free text. It tries, in order: the first
// balanced JSON object as {suggestion, explanation}, the first balanced JSON
// array as a list, and plain lines.
func parseReply(kind Kind, text string) (parsed, error) {
	if obj, ok := firstBalanced(text, '{', '}'); ok {
		if p, err := parseObject(obj); err == nil {
			return p, nil
		}
	}
	if arr, ok := firstBalanced(text, '[', ']'); ok {
		if vals, err := decodeValues([]byte(arr)); err == nil && len(vals) > 0 {
			return parsed{values: vals}, nil
		}
	}
	if p, ok := parseLines(kind, text); ok {
		return p, nil
	}
	return parsed{}, errNoContent
}

type canonicalReply struct {
	Suggestion  json.RawMessage `json:"suggestion"`
	Explanation string          `json:"explanation"`
}

func parseObject(obj string) (parsed, error) {
	var r canonicalReply
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return parsed{}, err
	}
	if len(r.Suggestion) == 0 {
		return parsed{}, errors.New("object has no suggestion")
	}
	vals, err := decodeValues(r.Suggestion)
	if err != nil {
		return parsed{}, err
	}
	if len(vals) == 0 {
		return parsed{}, errNoContent
	}
	return parsed{values: vals, explanation: strings.TrimSpace(r.Explanation)}, nil
}

// decodeValues accepts a JSON string, number or array of either.
func decodeValues(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}, nil
		}
		return nil, nil
	case json.Number:
		return []string{t.String()}, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			case json.Number:
				out = append(out, it.String())
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported suggestion type %T", v)
	}
}

// firstBalanced returns the first substring that starts with open and ends
// with its matching close. Delimiters inside JSON strings are ignored.
func firstBalanced(text string, open, closing byte) (string, bool) {
	for start := strings.IndexByte(text, open); start >= 0; {
		if end, ok := matchClose(text, start, open, closing); ok {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func matchClose(text string, start int, open, closing byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

var listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// parseLines is the last-resort reader. List kinds keep every line as an
// item; scalar kinds use the first line as the suggestion and the rest as
// the explanation.
func parseLines(kind Kind, text string) (parsed, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		if l == "" || strings.HasPrefix(l, "```") {
			continue
		}
		if strings.HasPrefix(l, "{") || strings.HasPrefix(l, "}") {
			continue
		}
		l = strings.TrimSpace(listMarker.ReplaceAllString(l, ""))
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return parsed{}, false
	}

	if kind.IsList() {
		items := make([]string, 0, len(lines))
		for _, l := range lines {
			l = strings.Trim(l, `",[]`)
			if l = strings.TrimSpace(l); l != "" {
				items = append(items, l)
			}
		}
		if len(items) == 0 {
			return parsed{}, false
		}
		return parsed{values: items}, true
	}

	first := strings.TrimSpace(strings.Replace(lines[0], "Suggestion:", "", 1))
	if first == "" {
		return parsed{}, false
	}
	rest := strings.Join(lines[1:], " ")
	rest = strings.TrimSpace(strings.Replace(rest, "Explanation:", "", 1))
	return parsed{values: []string{first}, explanation: rest}, true
}
