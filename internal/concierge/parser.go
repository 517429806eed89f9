package concierge

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?[ \\t]*\\r?\\n?(.*?)```")

// ParseObject recovers a JSON object from model output. It tries the whole
// text, then the first fenced code block, then the span from the first '{'
// to the last '}'. Non-object JSON counts as a failure. It returns nil when
// nothing parses.
func ParseObject(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if obj := decodeObject(text); obj != nil {
		return obj
	}
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if obj := decodeObject(m[1]); obj != nil {
			return obj
		}
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		return decodeObject(text[start : end+1])
	}
	return nil
}

func decodeObject(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &obj); err != nil {
		return nil
	}
	return obj
}
