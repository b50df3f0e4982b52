package reasoning

import (
	"bytes"
	"encoding/json"
	"regexp"
)

var (
	fencedObject  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// extractObject returns the JSON object in body. Engines that wrap their answer in
// prose or a markdown fence are tolerated; trailing commas are removed.
func extractObject(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if json.Valid(trimmed) {
		return trimmed
	}

	candidate := trimmed
	if m := fencedObject.FindSubmatch(trimmed); len(m) > 1 {
		candidate = m[1]
	} else {
		start := bytes.IndexByte(trimmed, '{')
		end := bytes.LastIndexByte(trimmed, '}')
		if start < 0 || end < start {
			return nil
		}
		candidate = trimmed[start : end+1]
	}
	return trailingComma.ReplaceAll(candidate, []byte("$1"))
}
