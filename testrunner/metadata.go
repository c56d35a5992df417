package testrunner

import "strings"

// Metadata is the YAML frontmatter of a test262 test file.
type Metadata struct {
	Description string
	Features    []string
	Flags       []string
	Negative    NegativeExpectation
}

// NegativeExpectation describes a test that is expected to throw.
type NegativeExpectation struct {
	Phase string // "parse", "resolution" or "runtime"
	Type  string // "SyntaxError", "ReferenceError", ...
}

// HasFlag reports whether the test carries flag, e.g. "module" or
// "onlyStrict".
func (m Metadata) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ExpectsSyntaxError reports whether the test must fail to parse.
func (m Metadata) ExpectsSyntaxError() bool {
	return m.Negative.Phase == "parse" && m.Negative.Type == "SyntaxError"
}

// parseMetadata reads the frontmatter between /*--- and ---*/. Only the
// keys the runner needs are understood.
func parseMetadata(source string) Metadata {
	var meta Metadata

	startIdx := strings.Index(source, "/*---")
	if startIdx < 0 {
		return meta
	}
	endIdx := strings.Index(source[startIdx:], "---*/")
	if endIdx < 0 {
		return meta
	}

	var currentKey string
	inList := false
	for _, line := range strings.Split(source[startIdx+5:startIdx+endIdx], "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "- ") && inList {
			val := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
			switch currentKey {
			case "features":
				meta.Features = append(meta.Features, val)
			case "flags":
				meta.Flags = append(meta.Flags, val)
			}
			continue
		}

		idx := strings.Index(trimmed, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:idx])
		value := strings.TrimSpace(trimmed[idx+1:])
		switch key {
		case "description":
			meta.Description = value
			currentKey, inList = "", false
		case "features", "flags":
			currentKey, inList = key, true
			if strings.HasPrefix(value, "[") {
				list := parseInlineList(value)
				if key == "features" {
					meta.Features = list
				} else {
					meta.Flags = list
				}
				inList = false
			}
		case "phase":
			if currentKey == "negative" {
				meta.Negative.Phase = value
			}
		case "type":
			if currentKey == "negative" {
				meta.Negative.Type = value
			}
		case "negative":
			currentKey, inList = "negative", false
		default:
			// nested keys of negative are indented, top-level keys are not
			if currentKey != "negative" || !strings.HasPrefix(line, " ") {
				currentKey, inList = key, false
			}
		}
	}
	return meta
}

func parseInlineList(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// unsupportedFeatures are proposals the parser does not implement.
var unsupportedFeatures = map[string]bool{
	"decorators":                    true,
	"explicit-resource-management":  true,
	"import-defer":                  true,
	"source-phase-imports":          true,
	"regexp-modifiers":              true,
	"regexp-duplicate-named-groups": true,
	"regexp-v-flag":                 true,
}

func unsupportedFeature(features []string) string {
	for _, f := range features {
		if unsupportedFeatures[f] {
			return f
		}
	}
	return ""
}
