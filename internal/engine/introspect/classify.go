// # internal/engine/introspect/classify.go
package introspect

import (
	"sort"
	"strings"
)

// tagRule matches a tag when the lowercased class name contains any of the
// class substrings or the lowercased path contains any of the path
// substrings.
type tagRule struct {
	tag     string
	classes []string
	paths   []string
}

var tagRules = []tagRule{
	{tag: "embedding", classes: []string{"embedding"}, paths: []string{".embeddings"}},
	{tag: "attention", classes: []string{"attention"}, paths: []string{".attn"}},
	{tag: "mlp", classes: []string{"mlp", "ffn", "feedforward"}, paths: []string{".ffn"}},
	{tag: "norm", classes: []string{"norm"}},
	{tag: "dropout", classes: []string{"dropout"}},
	{tag: "conv", classes: []string{"conv"}},
	{tag: "linear", classes: []string{"linear", "dense"}},
	{tag: "encoder", classes: []string{"encoder"}, paths: []string{".encoder"}},
	{tag: "decoder", classes: []string{"decoder"}, paths: []string{".decoder"}},
	{tag: "pooler", classes: []string{"pooler"}},
	{tag: "head", classes: []string{"head", "classifier"}, paths: []string{"lm_head"}},
}

// TagVocabulary returns the fixed tag set, sorted.
func TagVocabulary() []string {
	tags := make([]string, 0, len(tagRules))
	for _, rule := range tagRules {
		tags = append(tags, rule.tag)
	}
	sort.Strings(tags)
	return tags
}

// Classify maps a module's class name and tree path to semantic tags by
// case-insensitive substring matching. Best-effort heuristics: deterministic
// and vocabulary-bound, not guaranteed semantically correct. Unmatched input
// yields an empty set.
func Classify(className, path string) []string {
	classLower := strings.ToLower(className)
	pathLower := strings.ToLower(path)

	tags := []string{}
	for _, rule := range tagRules {
		if matchAny(classLower, rule.classes) || matchAny(pathLower, rule.paths) {
			tags = append(tags, rule.tag)
		}
	}
	sort.Strings(tags)
	return tags
}

func matchAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// unionTags merges sorted tag slices into one sorted, de-duplicated slice.
func unionTags(sets ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, set := range sets {
		for _, tag := range set {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}
