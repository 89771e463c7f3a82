// Package ignore compiles ignore patterns into typed rules and evaluates
// candidate paths against them.
package ignore

import (
	"regexp"
	"strings"

	"github.com/temirov/ctxpack/internal/utils"
)

// RuleKind identifies how a compiled rule matches candidate paths.
type RuleKind int

const (
	// RuleKindDirectory matches a directory and everything beneath it. The
	// source pattern ends with a forward slash.
	RuleKindDirectory RuleKind = iota
	// RuleKindGlob matches the full candidate path against a wildcard pattern.
	RuleKindGlob
	// RuleKindExact matches the candidate path by string equality.
	RuleKindExact
)

const (
	pathSeparator = "/"
	globWildcard  = "*"
)

// Rule is one compiled ignore pattern. Rules are immutable once compiled.
type Rule struct {
	Kind    RuleKind
	Pattern string
	matcher *regexp.Regexp
}

// Matcher evaluates relative paths against an ordered rule set. A path is
// ignored when any rule matches; rule order never changes the outcome.
type Matcher struct {
	rules []Rule
}

// CompilePatterns converts raw pattern strings into typed rules. Blank
// patterns are dropped. Glob patterns are compiled once into anchored regular
// expressions where the wildcard matches any run of characters and every other
// character is taken literally.
func CompilePatterns(patterns []string) []Rule {
	compiledRules := make([]Rule, 0, len(patterns))
	for _, patternValue := range patterns {
		trimmedPattern := strings.TrimSpace(patternValue)
		if trimmedPattern == "" {
			continue
		}
		normalizedPattern := utils.NormalizeToUnixPath(trimmedPattern)
		switch {
		case strings.HasSuffix(normalizedPattern, pathSeparator):
			compiledRules = append(compiledRules, Rule{Kind: RuleKindDirectory, Pattern: normalizedPattern})
		case strings.Contains(normalizedPattern, globWildcard):
			compiledRules = append(compiledRules, Rule{
				Kind:    RuleKindGlob,
				Pattern: normalizedPattern,
				matcher: compileGlobPattern(normalizedPattern),
			})
		default:
			compiledRules = append(compiledRules, Rule{Kind: RuleKindExact, Pattern: normalizedPattern})
		}
	}
	return compiledRules
}

// compileGlobPattern builds an anchored regular expression from a wildcard
// pattern. The resulting expression must match the entire candidate path.
func compileGlobPattern(pattern string) *regexp.Regexp {
	quotedPattern := regexp.QuoteMeta(pattern)
	expression := "^" + strings.ReplaceAll(quotedPattern, `\*`, ".*") + "$"
	return regexp.MustCompile(expression)
}

// NewMatcher constructs a Matcher over the provided compiled rules.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Rules returns the ordered rule set backing the matcher.
func (matcher *Matcher) Rules() []Rule {
	return matcher.rules
}

// MatchesFile reports whether the relative file path is excluded by any rule.
func (matcher *Matcher) MatchesFile(relativePath string) bool {
	normalizedPath := utils.NormalizeToUnixPath(relativePath)
	for _, rule := range matcher.rules {
		if rule.matchesFilePath(normalizedPath) {
			return true
		}
	}
	return false
}

// MatchesDirectory reports whether the relative directory path is excluded by
// any rule. Callers prune matching directories: their contents are never
// visited.
func (matcher *Matcher) MatchesDirectory(relativeDirectoryPath string) bool {
	normalizedPath := utils.EnsureTrailingSlash(utils.NormalizeToUnixPath(relativeDirectoryPath))
	trimmedPath := strings.TrimSuffix(normalizedPath, pathSeparator)
	for _, rule := range matcher.rules {
		if rule.matchesDirectoryPath(normalizedPath, trimmedPath) {
			return true
		}
	}
	return false
}

// matchesFilePath evaluates the rule against a unix-normalized file path.
func (rule Rule) matchesFilePath(normalizedPath string) bool {
	switch rule.Kind {
	case RuleKindDirectory:
		return strings.HasPrefix(normalizedPath, rule.Pattern)
	case RuleKindGlob:
		return rule.matcher.MatchString(normalizedPath)
	default:
		return normalizedPath == rule.Pattern
	}
}

// matchesDirectoryPath evaluates the rule against a directory path carrying a
// trailing slash. Glob and exact rules are consulted against the slash-trimmed
// form so a bare pattern such as "build" still prunes the "build/" directory.
func (rule Rule) matchesDirectoryPath(normalizedPath string, trimmedPath string) bool {
	switch rule.Kind {
	case RuleKindDirectory:
		return strings.HasPrefix(normalizedPath, rule.Pattern)
	case RuleKindGlob:
		return rule.matcher.MatchString(trimmedPath)
	default:
		return trimmedPath == rule.Pattern
	}
}
