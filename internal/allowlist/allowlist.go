package allowlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Allowlist maps syslog identifiers to known-benign message patterns.
// Patterns are RE2 regexes, compiled anchored so a pattern must cover the
// whole message; matching is case-sensitive.
type Allowlist struct {
	matchers map[string][]*regexp.Regexp
	raw      map[string][]string
}

type fileFormat struct {
	Identifiers map[string][]string `toml:"identifiers"`
}

// Load reads an allowlist TOML file. A missing file yields an empty
// allowlist, not an error, so fresh installs run without setup.
func Load(path string) (*Allowlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Compile(nil)
		}
		return nil, fmt.Errorf("read allowlist: %w", err)
	}
	return Parse(data)
}

// Parse decodes and compiles allowlist TOML content.
func Parse(data []byte) (*Allowlist, error) {
	var file fileFormat
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse allowlist: %w", err)
	}
	return Compile(file.Identifiers)
}

// Compile builds an allowlist from identifier pattern lists, anchoring each
// pattern to the full message.
func Compile(patterns map[string][]string) (*Allowlist, error) {
	list := &Allowlist{
		matchers: make(map[string][]*regexp.Regexp, len(patterns)),
		raw:      make(map[string][]string, len(patterns)),
	}
	for identifier, exprs := range patterns {
		for _, expr := range exprs {
			matcher, err := regexp.Compile("^(?:" + expr + ")$")
			if err != nil {
				return nil, fmt.Errorf("allowlist pattern %q for %q: %w", expr, identifier, err)
			}
			list.matchers[identifier] = append(list.matchers[identifier], matcher)
			list.raw[identifier] = append(list.raw[identifier], expr)
		}
	}
	return list, nil
}

// Allows reports whether the message from the given identifier is a known
// benign error. Identifiers without patterns never match.
func (a *Allowlist) Allows(identifier, message string) bool {
	if a == nil {
		return false
	}
	for _, matcher := range a.matchers[identifier] {
		if matcher.MatchString(message) {
			return true
		}
	}
	return false
}

// Empty reports whether the allowlist carries no patterns at all.
func (a *Allowlist) Empty() bool {
	return a == nil || len(a.matchers) == 0
}

// Len returns the total pattern count.
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	total := 0
	for _, exprs := range a.raw {
		total += len(exprs)
	}
	return total
}

// Patterns returns the source patterns keyed by identifier, with identifiers
// sorted for stable display.
func (a *Allowlist) Patterns() []IdentifierPatterns {
	if a == nil {
		return nil
	}
	identifiers := make([]string, 0, len(a.raw))
	for identifier := range a.raw {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	out := make([]IdentifierPatterns, 0, len(identifiers))
	for _, identifier := range identifiers {
		out = append(out, IdentifierPatterns{
			Identifier: identifier,
			Patterns:   append([]string(nil), a.raw[identifier]...),
		})
	}
	return out
}

// IdentifierPatterns pairs an identifier with its configured patterns.
type IdentifierPatterns struct {
	Identifier string
	Patterns   []string
}
