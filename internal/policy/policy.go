// Package policy holds the pluggable pieces of the aggregator: how result
// directories are grouped, how a test finds its reference, and how raw
// samples are cleaned before statistics are taken.
package policy

import (
	"fmt"
	"regexp"
	"sort"
)

// Default patterns of RegexPolicy.
const (
	DefaultGroupPattern    = `^(.+?)-`
	DefaultPairPattern     = `-test$`
	DefaultPairReplacement = "-ref"
)

// Policy selects and clusters test ids and maps a test id to the id of its
// reference run.
type Policy interface {
	// GroupTests returns the groups to report, in report order.
	GroupTests(ids []string) [][]string
	// GetPaired returns the reference id for id, or "" when id has none.
	GetPaired(id string) string
}

// RegexPolicy groups ids by the first submatch of Group and pairs ids
// matching Pair by replacing the match with Replacement.
type RegexPolicy struct {
	Group       *regexp.Regexp
	Pair        *regexp.Regexp
	Replacement string
}

// NewRegexPolicy compiles the patterns. Empty patterns fall back to the
// defaults.
func NewRegexPolicy(group, pair, replacement string) (*RegexPolicy, error) {
	if group == "" {
		group = DefaultGroupPattern
	}
	if pair == "" {
		pair = DefaultPairPattern
	}
	if replacement == "" {
		replacement = DefaultPairReplacement
	}

	g, err := regexp.Compile(group)
	if err != nil {
		return nil, fmt.Errorf("invalid group pattern %q: %w", group, err)
	}
	p, err := regexp.Compile(pair)
	if err != nil {
		return nil, fmt.Errorf("invalid pair pattern %q: %w", pair, err)
	}
	return &RegexPolicy{Group: g, Pair: p, Replacement: replacement}, nil
}

// DefaultPolicy groups by the prefix before the first '-' and pairs
// "x-test" with "x-ref".
func DefaultPolicy() *RegexPolicy {
	return &RegexPolicy{
		Group:       regexp.MustCompile(DefaultGroupPattern),
		Pair:        regexp.MustCompile(DefaultPairPattern),
		Replacement: DefaultPairReplacement,
	}
}

// GroupTests drops ids the group pattern does not match. When the pattern
// has no capture group the whole match is the key. Groups are ordered by
// key.
func (p *RegexPolicy) GroupTests(ids []string) [][]string {
	byKey := make(map[string][]string)
	for _, id := range ids {
		m := p.Group.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		key := m[0]
		if len(m) > 1 {
			key = m[1]
		}
		byKey[key] = append(byKey[key], id)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([][]string, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, byKey[k])
	}
	return groups
}

func (p *RegexPolicy) GetPaired(id string) string {
	if !p.Pair.MatchString(id) {
		return ""
	}
	return p.Pair.ReplaceAllString(id, p.Replacement)
}
