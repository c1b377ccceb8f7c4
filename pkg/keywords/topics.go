// Package keywords keeps the topic to keyword-list mapping used for tagging posts.
// The mapping is ordered, its iteration order is the order of topics in the file
// and defines the order of topic tags in the output.
package keywords

import (
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// errors returned by Topics mutations
var (
	ErrEmptyTopic    = errors.New("topic name cannot be empty")
	ErrTopicExists   = errors.New("topic already exists")
	ErrTopicNotFound = errors.New("topic not found")
)

// Topics is an ordered mapping of topic name to keyword list
type Topics struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewTopics makes an empty mapping
func NewTopics() *Topics {
	return &Topics{m: orderedmap.New[string, []string]()}
}

// Defaults returns a fresh copy of the built-in mapping
func Defaults() *Topics {
	t := NewTopics()
	t.m.Set("finance", []string{"money", "income", "profit", "investment", "cash", "fund"})
	t.m.Set("marketing", []string{"market", "ad", "seo", "affiliate", "email"})
	t.m.Set("tech", []string{"app", "software", "ai", "tech", "python", "code"})
	t.m.Set("startup", []string{"startup", "launch", "founder", "scale", "vc", "seed"})
	t.m.Set("productivity", []string{"productivity", "focus", "time management", "habit"})
	return t
}

// Len returns number of topics
func (t *Topics) Len() int {
	return t.m.Len()
}

// Names returns topic names in mapping order
func (t *Topics) Names() []string {
	res := make([]string, 0, t.m.Len())
	for p := t.m.Oldest(); p != nil; p = p.Next() {
		res = append(res, p.Key)
	}
	return res
}

// Keywords returns keyword list of the topic
func (t *Topics) Keywords(name string) ([]string, bool) {
	return t.m.Get(name)
}

// Each calls fn for every topic in mapping order, stops when fn returns false
func (t *Topics) Each(fn func(name string, keywords []string) bool) {
	for p := t.m.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Add creates a new topic with empty keyword list. The name is trimmed and lowercased.
func (t *Topics) Add(name string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", ErrEmptyTopic
	}
	if _, ok := t.m.Get(name); ok {
		return "", fmt.Errorf("%w: %s", ErrTopicExists, name)
	}
	t.m.Set(name, []string{})
	return name, nil
}

// Delete removes the topic
func (t *Topics) Delete(name string) error {
	if _, ok := t.m.Delete(name); !ok {
		return fmt.Errorf("%w: %s", ErrTopicNotFound, name)
	}
	return nil
}

// Replace sets keyword list for existing topic. Keywords are trimmed, blank ones dropped.
func (t *Topics) Replace(name string, keywords []string) error {
	if _, ok := t.m.Get(name); !ok {
		return fmt.Errorf("%w: %s", ErrTopicNotFound, name)
	}
	t.m.Set(name, CleanKeywords(keywords))
	return nil
}

// Reset replaces all topics with the defaults
func (t *Topics) Reset() {
	t.m = Defaults().m
}

// MarshalJSON keeps topic order
func (t *Topics) MarshalJSON() ([]byte, error) {
	return t.m.MarshalJSON()
}

// UnmarshalJSON keeps topic order of the source document
func (t *Topics) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, []string]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	t.m = m
	return nil
}

// NormalizeName trims and lowercases topic name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CleanKeywords trims keywords and drops empty ones
func CleanKeywords(keywords []string) []string {
	res := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			res = append(res, k)
		}
	}
	return res
}

// SplitLines splits multiline keyword input, one keyword per line
func SplitLines(s string) []string {
	return CleanKeywords(strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n"))
}
