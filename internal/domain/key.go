package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// PrefixLength is the number of text runes kept in a key for display
const PrefixLength = 20

// keyNamespace scopes task text hashes; changing it re-keys every persisted record
var keyNamespace = uuid.MustParse("8f0b4c52-6d3e-5a71-9c2e-3b7d1e4f9a60")

// TaskKey identifies a task for scheduling purposes.
//
// Two tasks with the same categories and the same normalized text produce the
// same key. TextPrefix is informational only; identity comes from the hash of
// the full text, so tasks sharing their first characters stay distinct.
type TaskKey struct {
	MainCategory string
	Category     string
	TextPrefix   string
	hash         string
}

// DeriveKey computes the key for a task
func DeriveKey(t Task) TaskKey {
	text := normalizeText(t.Text)
	return TaskKey{
		MainCategory: strings.TrimSpace(t.MainCategory),
		Category:     strings.TrimSpace(t.Category),
		TextPrefix:   prefix(strings.TrimSpace(t.Text), PrefixLength),
		hash:         uuid.NewSHA1(keyNamespace, []byte(text)).String(),
	}
}

// segmentEscaper keeps "/" out of the category segments of a persisted key
var segmentEscaper = strings.NewReplacer("%", "%25", "/", "%2F")

// String returns the persisted form of the key: main/category/hash.
// Category names are escaped so the separator stays unambiguous.
func (k TaskKey) String() string {
	return segmentEscaper.Replace(k.MainCategory) + "/" + segmentEscaper.Replace(k.Category) + "/" + k.hash
}

// IsZero reports whether the key was never derived
func (k TaskKey) IsZero() bool {
	return k.hash == ""
}

// Label returns a short human description of the key
func (k TaskKey) Label() string {
	if k.TextPrefix == "" {
		return k.Category
	}
	return k.Category + ": " + k.TextPrefix
}

// normalizeText applies NFKC, case folding and whitespace collapsing.
// A Caser holds state, so each call gets its own.
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
