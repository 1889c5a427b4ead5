// Package dedup suppresses repeated articles within a run and against the
// persisted spam list. The run-local set is the only state shared across
// concurrent outlet branches, so it owns a mutex.
package dedup

import (
	"hash/fnv"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"

	"github.com/biocracy/urbanous/internal/domain"
)

// Fingerprint is a deterministic hash of the normalized (title, URL) pair.
// Records with equal fingerprints are the same logical article.
type Fingerprint uint64

// FingerprintOf hashes normalized title and URL. Query strings, protocol,
// and "www." never contribute, so syndicated re-postings collapse.
func FingerprintOf(title, rawURL string) Fingerprint {
	h := fnv.New64a()
	h.Write([]byte(domain.NormalizeTitle(title)))
	h.Write([]byte{0})
	h.Write([]byte(domain.NormalizeURL(rawURL)))
	return Fingerprint(h.Sum64())
}

// RegistrableDomain returns the eTLD+1 for a URL's host, lowercased and
// without "www.". Used to key rule lookups.
func RegistrableDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld
	}
	return host
}

// SpamSignatures holds previously human-flagged URLs and titles. Read-only
// after load.
type SpamSignatures struct {
	URLs   map[string]struct{}
	Titles map[string]struct{} // lowercased
}

// Matches reports whether a record hits an exact flagged URL or title.
func (s SpamSignatures) Matches(title, rawURL string) bool {
	if s.URLs != nil {
		if _, hit := s.URLs[rawURL]; hit {
			return true
		}
	}
	if s.Titles != nil {
		if _, hit := s.Titles[strings.ToLower(strings.TrimSpace(title))]; hit {
			return true
		}
	}
	return false
}

// Set is the run-local fingerprint set. First-seen wins.
type Set struct {
	mu   sync.Mutex
	seen map[Fingerprint]struct{}
	spam SpamSignatures
}

// NewSet builds an empty set backed by the given spam signatures.
func NewSet(spam SpamSignatures) *Set {
	return &Set{seen: make(map[Fingerprint]struct{}), spam: spam}
}

// Admit returns true exactly once per fingerprint: the first caller wins,
// every later duplicate is rejected. Safe for concurrent use.
func (s *Set) Admit(title, rawURL string) bool {
	fp := FingerprintOf(title, rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[fp]; dup {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

// IsSpam checks the persisted signature list without consuming the
// fingerprint.
func (s *Set) IsSpam(title, rawURL string) bool {
	return s.spam.Matches(title, rawURL)
}

// Len reports how many distinct articles have been admitted.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
