// Package session holds the anonymous visitor state: a cookie-backed set
// of completed challenge keys in the legacy "ch{id}" format. The durable
// store takes over as source of truth once the visitor authenticates and
// the set is merged.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// Name is the session cookie name.
	Name = "ecospark_session"
	// completionsKey matches the key used by pre-existing sessions.
	completionsKey = "challenges_completed"
)

type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(secret string) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// Completions returns the anonymous completion set, or an empty slice.
// A cookie that fails to decode is treated as an empty session.
func (s *Store) Completions(r *http.Request) []string {
	sess, _ := s.cookies.Get(r, Name)
	keys, ok := sess.Values[completionsKey].([]string)
	if !ok {
		return nil
	}
	return keys
}

// SetCompletions replaces the anonymous completion set.
func (s *Store) SetCompletions(w http.ResponseWriter, r *http.Request, keys []string) error {
	sess, _ := s.cookies.Get(r, Name)
	if len(keys) == 0 {
		delete(sess.Values, completionsKey)
	} else {
		sess.Values[completionsKey] = keys
	}
	return sess.Save(r, w)
}

// AddCompletion appends one key if it is not already present.
func (s *Store) AddCompletion(w http.ResponseWriter, r *http.Request, key string) error {
	keys := s.Completions(r)
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return s.SetCompletions(w, r, append(keys, key))
}

// Contains reports whether the key is in the anonymous set.
func (s *Store) Contains(r *http.Request, key string) bool {
	for _, k := range s.Completions(r) {
		if k == key {
			return true
		}
	}
	return false
}

// ClearCompletions drops the whole set, transferring ownership to the
// durable store after a merge.
func (s *Store) ClearCompletions(w http.ResponseWriter, r *http.Request) error {
	return s.SetCompletions(w, r, nil)
}
