package checkers

import (
	"fmt"
	"net/url"
	"strings"
)

// Link query keys.
const (
	LinkBoard = "board"
	LinkSize  = "size"
	LinkSet   = "set"
)

// Link is the query-string form of a Token carried between two players.
type Link struct {
	Token
}

// ParseLink reads board, size and set from a raw query string. A leading
// '?' or a full URL is accepted.
func ParseLink(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return Link{Token{Board: q.Get(LinkBoard), Size: q.Get(LinkSize), Set: q.Get(LinkSet)}}, nil
}

// Encode renders the link as a query string.
func (l Link) Encode() string {
	q := url.Values{}
	q.Set(LinkBoard, l.Board)
	q.Set(LinkSize, l.Size)
	q.Set(LinkSet, l.Set)
	return q.Encode()
}

// LinkOf returns the shareable link of a session.
func LinkOf(s *Session) Link { return Link{s.ToToken()} }

// OpenLink builds the session a link describes. An empty link starts a
// default game. A broken link also yields a default game, together with an
// ErrInvalidToken the caller can report.
func OpenLink(raw string) (*Session, error) {
	s := NewSession(DefaultBoardSize, DefaultTeam)
	if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "?")) == "" {
		return s, nil
	}
	l, err := ParseLink(raw)
	if err != nil {
		return s, err
	}
	if err := s.LoadFromToken(l.Board, l.Size, l.Set); err != nil {
		return s, err
	}
	return s, nil
}
