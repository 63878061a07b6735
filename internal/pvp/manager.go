package pvp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/obslog"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
)

const defaultChallengeTTL = 10 * time.Minute

// GameStarter creates the game once a challenge is accepted.
type GameStarter interface {
	CreateGame(ctx context.Context, ng pvpcheckers.NewGame) (*pvpcheckers.Game, error)
}

// Manager keeps pending challenges in memory. A target holds at most one
// pending challenge; it lapses after the TTL.
type Manager struct {
	mu sync.Mutex
	// targetID -> challenges, latest last
	byTarget map[string][]*Challenge
	seq      uint64

	games GameStarter
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(games GameStarter, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultChallengeTTL
	}
	return &Manager{byTarget: make(map[string][]*Challenge), games: games, ttl: ttl, now: time.Now}
}

func (m *Manager) CreateChallenge(challengerID, challengerName, targetID string, size checkers.BoardSize, color pvpchan.ColorChoice) (*Challenge, error) {
	challengerID, targetID = strings.TrimSpace(challengerID), strings.TrimSpace(targetID)
	if challengerID == "" || targetID == "" {
		return nil, ErrInvalidArgs
	}
	if challengerID == targetID {
		return nil, ErrSelfChallenge
	}
	if strings.TrimSpace(challengerName) == "" {
		challengerName = challengerID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.expire(targetID)
	if idx := latestPendingIndex(list); idx >= 0 {
		return nil, ErrAlreadyPending
	}
	ch := &Challenge{
		ID:             m.nextID(),
		ChallengerID:   challengerID,
		ChallengerName: strings.TrimSpace(challengerName),
		TargetID:       targetID,
		Size:           size.Symbol(),
		Color:          color,
		CreatedAt:      m.now(),
		Status:         StatusPending,
	}
	m.byTarget[targetID] = append(list, ch)
	obslog.L().Info("challenge_create",
		zap.String("id", ch.ID),
		zap.String("challenger_id", challengerID),
		zap.String("target_id", targetID),
		zap.String("size", ch.Size),
	)
	return ch, nil
}

// Accept starts a game from the target's pending challenge. The challenge
// stays pending when the game cannot be created.
func (m *Manager) Accept(ctx context.Context, targetID, targetName string) (*Challenge, *pvpcheckers.Game, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, nil, ErrInvalidArgs
	}
	if strings.TrimSpace(targetName) == "" {
		targetName = targetID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.expire(targetID)
	idx := latestPendingIndex(list)
	if idx < 0 {
		return nil, nil, ErrNoPendingForUser
	}
	ch := list[idx]

	challengerWhite, err := pvpchan.PlaysWhite(ch.Color)
	if err != nil {
		return nil, nil, err
	}
	ng := pvpcheckers.NewGame{Size: checkers.DefaultBoardSize, Starting: checkers.First}
	if size, ok := checkers.ParseBoardSize(ch.Size); ok {
		ng.Size = size
	}
	if challengerWhite {
		ng.WhiteID, ng.WhiteName = ch.ChallengerID, ch.ChallengerName
		ng.RedID, ng.RedName = targetID, strings.TrimSpace(targetName)
	} else {
		ng.WhiteID, ng.WhiteName = targetID, strings.TrimSpace(targetName)
		ng.RedID, ng.RedName = ch.ChallengerID, ch.ChallengerName
	}
	g, err := m.games.CreateGame(ctx, ng)
	if err != nil {
		return nil, nil, err
	}
	ch.Status = StatusAccepted
	ch.TargetName = strings.TrimSpace(targetName)
	ch.GameID = g.ID
	obslog.L().Info("challenge_accept", zap.String("id", ch.ID), zap.String("game_id", g.ID))
	return ch, g, nil
}

func (m *Manager) Decline(targetID string) (*Challenge, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, ErrInvalidArgs
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.expire(targetID)
	if idx := latestPendingIndex(list); idx >= 0 {
		ch := list[idx]
		ch.Status = StatusDeclined
		return ch, nil
	}
	return nil, ErrNoPendingForUser
}

// Pending returns the target's open challenge, or nil.
func (m *Manager) Pending(targetID string) *Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.expire(strings.TrimSpace(targetID))
	if idx := latestPendingIndex(list); idx >= 0 {
		c := *list[idx]
		return &c
	}
	return nil
}

// expire marks stale pending challenges and drops resolved ones. Caller holds mu.
func (m *Manager) expire(targetID string) []*Challenge {
	list := m.byTarget[targetID]
	cutoff := m.now().Add(-m.ttl)
	kept := list[:0]
	for _, ch := range list {
		if ch.Status == StatusPending && ch.CreatedAt.Before(cutoff) {
			ch.Status = StatusExpired
		}
		if ch.Status == StatusPending {
			kept = append(kept, ch)
		}
	}
	if len(kept) == 0 {
		delete(m.byTarget, targetID)
		return nil
	}
	m.byTarget[targetID] = kept
	return kept
}

func latestPendingIndex(list []*Challenge) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Status == StatusPending {
			return i
		}
	}
	return -1
}

func (m *Manager) nextID() string {
	n := atomic.AddUint64(&m.seq, 1)
	return fmt.Sprintf("ch-%d-%d", m.now().UnixNano(), n)
}
