package pvpcheckers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/obslog"
	"github.com/park285/checkers-link/internal/render"
)

const defaultGameTTL = 24 * time.Hour

type Manager struct {
	rdb      *redis.Client
	renderer render.BoardRenderer
	archive  *Archive
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Manager)

// WithTTL sets how long games and user indexes live in Redis.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

func WithRenderer(r render.BoardRenderer) Option {
	return func(m *Manager) { m.renderer = r }
}

// WithArchive stores finished games in a SQL result archive.
func WithArchive(a *Archive) Option {
	return func(m *Manager) { m.archive = a }
}

// NewManager connects to redisURL and pings it.
func NewManager(redisURL string, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for PvP manager")
	}
	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewManagerWithClient(rdb, opts...), nil
}

// NewManagerWithClient wraps an existing client, e.g. one shared with the lobby.
func NewManagerWithClient(rdb *redis.Client, opts ...Option) *Manager {
	m := &Manager{
		rdb:      rdb,
		renderer: render.NewPNGRenderer(64),
		ttl:      defaultGameTTL,
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

// CreateGame starts a match between two users who are not already playing.
func (m *Manager) CreateGame(ctx context.Context, ng NewGame) (*Game, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrNotInitialized
	}
	whiteID, redID := strings.TrimSpace(ng.WhiteID), strings.TrimSpace(ng.RedID)
	if whiteID == "" || redID == "" || whiteID == redID {
		return nil, fmt.Errorf("invalid participants")
	}
	for _, id := range []string{whiteID, redID} {
		g, err := m.GetActiveGameByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if g != nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyPlaying, id)
		}
	}

	tok := checkers.NewSession(ng.Size, ng.Starting).ToToken()
	now := m.now()
	g := &Game{
		ID:        uuid.NewString(),
		Board:     tok.Board,
		Size:      tok.Size,
		Set:       tok.Set,
		Moves:     []Move{},
		Status:    StatusActive,
		WhiteID:   whiteID,
		WhiteName: strings.TrimSpace(ng.WhiteName),
		RedID:     redID,
		RedName:   strings.TrimSpace(ng.RedName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.save(ctx, g); err != nil {
		return nil, err
	}
	if err := m.indexParticipants(ctx, g.ID, g.WhiteID, g.RedID); err != nil {
		return nil, err
	}
	obslog.L().Info("pvp_game_create",
		zap.String("game_id", g.ID),
		zap.String("size", g.Size),
		zap.String("white_id", g.WhiteID),
		zap.String("red_id", g.RedID),
	)
	return g, nil
}

// GetActiveGameByUser returns the latest active game for a user, or nil.
func (m *Manager) GetActiveGameByUser(ctx context.Context, userID string) (*Game, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	ids, err := m.rdb.SMembers(ctx, idxUserKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var list []*Game
	for _, id := range ids {
		g, gerr := m.get(ctx, id)
		if gerr == nil && g != nil && g.Status == StatusActive {
			list = append(list, g)
		}
	}
	if len(list) == 0 {
		return nil, nil
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list[0], nil
}

// PlayMove applies from→to for the requesting user inside a WATCH
// transaction on the game key. A rules violation comes back as the
// checkers error with the unchanged game; a write that lost the race
// returns ErrConcurrent.
func (m *Manager) PlayMove(ctx context.Context, userID string, from, to checkers.Cell) (*Game, checkers.Outcome, error) {
	userID = strings.TrimSpace(userID)
	g, err := m.GetActiveGameByUser(ctx, userID)
	if err != nil {
		return nil, checkers.Illegal, err
	}
	if g == nil {
		return nil, checkers.Illegal, ErrNoGame
	}

	gameK := gameKey(g.ID)
	version := g.Version
	out := checkers.Illegal

	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := m.getTx(ctx, tx, gameK)
		if err != nil {
			return err
		}
		if cur.Status != StatusActive {
			return ErrNotActive
		}
		if cur.Version != version {
			return redis.TxFailedErr
		}
		team, ok := cur.TeamOf(userID)
		if !ok {
			return ErrNotParticipant
		}
		s, err := cur.Session()
		if err != nil {
			return err
		}
		if s.ActiveTeam() != team {
			return ErrNotYourTurn
		}
		o, err := s.AttemptMove(from, to)
		if err != nil {
			return err
		}
		out = o
		m.advance(cur, s, team, from, to, o)

		raw, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		pipe := tx.TxPipeline()
		pipe.Set(ctx, gameK, raw, m.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		g = cur
		return nil
	}, gameK)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return g, checkers.Illegal, ErrConcurrent
		}
		return g, checkers.Illegal, err
	}

	obslog.L().Info("pvp_move",
		zap.String("game_id", g.ID),
		zap.String("user_id", userID),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("outcome", out.String()),
		zap.String("set", g.Set),
		zap.String("status", string(g.Status)),
	)
	if g.Status == StatusFinished {
		_ = m.persistIfFinal(ctx, g, "no_moves")
	}
	return g, out, nil
}

// advance writes the session state after a legal move back into g.
func (m *Manager) advance(g *Game, s *checkers.Session, team checkers.Team, from, to checkers.Cell, o checkers.Outcome) {
	tok := s.ToToken()
	g.Board = tok.Board
	g.Size = tok.Size
	g.Set = tok.Set
	g.Chain = ""
	if c, ok := s.ChainPiece(); ok {
		g.Chain = c.String()
	}
	g.Moves = append(g.Moves, Move{Team: team.Symbol(), From: from.String(), To: to.String(), Outcome: o.String()})
	g.Version++
	g.UpdatedAt = m.now()
	if w, ok := s.Winner(); ok {
		g.Status = StatusFinished
		g.Winner, _ = g.PlayerOf(w)
		g.Outcome = w.String()
	}
}

// Resign ends the user's active game in the opponent's favour.
func (m *Manager) Resign(ctx context.Context, userID string) (*Game, error) {
	userID = strings.TrimSpace(userID)
	g, err := m.GetActiveGameByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNoGame
	}
	gameK := gameKey(g.ID)
	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := m.getTx(ctx, tx, gameK)
		if err != nil {
			return err
		}
		if cur.Status != StatusActive {
			return ErrNotActive
		}
		cur.Status = StatusResigned
		cur.Winner = opponentID(cur, userID)
		cur.Outcome = "resign"
		cur.Chain = ""
		cur.Version++
		cur.UpdatedAt = m.now()
		raw, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		pipe := tx.TxPipeline()
		pipe.Set(ctx, gameK, raw, m.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		g = cur
		return nil
	}, gameK)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrConcurrent
		}
		return nil, err
	}
	obslog.L().Info("pvp_resign",
		zap.String("game_id", g.ID),
		zap.String("resigner", userID),
		zap.String("winner", g.Winner),
	)
	_ = m.persistIfFinal(ctx, g, "resignation")
	return g, nil
}

// LoadGame returns the game by ID, or nil when it expired or never existed.
func (m *Manager) LoadGame(ctx context.Context, id string) (*Game, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrNotInitialized
	}
	return m.get(ctx, id)
}

// Archive returns the attached result archive, if any.
func (m *Manager) Archive() *Archive {
	if m == nil {
		return nil
	}
	return m.archive
}

func (m *Manager) save(ctx context.Context, g *Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, gameKey(g.ID), raw, m.ttl).Err()
}

func (m *Manager) get(ctx context.Context, id string) (*Game, error) {
	raw, err := m.rdb.Get(ctx, gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *Manager) getTx(ctx context.Context, tx *redis.Tx, key string) (*Game, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNoGame
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *Manager) indexParticipants(ctx context.Context, id string, users ...string) error {
	for _, u := range users {
		if strings.TrimSpace(u) == "" {
			continue
		}
		key := idxUserKey(u)
		if err := m.rdb.SAdd(ctx, key, id).Err(); err != nil {
			return err
		}
		// index lives as long as the newest game
		_ = m.rdb.Expire(ctx, key, m.ttl).Err()
	}
	return nil
}

func gameKey(id string) string        { return "pvp:checkers:game:" + strings.TrimSpace(id) }
func idxUserKey(userID string) string { return "pvp:checkers:index:user:" + strings.TrimSpace(userID) }

func (m *Manager) persistIfFinal(ctx context.Context, g *Game, method string) error {
	if m == nil || m.archive == nil || g == nil {
		return nil
	}
	if g.Status != StatusFinished && g.Status != StatusResigned {
		return nil
	}
	if err := m.archive.SaveResult(ctx, g, method); err != nil {
		obslog.L().Error("pvp_result_persist_error", zap.String("game_id", g.ID), zap.String("outcome", g.Outcome), zap.Error(err))
		return err
	}
	obslog.L().Info("pvp_result_persist", zap.String("game_id", g.ID), zap.String("outcome", g.Outcome), zap.String("method", method))
	return nil
}
