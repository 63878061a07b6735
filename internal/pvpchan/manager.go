package pvpchan

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/obslog"
	"github.com/park285/checkers-link/internal/pvpcheckers"
)

// Manager runs lobbies: a creator opens a code, the second participant to
// join starts a pvpcheckers game.
type Manager struct {
	rdb   *redis.Client
	store *Store
	pvp   *pvpcheckers.Manager
	now   func() time.Time
}

func NewManager(rdb *redis.Client, pvp *pvpcheckers.Manager) *Manager {
	return &Manager{rdb: rdb, store: NewStore(rdb), pvp: pvp, now: time.Now}
}

func (m *Manager) Make(ctx context.Context, userID, userName string, size checkers.BoardSize, color ColorChoice) (*MakeResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidArgs
	}
	if g, _ := m.pvp.GetActiveGameByUser(ctx, userID); g != nil {
		return nil, ErrPlayerBusy
	}
	if has, err := m.hasOpenLobby(ctx, userID); err != nil {
		return nil, err
	} else if has {
		return nil, ErrCreatorHasLobby
	}
	if strings.TrimSpace(userName) == "" {
		userName = userID
	}

	for i := 0; i < 5; i++ {
		c, err := codeGen()
		if err != nil {
			return nil, err
		}
		// claim the code before writing the real meta
		ok, err := m.rdb.SetNX(ctx, m.store.keyMeta(c), []byte("{}"), ttlChannel).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		meta := &ChannelMeta{
			ID:          c,
			State:       StateLobby,
			CreatedAt:   m.now(),
			Size:        size.Symbol(),
			Color:       color,
			CreatorID:   userID,
			CreatorName: strings.TrimSpace(userName),
		}
		if err := m.store.SaveMeta(ctx, c, meta); err != nil {
			return nil, err
		}
		if err := m.store.AddParticipant(ctx, c, userID); err != nil {
			return nil, err
		}
		if err := m.store.AddLobby(ctx, c); err != nil {
			return nil, err
		}
		obslog.L().Info("lobby_make", zap.String("code", c), zap.String("creator_id", userID), zap.String("size", meta.Size))
		return &MakeResult{Code: c, Meta: meta}, nil
	}
	return nil, fmt.Errorf("failed to allocate channel code")
}

func (m *Manager) hasOpenLobby(ctx context.Context, userID string) (bool, error) {
	codes, err := m.store.CodesByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		meta, _ := m.store.LoadMeta(ctx, c)
		if meta != nil && meta.State == StateLobby && meta.CreatorID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Join adds userID to the lobby. The join that brings the lobby to two
// participants assigns sides and starts the game.
func (m *Manager) Join(ctx context.Context, code, userID, userName string) (*JoinResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	userID = strings.TrimSpace(userID)
	if code == "" || userID == "" {
		return nil, ErrInvalidArgs
	}
	if strings.TrimSpace(userName) == "" {
		userName = userID
	}
	meta, err := m.store.LoadMeta(ctx, code)
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.ID == "" {
		return nil, ErrChannelGone
	}
	if meta.State != StateLobby {
		return nil, ErrChannelActive
	}
	if userID != meta.CreatorID {
		if g, _ := m.pvp.GetActiveGameByUser(ctx, userID); g != nil {
			return nil, ErrPlayerBusy
		}
	}

	partKey := m.store.keyParticipants(code)
	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		isMember, err := tx.SIsMember(ctx, partKey, userID).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if isMember {
			return nil
		}
		cnt, err := tx.SCard(ctx, partKey).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if cnt >= 2 {
			return ErrFull
		}
		pipe := tx.TxPipeline()
		pipe.SAdd(ctx, partKey, userID)
		pipe.Expire(ctx, partKey, ttlChannel)
		pipe.SAdd(ctx, m.store.keyUserIdx(userID), code)
		pipe.Expire(ctx, m.store.keyUserIdx(userID), ttlChannel)
		_, pErr := pipe.Exec(ctx)
		return pErr
	}, partKey)
	if err != nil {
		obslog.L().Warn("lobby_join_error", zap.String("code", code), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	cnt, err := m.store.ParticipantCount(ctx, code)
	if err != nil {
		return nil, err
	}
	if cnt < 2 || userID == meta.CreatorID {
		obslog.L().Info("lobby_join", zap.String("code", code), zap.String("user_id", userID), zap.String("reason", "queued"))
		return &JoinResult{Started: false, Meta: meta}, nil
	}

	creatorWhite, err := PlaysWhite(meta.Color)
	if err != nil {
		return nil, err
	}
	ng := pvpcheckers.NewGame{Size: checkers.DefaultBoardSize, Starting: checkers.First}
	if size, ok := checkers.ParseBoardSize(meta.Size); ok {
		ng.Size = size
	}
	if creatorWhite {
		ng.WhiteID, ng.WhiteName = meta.CreatorID, meta.CreatorName
		ng.RedID, ng.RedName = userID, strings.TrimSpace(userName)
	} else {
		ng.WhiteID, ng.WhiteName = userID, strings.TrimSpace(userName)
		ng.RedID, ng.RedName = meta.CreatorID, meta.CreatorName
	}
	g, err := m.pvp.CreateGame(ctx, ng)
	if err != nil {
		return nil, err
	}

	meta.WhiteID, meta.WhiteName = g.WhiteID, g.WhiteName
	meta.RedID, meta.RedName = g.RedID, g.RedName
	meta.State = StateActive
	meta.GameID = g.ID
	if err := m.store.SaveMeta(ctx, code, meta); err != nil {
		return nil, err
	}
	_ = m.store.RemoveLobby(ctx, code)
	obslog.L().Info("lobby_start_game", zap.String("code", code), zap.String("game_id", g.ID), zap.String("white_id", g.WhiteID), zap.String("red_id", g.RedID))
	return &JoinResult{Started: true, GameID: g.ID, Meta: meta}, nil
}

// PlaysWhite resolves a side preference, flipping a coin for random.
func PlaysWhite(c ColorChoice) (bool, error) {
	switch c {
	case ColorWhite:
		return true, nil
	case ColorRed:
		return false, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return false, err
	}
	return n.Int64() == 0, nil
}

// Lobby returns a channel's metadata, or ErrChannelGone.
func (m *Manager) Lobby(ctx context.Context, code string) (*ChannelMeta, error) {
	meta, err := m.store.LoadMeta(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.ID == "" {
		return nil, ErrChannelGone
	}
	return meta, nil
}

// ListLobby returns waiting channels for listing.
func (m *Manager) ListLobby(ctx context.Context) ([]*ChannelMeta, error) { return m.store.ListLobby(ctx) }
