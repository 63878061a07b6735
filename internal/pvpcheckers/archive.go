package pvpcheckers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/park285/checkers-link/internal/checkers"
)

// Archive keeps finished PvP games in a SQL database. Postgres URLs
// (postgres://, postgresql://) use lib/pq; "sqlite:<path>" opens a local
// SQLite file.
type Archive struct {
	db       *sql.DB
	postgres bool
}

// Result is one archived game.
type Result struct {
	GameID     string
	WhiteID    string
	WhiteName  string
	RedID      string
	RedName    string
	Size       string
	Result     string
	Method     string
	FinalBoard string
	Notation   string
	MoveCount  int
	StartedAt  time.Time
	EndedAt    time.Time
	Duration   time.Duration
}

const archiveSchema = `CREATE TABLE IF NOT EXISTS checkers_games (
    game_id       TEXT PRIMARY KEY,
    white_id      TEXT NOT NULL,
    white_name    TEXT NOT NULL,
    red_id        TEXT NOT NULL,
    red_name      TEXT NOT NULL,
    board_size    TEXT NOT NULL,
    result        TEXT NOT NULL,
    result_method TEXT NOT NULL,
    final_board   TEXT NOT NULL,
    moves         TEXT NOT NULL,
    notation      TEXT NOT NULL,
    move_count    INTEGER NOT NULL,
    started_at    BIGINT NOT NULL,
    ended_at      BIGINT NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

func OpenArchive(ctx context.Context, databaseURL string) (*Archive, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	driver, dsn, postgres := "", databaseURL, false
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		driver, postgres = "postgres", true
	case strings.HasPrefix(databaseURL, "sqlite:"):
		driver, dsn = "sqlite", strings.TrimPrefix(databaseURL, "sqlite:")
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", databaseURL)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if postgres {
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)
	} else {
		db.SetMaxOpenConns(1)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(pctx, archiveSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Archive{db: db, postgres: postgres}, nil
}

func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// rebind turns ? placeholders into $n for Postgres.
func (a *Archive) rebind(q string) string {
	if !a.postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveResult upserts a finished game.
func (a *Archive) SaveResult(ctx context.Context, g *Game, method string) error {
	if a == nil || a.db == nil || g == nil {
		return nil
	}
	movesRaw, err := json.Marshal(g.Moves)
	if err != nil {
		return err
	}
	duration := g.UpdatedAt.Sub(g.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO checkers_games (
        game_id, white_id, white_name, red_id, red_name,
        board_size, result, result_method, final_board, moves, notation,
        move_count, started_at, ended_at, duration_ms
      ) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
      ON CONFLICT (game_id) DO UPDATE SET
        white_id=excluded.white_id,
        white_name=excluded.white_name,
        red_id=excluded.red_id,
        red_name=excluded.red_name,
        board_size=excluded.board_size,
        result=excluded.result,
        result_method=excluded.result_method,
        final_board=excluded.final_board,
        moves=excluded.moves,
        notation=excluded.notation,
        move_count=excluded.move_count,
        started_at=excluded.started_at,
        ended_at=excluded.ended_at,
        duration_ms=excluded.duration_ms`

	_, err = a.db.ExecContext(ctx, a.rebind(q),
		g.ID,
		g.WhiteID, g.WhiteName,
		g.RedID, g.RedName,
		g.Size, resultOf(g), strings.TrimSpace(method), g.Board, string(movesRaw), Notation(g.Moves),
		len(g.Moves), g.CreatedAt.UTC().UnixMilli(), g.UpdatedAt.UTC().UnixMilli(), duration,
	)
	return err
}

// Results lists the most recent archived games of a user.
func (a *Archive) Results(ctx context.Context, userID string, limit int) ([]Result, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := `SELECT game_id, white_id, white_name, red_id, red_name, board_size,
        result, result_method, final_board, notation, move_count,
        started_at, ended_at, duration_ms
      FROM checkers_games
      WHERE white_id = ? OR red_id = ?
      ORDER BY ended_at DESC
      LIMIT ?`
	rows, err := a.db.QueryContext(ctx, a.rebind(q), userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			r                  Result
			started, ended, ms int64
		)
		if err := rows.Scan(&r.GameID, &r.WhiteID, &r.WhiteName, &r.RedID, &r.RedName, &r.Size,
			&r.Result, &r.Method, &r.FinalBoard, &r.Notation, &r.MoveCount,
			&started, &ended, &ms); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		r.EndedAt = time.UnixMilli(ended).UTC()
		r.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// resultOf names the winning side: "white", "red" or "" when unknown.
func resultOf(g *Game) string {
	switch {
	case g.Winner != "" && g.Winner == g.WhiteID:
		return checkers.First.String()
	case g.Winner != "" && g.Winner == g.RedID:
		return checkers.Second.String()
	}
	return ""
}

// Notation renders moves as numbered turns. A capture chain is one turn
// written as from x to x to.
func Notation(moves []Move) string {
	var turns []string
	chained := false
	for _, mv := range moves {
		sep := "-"
		if mv.Outcome != checkers.Moved.String() {
			sep = "x"
		}
		if chained && len(turns) > 0 {
			turns[len(turns)-1] += sep + mv.To
		} else {
			turns = append(turns, mv.From+sep+mv.To)
		}
		chained = mv.Outcome == checkers.CapturedMustContinue.String()
	}
	var b strings.Builder
	for i := 0; i < len(turns); i += 2 {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d. %s", i/2+1, turns[i])
		if i+1 < len(turns) {
			b.WriteString(" " + turns[i+1])
		}
	}
	return b.String()
}
