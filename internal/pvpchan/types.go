package pvpchan

import "time"

// ChannelState represents the lifecycle of a lobby channel.
type ChannelState string

const (
	StateLobby    ChannelState = "LOBBY"
	StateActive   ChannelState = "ACTIVE"
	StateFinished ChannelState = "FINISHED"
)

// ColorChoice is the creator's side preference.
type ColorChoice string

const (
	ColorWhite  ColorChoice = "white"
	ColorRed    ColorChoice = "red"
	ColorRandom ColorChoice = "random"
)

// ParseColorChoice maps free text to a preference; anything unknown is random.
func ParseColorChoice(s string) ColorChoice {
	switch s {
	case "white", "w", "W":
		return ColorWhite
	case "red", "r", "R":
		return ColorRed
	}
	return ColorRandom
}

// ChannelMeta is stored as JSON in Redis under ck:<code>.
type ChannelMeta struct {
	ID        string       `json:"id"`
	State     ChannelState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	Size      string       `json:"size"`
	Color     ColorChoice  `json:"color"`

	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`

	WhiteID   string `json:"white_id,omitempty"`
	WhiteName string `json:"white_name,omitempty"`
	RedID     string `json:"red_id,omitempty"`
	RedName   string `json:"red_name,omitempty"`

	GameID string `json:"game_id,omitempty"`
}

type MakeResult struct {
	Code string
	Meta *ChannelMeta
}

type JoinResult struct {
	Started bool
	GameID  string
	Meta    *ChannelMeta
}

var (
	ErrInvalidArgs     = errf("invalid arguments")
	ErrChannelGone     = errf("channel not found or expired")
	ErrChannelActive   = errf("channel already active")
	ErrFull            = errf("channel already has two participants")
	ErrPlayerBusy      = errf("player has an active game")
	ErrCreatorHasLobby = errf("user already has a lobby")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }
