package pvp

import (
	"errors"
	"time"

	"github.com/park285/checkers-link/internal/pvpchan"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
	StatusExpired  Status = "EXPIRED"
)

// Challenge is a direct game offer from one user to another.
type Challenge struct {
	ID             string
	ChallengerID   string
	ChallengerName string
	TargetID       string
	TargetName     string
	Size           string
	Color          pvpchan.ColorChoice
	CreatedAt      time.Time
	Status         Status
	GameID         string
}

var (
	ErrInvalidArgs      = errors.New("invalid arguments")
	ErrSelfChallenge    = errors.New("cannot challenge yourself")
	ErrAlreadyPending   = errors.New("target already has a pending challenge")
	ErrNoPendingForUser = errors.New("no pending challenge for target user")
)
