package services

import "errors"

// Validation and business-rule errors surfaced to the HTTP layer. Handlers
// map these to status codes in one place.
var (
	// Game validation.
	ErrScoreNegative     = errors.New("scores cannot be negative")
	ErrScoreTooHigh      = errors.New("maximum score is 11")
	ErrDrawNotAllowed    = errors.New("draw games are not allowed, one team must win")
	ErrTeamEmpty         = errors.New("both teams need at least one player")
	ErrPlayerOnBothTeams = errors.New("a player cannot play against themselves")
	ErrInvalidGameType   = errors.New("invalid game type")
	ErrGameStartRequired = errors.New("game start time is required")

	// Game immutability.
	ErrGameTournamentLocked = errors.New("game is part of a tournament and cannot be changed")
	ErrGameTooOld           = errors.New("games outside the edit window cannot be changed")

	// Players.
	ErrPlayerNameRequired    = errors.New("player name is required")
	ErrAvatarStorageDisabled = errors.New("avatar storage is not configured")
	ErrUnsupportedAvatarType = errors.New("unsupported avatar content type")

	// Tournaments.
	ErrTournamentNameRequired  = errors.New("tournament name is required")
	ErrNotEnoughPlayers        = errors.New("at least 2 players are required")
	ErrDuplicateTournamentSeed = errors.New("duplicate player in tournament selection")
	ErrMatchAlreadyCompleted   = errors.New("match already completed")
	ErrMatchNotReady           = errors.New("match is not ready, a player slot is still open")
	ErrTournamentCompleted     = errors.New("tournament is already completed")

	// Auth.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
