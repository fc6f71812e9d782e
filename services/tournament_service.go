package services

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/foosdev/foosball-tracker/brackets"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// TournamentService runs single-elimination tournaments: seed draw, bracket
// generation, match results, and winner advancement. Every match result
// produces a regular 1v1 game that feeds ratings and cakes like any other;
// that game is owned by its match and immutable afterwards.
type TournamentService struct {
	db          *sql.DB
	tournaments repositories.TournamentRepository
	players     repositories.PlayerRepository
	seasons     *SeasonService
	games       *GameService
	leaderboard *LeaderboardService
	hub         *brackets.Hub
	logger      *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournaments repositories.TournamentRepository,
	players repositories.PlayerRepository,
	seasons *SeasonService,
	games *GameService,
	leaderboard *LeaderboardService,
	hub *brackets.Hub,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		db:          db,
		tournaments: tournaments,
		players:     players,
		seasons:     seasons,
		games:       games,
		leaderboard: leaderboard,
		hub:         hub,
		logger:      logger,
	}
}

// CreateTournament draws random seeds for the given players, generates the
// full bracket with byes resolved, and activates the tournament, all in one
// transaction.
func (s *TournamentService) CreateTournament(ctx context.Context, name string, playerIDs []int) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if len(playerIDs) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	seen := make(map[int]bool, len(playerIDs))
	for _, id := range playerIDs {
		if seen[id] {
			return nil, ErrDuplicateTournamentSeed
		}
		seen[id] = true
		if _, err := s.players.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	seeded := append([]int(nil), playerIDs...)
	rand.Shuffle(len(seeded), func(i, j int) { seeded[i], seeded[j] = seeded[j], seeded[i] })

	bracket, err := brackets.GenerateSingleElimination(seeded)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{Name: name, Status: models.TournamentStatusSetup}
	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournaments.Create(ctx, tx, tournament); err != nil {
			return err
		}
		for i, playerID := range seeded {
			participant := &models.TournamentParticipant{
				TournamentID: tournament.ID,
				PlayerID:     playerID,
				Seed:         i + 1,
			}
			if err := s.tournaments.CreateParticipant(ctx, tx, participant); err != nil {
				return err
			}
		}

		// Persist final-first so every next_match_id already exists when the
		// match referencing it is inserted.
		matchIDs := make(map[*brackets.Match]int, len(bracket.Matches))
		for i := len(bracket.Matches) - 1; i >= 0; i-- {
			node := bracket.Matches[i]
			row := &models.TournamentMatch{
				TournamentID: tournament.ID,
				RoundNumber:  node.Round,
				MatchNumber:  node.Number,
				Player1ID:    node.Player1ID,
				Player2ID:    node.Player2ID,
				WinnerID:     node.WinnerID,
			}
			if node.Next != nil {
				nextID := matchIDs[node.Next]
				row.NextMatchID = &nextID
			}
			if err := s.tournaments.CreateMatch(ctx, tx, row); err != nil {
				return err
			}
			matchIDs[node] = row.ID
		}

		now := time.Now().UTC()
		tournament.Status = models.TournamentStatusActive
		tournament.StartedAt = &now
		return s.tournaments.UpdateStatus(ctx, tx, tournament)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.Int("players", len(seeded)),
		slog.Int("rounds", bracket.Rounds))
	return s.GetTournament(ctx, tournament.ID)
}

// GetTournament loads a tournament with its participants and matches.
// Elimination is derived: a participant who lost any decided match is out.
func (s *TournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	participants, err := s.tournaments.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.tournaments.ListMatches(ctx, id)
	if err != nil {
		return nil, err
	}

	eliminated := make(map[int]bool)
	for _, m := range matches {
		if !m.Decided() {
			continue
		}
		if m.Player1ID != nil && *m.Player1ID != *m.WinnerID {
			eliminated[*m.Player1ID] = true
		}
		if m.Player2ID != nil && *m.Player2ID != *m.WinnerID {
			eliminated[*m.Player2ID] = true
		}
	}
	for i := range participants {
		participants[i].Eliminated = eliminated[participants[i].PlayerID]
	}

	tournament.Participants = participants
	tournament.Matches = matches
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, page, perPage int) ([]*models.Tournament, int, error) {
	limit, offset := normalizePage(page, perPage, 20, 100)
	return s.tournaments.List(ctx, limit, offset)
}

// RecordMatchResult records the score of a ready match. It creates the
// backing 1v1 game with full rating and cake effects, stores the result, and
// moves the winner into the next match's slot; the final completes the
// tournament.
func (s *TournamentService) RecordMatchResult(ctx context.Context, tournamentID, matchID, player1Score, player2Score int) (*models.TournamentMatch, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.TournamentStatusCompleted {
		return nil, ErrTournamentCompleted
	}

	match, err := s.tournaments.GetMatch(ctx, s.db, tournamentID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Decided() {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.Player1ID == nil || match.Player2ID == nil {
		return nil, ErrMatchNotReady
	}
	if player1Score < 0 || player2Score < 0 {
		return nil, ErrScoreNegative
	}
	if player1Score > MaxScore || player2Score > MaxScore {
		return nil, ErrScoreTooHigh
	}
	if player1Score == player2Score {
		return nil, ErrDrawNotAllowed
	}

	winnerID := *match.Player1ID
	if player2Score > player1Score {
		winnerID = *match.Player2ID
	}

	season, err := s.seasons.EnsureCurrentSeason(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	game := buildGame(GameInput{
		GameType:     models.GameType1v1,
		StartTime:    now,
		Team1Players: []int{*match.Player1ID},
		Team2Players: []int{*match.Player2ID},
		Team1Score:   player1Score,
		Team2Score:   player2Score,
	}, season.ID)

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.games.createGameTx(ctx, tx, game); err != nil {
			return err
		}
		if err := s.tournaments.UpdateMatchResult(ctx, tx, match.ID, &winnerID, &game.ID); err != nil {
			return err
		}
		if err := s.advanceWinner(ctx, tx, match, winnerID); err != nil {
			return err
		}
		if match.IsFinal() {
			tournament.Status = models.TournamentStatusCompleted
			tournament.CompletedAt = &now
			return s.tournaments.UpdateStatus(ctx, tx, tournament)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.leaderboard.SnapshotSeason(ctx, season.ID, now); err != nil {
		s.logger.Warn("failed to create daily snapshot",
			slog.Int("game_id", game.ID),
			slog.Int("season_id", season.ID),
			slog.Any("error", err))
	}

	updated, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.EventBracketUpdated, updated)
	s.hub.BroadcastToRoom(brackets.LeaderboardRoom, brackets.EventLeaderboardUpdated, game)
	if updated.Status == models.TournamentStatusCompleted {
		s.hub.BroadcastToRoom(brackets.TournamentRoom(tournamentID), brackets.EventTournamentComplete, updated)
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", tournamentID),
			slog.Int("winner_id", winnerID))
	}

	return s.tournaments.GetMatch(ctx, s.db, tournamentID, matchID)
}

// advanceWinner seats the winner in the next match. The feeder with the lower
// match number fills slot 1; manual results never cascade further.
func (s *TournamentService) advanceWinner(ctx context.Context, tx *sql.Tx, match *models.TournamentMatch, winnerID int) error {
	if match.NextMatchID == nil {
		return nil
	}
	next, err := s.tournaments.GetMatch(ctx, tx, match.TournamentID, *match.NextMatchID)
	if err != nil {
		return err
	}
	feeders, err := s.tournaments.ListFeederMatches(ctx, tx, next.ID)
	if err != nil {
		return err
	}
	if len(feeders) > 0 && feeders[0].ID == match.ID {
		next.Player1ID = &winnerID
	} else {
		next.Player2ID = &winnerID
	}
	return s.tournaments.UpdateMatchPlayers(ctx, tx, next.ID, next.Player1ID, next.Player2ID)
}
