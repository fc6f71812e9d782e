package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/foosdev/foosball-tracker/brackets"
	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// MaxScore is the highest score a foosball game can end with.
const MaxScore = 11

// GameInput carries the user-editable facts of a game.
type GameInput struct {
	GameType     models.GameType `json:"game_type"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
	Team1Players []int           `json:"team1_players"`
	Team2Players []int           `json:"team2_players"`
	Team1Score   int             `json:"team1_score"`
	Team2Score   int             `json:"team2_score"`
}

// GameService owns the game log and the incremental append path: recording a
// game updates ratings and the cake ledger in one transaction, then snapshots
// the day's standings best-effort. Edits and deletes never patch derived
// state incrementally; they hand the affected seasons to the recalculation
// service.
type GameService struct {
	db          *sql.DB
	games       repositories.GameRepository
	players     repositories.PlayerRepository
	tournaments repositories.TournamentRepository
	audit       repositories.AuditRepository
	seasons     *SeasonService
	cakes       *CakeService
	leaderboard *LeaderboardService
	recalc      *RecalculationService
	hub         *brackets.Hub
	editWindow  time.Duration
	logger      *slog.Logger
}

func NewGameService(
	db *sql.DB,
	games repositories.GameRepository,
	players repositories.PlayerRepository,
	tournaments repositories.TournamentRepository,
	audit repositories.AuditRepository,
	seasons *SeasonService,
	cakes *CakeService,
	leaderboard *LeaderboardService,
	recalc *RecalculationService,
	hub *brackets.Hub,
	editWindow time.Duration,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		db:          db,
		games:       games,
		players:     players,
		tournaments: tournaments,
		audit:       audit,
		seasons:     seasons,
		cakes:       cakes,
		leaderboard: leaderboard,
		recalc:      recalc,
		hub:         hub,
		editWindow:  editWindow,
		logger:      logger,
	}
}

func validateGameInput(input GameInput) error {
	if !input.GameType.Valid() {
		return ErrInvalidGameType
	}
	if input.StartTime.IsZero() {
		return ErrGameStartRequired
	}
	if input.Team1Score < 0 || input.Team2Score < 0 {
		return ErrScoreNegative
	}
	if input.Team1Score > MaxScore || input.Team2Score > MaxScore {
		return ErrScoreTooHigh
	}
	if input.Team1Score == input.Team2Score {
		return ErrDrawNotAllowed
	}
	if len(input.Team1Players) == 0 || len(input.Team2Players) == 0 {
		return ErrTeamEmpty
	}
	team1 := make(map[int]bool, len(input.Team1Players))
	for _, id := range input.Team1Players {
		team1[id] = true
	}
	for _, id := range input.Team2Players {
		if team1[id] {
			return ErrPlayerOnBothTeams
		}
	}
	return nil
}

func buildGame(input GameInput, seasonID int) *models.Game {
	game := &models.Game{
		SeasonID:   seasonID,
		GameType:   input.GameType,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
	}
	// A recorded end time equal to the start carries no information.
	if game.EndTime != nil && game.EndTime.Equal(game.StartTime) {
		game.EndTime = nil
	}
	team1Wins := input.Team1Score > input.Team2Score
	for _, id := range input.Team1Players {
		game.Participants = append(game.Participants, models.GamePlayer{
			PlayerID: id, Team: 1, IsWinner: team1Wins,
		})
	}
	for _, id := range input.Team2Players {
		game.Participants = append(game.Participants, models.GamePlayer{
			PlayerID: id, Team: 2, IsWinner: !team1Wins,
		})
	}
	return game
}

// RecordGame validates and persists a new game, applying its rating deltas
// and any cake debt in the same transaction. The daily snapshot afterwards is
// best-effort: a failure there is logged and repaired by the next
// recalculation, never failing the recorded game.
func (s *GameService) RecordGame(ctx context.Context, input GameInput) (*models.Game, error) {
	if err := validateGameInput(input); err != nil {
		return nil, err
	}
	if _, err := s.seasons.EnsureCurrentSeason(ctx); err != nil {
		return nil, err
	}
	season, err := s.seasons.SeasonForDate(ctx, input.StartTime)
	if err != nil {
		return nil, err
	}

	game := buildGame(input, season.ID)
	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.createGameTx(ctx, tx, game)
	}); err != nil {
		return nil, err
	}

	s.snapshotBestEffort(ctx, game)
	s.hub.BroadcastToRoom(brackets.LeaderboardRoom, brackets.EventLeaderboardUpdated, game)

	return s.GetGame(ctx, game.ID)
}

// createGameTx runs the append-one-game path inside the caller's
// transaction: ELO against current stored ratings, participant deltas, and
// the cake ledger. The tournament flow reuses it for games created from
// match results.
func (s *GameService) createGameTx(ctx context.Context, tx *sql.Tx, game *models.Game) error {
	involved := make([]*models.Player, 0, len(game.Participants))
	for _, gp := range game.Participants {
		player, err := s.players.GetByID(ctx, gp.PlayerID)
		if err != nil {
			return err
		}
		involved = append(involved, player)
	}

	book := engine.NewRatingBookFromPlayers(involved)
	if err := book.ApplyGame(game); err != nil {
		return err
	}

	if err := s.games.Create(ctx, tx, game); err != nil {
		return err
	}
	for _, player := range involved {
		book.WriteTo(player)
		if err := s.players.UpdateRatings(ctx, tx, player); err != nil {
			return err
		}
	}
	if game.IsShutout() {
		if err := s.cakes.ApplyShutout(ctx, tx, game); err != nil {
			return err
		}
	}
	return nil
}

func (s *GameService) snapshotBestEffort(ctx context.Context, game *models.Game) {
	if err := s.leaderboard.SnapshotSeason(ctx, game.SeasonID, game.StartTime); err != nil {
		s.logger.Warn("failed to create daily snapshot",
			slog.Int("game_id", game.ID),
			slog.Int("season_id", game.SeasonID),
			slog.Any("error", err))
	}
}

// checkEditable enforces the immutability rules: tournament-linked games and
// games older than the edit window are frozen.
func (s *GameService) checkEditable(ctx context.Context, game *models.Game) error {
	_, err := s.tournaments.GetMatchByGameID(ctx, game.ID)
	if err == nil {
		return ErrGameTournamentLocked
	}
	if !errors.Is(err, repositories.ErrTournamentMatchNotFound) {
		return err
	}
	if game.StartTime.Before(time.Now().UTC().Add(-s.editWindow)) {
		return ErrGameTooOld
	}
	return nil
}

// UpdateGame rewrites a game's facts, records an audit entry, and rebuilds
// all derived state for every affected season. When the new start time moves
// the game across a season boundary both the old and the new season are
// recalculated; seasons the game never belonged to cannot be affected since
// every season replay starts from the baseline.
func (s *GameService) UpdateGame(ctx context.Context, gameID int, input GameInput, editorIP string) (*models.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEditable(ctx, game); err != nil {
		return nil, err
	}
	if err := validateGameInput(input); err != nil {
		return nil, err
	}

	oldSeasonID := game.SeasonID
	newSeason, err := s.seasons.SeasonForDate(ctx, input.StartTime)
	if err != nil {
		return nil, err
	}

	entry, err := buildAuditEntry(game, input, editorIP)
	if err != nil {
		return nil, err
	}

	updated := buildGame(input, newSeason.ID)
	updated.ID = game.ID
	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.games.Update(ctx, tx, updated); err != nil {
			return err
		}
		return s.audit.Create(ctx, tx, entry)
	}); err != nil {
		return nil, err
	}

	if err := s.recalc.RecalculateSeason(ctx, oldSeasonID); err != nil {
		return nil, err
	}
	if newSeason.ID != oldSeasonID {
		if err := s.recalc.RecalculateSeason(ctx, newSeason.ID); err != nil {
			return nil, err
		}
	}

	s.hub.BroadcastToRoom(brackets.LeaderboardRoom, brackets.EventLeaderboardUpdated, updated)
	return s.GetGame(ctx, gameID)
}

// DeleteGame removes a game under the same immutability rules as editing and
// rebuilds its season's derived state.
func (s *GameService) DeleteGame(ctx context.Context, gameID int) error {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return err
	}
	if err := s.checkEditable(ctx, game); err != nil {
		return err
	}

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.games.Delete(ctx, tx, gameID)
	}); err != nil {
		return err
	}
	return s.recalc.RecalculateSeason(ctx, game.SeasonID)
}

func (s *GameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.tournaments.GetMatchByGameID(ctx, id); err == nil {
		game.TournamentLocked = true
	} else if !errors.Is(err, repositories.ErrTournamentMatchNotFound) {
		return nil, err
	}
	return game, nil
}

// ListGames returns a page of games newest first, with tournament-linked
// games flagged as locked.
func (s *GameService) ListGames(ctx context.Context, page, perPage int) ([]*models.Game, int, error) {
	limit, offset := normalizePage(page, perPage, 20, 100)
	games, total, err := s.games.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	linked, err := s.tournaments.LinkedGameIDs(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, game := range games {
		game.TournamentLocked = linked[game.ID]
	}
	return games, total, nil
}

func (s *GameService) GameAuditLog(ctx context.Context, gameID int) ([]*models.GameAuditLog, error) {
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		return nil, err
	}
	return s.audit.ListByGame(ctx, gameID)
}

type auditTeams struct {
	Team1 []int `json:"team1"`
	Team2 []int `json:"team2"`
}

type auditState struct {
	Scores   map[string]int  `json:"scores"`
	Players  auditTeams      `json:"players"`
	GameType models.GameType `json:"game_type"`
	Start    time.Time       `json:"start_time"`
	End      *time.Time      `json:"end_time,omitempty"`
}

func auditStateOfGame(game *models.Game) auditState {
	team1, team2 := game.TeamPlayerIDs()
	sort.Ints(team1)
	sort.Ints(team2)
	return auditState{
		Scores:   map[string]int{"team1": game.Team1Score, "team2": game.Team2Score},
		Players:  auditTeams{Team1: team1, Team2: team2},
		GameType: game.GameType,
		Start:    game.StartTime,
		End:      game.EndTime,
	}
}

func auditStateOfInput(input GameInput) auditState {
	team1 := append([]int(nil), input.Team1Players...)
	team2 := append([]int(nil), input.Team2Players...)
	sort.Ints(team1)
	sort.Ints(team2)
	return auditState{
		Scores:   map[string]int{"team1": input.Team1Score, "team2": input.Team2Score},
		Players:  auditTeams{Team1: team1, Team2: team2},
		GameType: input.GameType,
		Start:    input.StartTime,
		End:      input.EndTime,
	}
}

// buildAuditEntry captures a JSON before/after diff and a short summary of
// what changed.
func buildAuditEntry(game *models.Game, input GameInput, editorIP string) (*models.GameAuditLog, error) {
	before := auditStateOfGame(game)
	after := auditStateOfInput(input)

	changes, err := json.Marshal(map[string]auditState{"before": before, "after": after})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit changes: %w", err)
	}

	var parts []string
	if before.Scores["team1"] != after.Scores["team1"] || before.Scores["team2"] != after.Scores["team2"] {
		parts = append(parts, fmt.Sprintf("score %d-%d to %d-%d",
			before.Scores["team1"], before.Scores["team2"],
			after.Scores["team1"], after.Scores["team2"]))
	}
	if !equalIntSlices(before.Players.Team1, after.Players.Team1) || !equalIntSlices(before.Players.Team2, after.Players.Team2) {
		parts = append(parts, "changed lineup")
	}
	if before.GameType != after.GameType {
		parts = append(parts, fmt.Sprintf("type %s to %s", before.GameType, after.GameType))
	}
	if !before.Start.Equal(after.Start) {
		parts = append(parts, "moved start time")
	}
	summary := "no visible changes"
	if len(parts) > 0 {
		summary = strings.Join(parts, "; ")
	}

	entry := &models.GameAuditLog{
		GameID:  game.ID,
		Changes: string(changes),
		Summary: summary,
	}
	if editorIP != "" {
		entry.EditorIP = &editorIP
	}
	return entry, nil
}

func equalIntSlices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
