package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

var gameStart = time.Date(2026, time.February, 10, 17, 30, 0, 0, time.UTC)

func validInput() GameInput {
	return GameInput{
		GameType:     models.GameType2v2,
		StartTime:    gameStart,
		Team1Players: []int{1, 2},
		Team2Players: []int{3, 4},
		Team1Score:   10,
		Team2Score:   7,
	}
}

func TestValidateGameInput(t *testing.T) {
	assert.NoError(t, validateGameInput(validInput()))

	cases := []struct {
		name   string
		mutate func(*GameInput)
		want   error
	}{
		{"bad type", func(in *GameInput) { in.GameType = "3v3" }, ErrInvalidGameType},
		{"zero start", func(in *GameInput) { in.StartTime = time.Time{} }, ErrGameStartRequired},
		{"negative score", func(in *GameInput) { in.Team2Score = -1 }, ErrScoreNegative},
		{"score above cap", func(in *GameInput) { in.Team1Score = 12 }, ErrScoreTooHigh},
		{"draw", func(in *GameInput) { in.Team2Score = in.Team1Score }, ErrDrawNotAllowed},
		{"empty team", func(in *GameInput) { in.Team2Players = nil }, ErrTeamEmpty},
		{"overlap", func(in *GameInput) { in.Team2Players = []int{2, 3} }, ErrPlayerOnBothTeams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			assert.ErrorIs(t, validateGameInput(input), tc.want)
		})
	}
}

func TestBuildGameAssignsWinners(t *testing.T) {
	input := validInput()
	game := buildGame(input, 7)

	assert.Equal(t, 7, game.SeasonID)
	require.Len(t, game.Participants, 4)
	for _, gp := range game.Participants {
		if gp.Team == 1 {
			assert.True(t, gp.IsWinner)
		} else {
			assert.False(t, gp.IsWinner)
		}
	}
}

func TestBuildGameDropsMeaninglessEndTime(t *testing.T) {
	input := validInput()
	end := input.StartTime
	input.EndTime = &end

	game := buildGame(input, 1)
	assert.Nil(t, game.EndTime)

	later := input.StartTime.Add(20 * time.Minute)
	input.EndTime = &later
	game = buildGame(input, 1)
	require.NotNil(t, game.EndTime)
	assert.Equal(t, later, *game.EndTime)
}

func TestBuildAuditEntrySummarizesChanges(t *testing.T) {
	game := buildGame(validInput(), 1)
	game.ID = 42

	input := validInput()
	input.Team1Score = 10
	input.Team2Score = 3
	input.Team2Players = []int{3, 5}

	entry, err := buildAuditEntry(game, input, "10.0.0.5")
	require.NoError(t, err)

	assert.Equal(t, 42, entry.GameID)
	require.NotNil(t, entry.EditorIP)
	assert.Equal(t, "10.0.0.5", *entry.EditorIP)
	assert.Contains(t, entry.Summary, "score 10-7 to 10-3")
	assert.Contains(t, entry.Summary, "changed lineup")
	assert.Contains(t, entry.Changes, `"before"`)
	assert.Contains(t, entry.Changes, `"after"`)
}

func TestBuildAuditEntryLineupOrderInsensitive(t *testing.T) {
	game := buildGame(validInput(), 1)

	input := validInput()
	input.Team1Players = []int{2, 1} // same lineup, different order

	entry, err := buildAuditEntry(game, input, "")
	require.NoError(t, err)

	assert.NotContains(t, entry.Summary, "changed lineup")
	assert.Nil(t, entry.EditorIP)
}

// stubTournamentRepo answers GetMatchByGameID from a fixed map; everything
// else is inherited from the embedded nil interface and would panic if
// reached.
type stubTournamentRepo struct {
	repositories.TournamentRepository
	matchByGame map[int]*models.TournamentMatch
}

func (s *stubTournamentRepo) GetMatchByGameID(_ context.Context, gameID int) (*models.TournamentMatch, error) {
	if match, ok := s.matchByGame[gameID]; ok {
		return match, nil
	}
	return nil, repositories.ErrTournamentMatchNotFound
}

func TestCheckEditableImmutabilityRules(t *testing.T) {
	svc := &GameService{
		tournaments: &stubTournamentRepo{matchByGame: map[int]*models.TournamentMatch{
			7: {ID: 1, TournamentID: 3},
		}},
		editWindow: 7 * 24 * time.Hour,
	}
	ctx := context.Background()
	now := time.Now().UTC()

	linked := &models.Game{ID: 7, StartTime: now.Add(-time.Hour)}
	assert.ErrorIs(t, svc.checkEditable(ctx, linked), ErrGameTournamentLocked)

	tooOld := &models.Game{ID: 8, StartTime: now.Add(-8 * 24 * time.Hour)}
	assert.ErrorIs(t, svc.checkEditable(ctx, tooOld), ErrGameTooOld)

	recent := &models.Game{ID: 9, StartTime: now.Add(-3 * 24 * time.Hour)}
	assert.NoError(t, svc.checkEditable(ctx, recent))
}

func TestCheckEditableTournamentLockBeatsAge(t *testing.T) {
	// A tournament-linked game stays locked for that reason even once it is
	// also past the edit window.
	svc := &GameService{
		tournaments: &stubTournamentRepo{matchByGame: map[int]*models.TournamentMatch{
			7: {ID: 1, TournamentID: 3},
		}},
		editWindow: 7 * 24 * time.Hour,
	}

	stale := &models.Game{ID: 7, StartTime: time.Now().UTC().Add(-30 * 24 * time.Hour)}
	assert.ErrorIs(t, svc.checkEditable(context.Background(), stale), ErrGameTournamentLocked)
}

func TestNormalizePage(t *testing.T) {
	limit, offset := normalizePage(1, 20, 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = normalizePage(3, 10, 20, 100)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, offset = normalizePage(0, -5, 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, _ = normalizePage(1, 500, 20, 100)
	assert.Equal(t, 100, limit)
}

func TestExtensionForContentType(t *testing.T) {
	ext, err := extensionForContentType("image/png")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	ext, err = extensionForContentType("image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, ".svg", ext)

	_, err = extensionForContentType("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedAvatarType)
}
