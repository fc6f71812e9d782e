package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foosdev/foosball-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentMatchNotFound = errors.New("tournament match not found")
	ErrTournamentPlayerInvalid = errors.New("tournament references an unknown player")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, t *models.Tournament) error

	CreateParticipant(ctx context.Context, exec SQLExecutor, p *models.TournamentParticipant) error
	ListParticipants(ctx context.Context, tournamentID int) ([]models.TournamentParticipant, error)

	CreateMatch(ctx context.Context, exec SQLExecutor, m *models.TournamentMatch) error
	GetMatch(ctx context.Context, exec SQLExecutor, tournamentID, matchID int) (*models.TournamentMatch, error)
	GetMatchByGameID(ctx context.Context, gameID int) (*models.TournamentMatch, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error)
	ListFeederMatches(ctx context.Context, exec SQLExecutor, nextMatchID int) ([]*models.TournamentMatch, error)
	UpdateMatchPlayers(ctx context.Context, exec SQLExecutor, matchID int, player1ID, player2ID *int) error
	UpdateMatchResult(ctx context.Context, exec SQLExecutor, matchID int, winnerID, gameID *int) error
	LinkedGameIDs(ctx context.Context) (map[int]bool, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, status)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if err := exec.QueryRowContext(ctx, query, t.Name, t.Status).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, status, created_at, started_at, completed_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Status, &t.CreatedAt, &t.StartedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, limit, offset int) ([]*models.Tournament, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM tournaments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tournaments: %w", err)
	}

	query := `
		SELECT id, name, status, created_at, started_at, completed_at
		FROM tournaments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt, &t.StartedAt, &t.CompletedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, total, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `UPDATE tournaments SET status = $1, started_at = $2, completed_at = $3 WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, t.Status, t.StartedAt, t.CompletedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d status: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) CreateParticipant(ctx context.Context, exec SQLExecutor, p *models.TournamentParticipant) error {
	query := `
		INSERT INTO tournament_participants (tournament_id, player_id, seed)
		VALUES ($1, $2, $3)
		RETURNING id`

	if err := exec.QueryRowContext(ctx, query, p.TournamentID, p.PlayerID, p.Seed).Scan(&p.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "tournament_participants_player_id_fkey" {
			return ErrTournamentPlayerInvalid
		}
		return fmt.Errorf("failed to insert tournament participant: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) ListParticipants(ctx context.Context, tournamentID int) ([]models.TournamentParticipant, error) {
	query := `
		SELECT tp.id, tp.tournament_id, tp.player_id, tp.seed, tp.eliminated, p.name
		FROM tournament_participants tp
		JOIN players p ON p.id = tp.player_id
		WHERE tp.tournament_id = $1
		ORDER BY tp.seed`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.TournamentParticipant, 0)
	for rows.Next() {
		var p models.TournamentParticipant
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.PlayerID, &p.Seed, &p.Eliminated, &p.PlayerName); err != nil {
			return nil, fmt.Errorf("failed to scan tournament participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresTournamentRepository) CreateMatch(ctx context.Context, exec SQLExecutor, m *models.TournamentMatch) error {
	query := `
		INSERT INTO tournament_matches
			(tournament_id, round_number, match_number, player1_id, player2_id, winner_id, game_id, next_match_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		m.TournamentID, m.RoundNumber, m.MatchNumber,
		m.Player1ID, m.Player2ID, m.WinnerID, m.GameID, m.NextMatchID,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to insert tournament match R%dM%d: %w", m.RoundNumber, m.MatchNumber, err)
	}
	return nil
}

const matchColumns = `
	tm.id, tm.tournament_id, tm.round_number, tm.match_number,
	tm.player1_id, tm.player2_id, tm.winner_id, tm.game_id, tm.next_match_id,
	coalesce(p1.name, ''), coalesce(p2.name, '')`

const matchJoins = `
	LEFT JOIN players p1 ON p1.id = tm.player1_id
	LEFT JOIN players p2 ON p2.id = tm.player2_id`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.TournamentMatch) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.RoundNumber, &m.MatchNumber,
		&m.Player1ID, &m.Player2ID, &m.WinnerID, &m.GameID, &m.NextMatchID,
		&m.Player1Name, &m.Player2Name,
	)
}

func (r *postgresTournamentRepository) GetMatch(ctx context.Context, exec SQLExecutor, tournamentID, matchID int) (*models.TournamentMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM tournament_matches tm` + matchJoins + `
		WHERE tm.id = $1 AND tm.tournament_id = $2`

	m := &models.TournamentMatch{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, matchID, tournamentID), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament match %d: %w", matchID, err)
	}
	return m, nil
}

func (r *postgresTournamentRepository) GetMatchByGameID(ctx context.Context, gameID int) (*models.TournamentMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM tournament_matches tm` + matchJoins + `
		WHERE tm.game_id = $1`

	m := &models.TournamentMatch{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, gameID), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament match for game %d: %w", gameID, err)
	}
	return m, nil
}

// ListMatches returns a tournament's matches first round first (round
// descending, since round 1 is the final), match number ascending.
func (r *postgresTournamentRepository) ListMatches(ctx context.Context, tournamentID int) ([]*models.TournamentMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM tournament_matches tm` + matchJoins + `
		WHERE tm.tournament_id = $1
		ORDER BY tm.round_number DESC, tm.match_number ASC`

	return r.queryMatches(ctx, r.db, query, tournamentID)
}

// ListFeederMatches returns the two matches whose winners advance into the
// given match, ordered by match number so the first feeder maps to slot 1.
func (r *postgresTournamentRepository) ListFeederMatches(ctx context.Context, exec SQLExecutor, nextMatchID int) ([]*models.TournamentMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM tournament_matches tm` + matchJoins + `
		WHERE tm.next_match_id = $1
		ORDER BY tm.match_number ASC`

	return r.queryMatches(ctx, exec, query, nextMatchID)
}

func (r *postgresTournamentRepository) queryMatches(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.TournamentMatch, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.TournamentMatch, 0)
	for rows.Next() {
		m := &models.TournamentMatch{}
		if err := scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan tournament match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresTournamentRepository) UpdateMatchPlayers(ctx context.Context, exec SQLExecutor, matchID int, player1ID, player2ID *int) error {
	query := `UPDATE tournament_matches SET player1_id = $1, player2_id = $2 WHERE id = $3`

	result, err := exec.ExecContext(ctx, query, player1ID, player2ID, matchID)
	if err != nil {
		return fmt.Errorf("failed to update players of tournament match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrTournamentMatchNotFound)
}

func (r *postgresTournamentRepository) UpdateMatchResult(ctx context.Context, exec SQLExecutor, matchID int, winnerID, gameID *int) error {
	query := `UPDATE tournament_matches SET winner_id = $1, game_id = $2 WHERE id = $3`

	result, err := exec.ExecContext(ctx, query, winnerID, gameID, matchID)
	if err != nil {
		return fmt.Errorf("failed to update result of tournament match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrTournamentMatchNotFound)
}

// LinkedGameIDs returns the set of game ids owned by tournament matches;
// those games are immutable.
func (r *postgresTournamentRepository) LinkedGameIDs(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT game_id FROM tournament_matches WHERE game_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament game links: %w", err)
	}
	defer rows.Close()

	ids := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tournament game link: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament game link iteration: %w", err)
	}
	return ids, nil
}
