package services

import (
	"context"

	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// CakeService keeps the shutout debt ledger. Balances are derived counters:
// they are always safe to discard and rebuild from the game log.
type CakeService struct {
	cakes repositories.CakeRepository
}

func NewCakeService(cakes repositories.CakeRepository) *CakeService {
	return &CakeService{cakes: cakes}
}

// ApplyShutout adds one cake per (loser, winner) pair of a shutout game,
// within the caller's transaction. Callers must only invoke it for shutouts;
// for anything else it is a no-op.
func (s *CakeService) ApplyShutout(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	for _, pair := range engine.ShutoutPairs(game) {
		if err := s.cakes.Increment(ctx, exec, game.SeasonID, pair.DebtorID, pair.CreditorID, 1); err != nil {
			return err
		}
	}
	return nil
}

// RebuildSeason clears and re-derives a season's ledger from its games.
// Accumulation is a pure count, so the result is independent of game order.
func (s *CakeService) RebuildSeason(ctx context.Context, exec repositories.SQLExecutor, seasonID int, games []*models.Game) error {
	if err := s.cakes.DeleteBySeason(ctx, exec, seasonID); err != nil {
		return err
	}
	for pair, count := range engine.CakeBalances(games) {
		if err := s.cakes.Increment(ctx, exec, seasonID, pair.DebtorID, pair.CreditorID, count); err != nil {
			return err
		}
	}
	return nil
}

// ListBalances returns outstanding balances, optionally scoped to a season.
func (s *CakeService) ListBalances(ctx context.Context, seasonID *int) ([]*models.CakeBalance, error) {
	return s.cakes.List(ctx, seasonID)
}
