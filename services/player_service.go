package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
	"github.com/foosdev/foosball-tracker/storage"
)

// PlayerService manages the roster. Avatar storage is optional; with a nil
// uploader the avatar endpoints report it as disabled.
type PlayerService struct {
	db       *sql.DB
	players  repositories.PlayerRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewPlayerService(db *sql.DB, players repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) *PlayerService {
	return &PlayerService{db: db, players: players, uploader: uploader, logger: logger}
}

// CreatePlayer registers a new player at the baseline rating.
func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		Name:      name,
		Rating:    engine.BaseRating,
		Rating1v1: engine.BaseRating,
		Rating2v2: engine.BaseRating,
		Rating2v1: engine.BaseRating,
	}
	if err := s.players.Create(ctx, s.db, player); err != nil {
		return nil, err
	}
	s.fillAvatarURL(player)
	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fillAvatarURL(player)
	return player, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, player := range players {
		s.fillAvatarURL(player)
	}
	return players, nil
}

// UploadAvatar stores the image under a per-player key, replacing any
// previous object, and records the key on the player row.
func (s *PlayerService) UploadAvatar(ctx context.Context, playerID int, contentType string, data io.Reader) (*models.Player, error) {
	if s.uploader == nil {
		return nil, ErrAvatarStorageDisabled
	}
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/player-%d%s", player.ID, ext)

	if player.AvatarKey != nil && *player.AvatarKey != key {
		if err := s.uploader.Delete(ctx, *player.AvatarKey); err != nil {
			s.logger.Warn("failed to delete previous avatar",
				slog.Int("player_id", player.ID),
				slog.String("key", *player.AvatarKey),
				slog.Any("error", err))
		}
	}

	result, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", player.ID, err)
	}
	if err := s.players.UpdateAvatarKey(ctx, player.ID, &result.Key); err != nil {
		return nil, err
	}

	player.AvatarKey = &result.Key
	s.fillAvatarURL(player)
	return player, nil
}

func (s *PlayerService) fillAvatarURL(player *models.Player) {
	if s.uploader == nil || player.AvatarKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.AvatarKey)
	if url != "" {
		player.AvatarURL = &url
	}
}
