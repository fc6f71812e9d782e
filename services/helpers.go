package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// runInTx runs fn inside a transaction, rolling back on error or panic. All
// multi-step derived-state mutations go through this so a failure partway
// never leaves ratings without their game or vice versa.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// normalizePage clamps pagination parameters to sane values.
func normalizePage(page, perPage, defaultPerPage, maxPerPage int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return perPage, (page - 1) * perPage
}

// extensionForContentType maps an image content type to a file extension for
// avatar object keys.
func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
		return "." + strings.Split(parts[1], "+")[0], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAvatarType, contentType)
}
