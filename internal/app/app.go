package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/config"
	"github.com/onlybigcars/carbook/internal/ui"
)

// RunTUI runs the storefront until the context is cancelled or the user
// quits. cfg and logger come from the caller.
func RunTUI(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	sess, err := Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}()

	if err := sess.RequireLogin(ctx); err != nil {
		return err
	}

	sess.Start(ctx)
	_ = sess.LoadCategories(ctx)

	return ui.Run(ctx, ui.Options{
		Storefront: sess,
		Wizard:     sess.Wizard(),
		Prefs:      sess.kv,
		ThemeName:  cfg.UI.Theme,
		Logger:     logger,
	})
}
