package bootstrap

import (
	"context"

	"github.com/skillsenselab/identity/auth/password"
	"github.com/skillsenselab/identity/config"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/model"
	"github.com/skillsenselab/identity/store"
)

// SeedSuperadmin creates the bootstrap superadmin account on first run
// so a fresh deployment has a way to authenticate. If the username
// already exists nothing happens.
func SeedSuperadmin(ctx context.Context, users *store.UserStore, hasher password.Hasher, cfg config.SeedConfig, log *logger.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	log = log.WithComponent("seed")

	if _, err := users.GetByUsername(ctx, cfg.Username); err == nil {
		log.Debug("superadmin already present, skipping seed")
		return nil
	} else if appErr, ok := errors.AsAppError(err); !ok || appErr.Code != errors.ErrCodeNotFound {
		return err
	}

	digest, err := hasher.Hash(cfg.Password)
	if err != nil {
		return err
	}
	name := cfg.Name
	if name == "" {
		name = "Superadmin"
	}
	user := &model.User{
		Name:         name,
		Username:     cfg.Username,
		Email:        cfg.Email,
		Password:     digest,
		IsSuperadmin: true,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	log.Info("superadmin seeded", map[string]interface{}{logger.FieldUserID: user.ID})
	return nil
}
