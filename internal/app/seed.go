package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/config"
	"github.com/chzeraa/painel-bemaxx/internal/enrollment"
	"github.com/chzeraa/painel-bemaxx/internal/models"
	"github.com/chzeraa/painel-bemaxx/internal/security"
	"github.com/chzeraa/painel-bemaxx/internal/util"
)

// Seed populates the first-boot admin account and the initial code pool.
// It runs only when seeding is enabled and the directory is empty, so a
// restarted server never duplicates data.
func Seed(ctx context.Context, conn *gorm.DB, cfg config.SeedConfig) error {
	if !cfg.Enabled {
		return nil
	}

	var userCount int64
	if errCount := conn.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; errCount != nil {
		return fmt.Errorf("seed: count accounts: %w", errCount)
	}
	if userCount > 0 {
		return nil
	}

	email := strings.TrimSpace(cfg.AdminEmail)
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		return errors.New("seed: admin-email and admin-password are required when seeding is enabled")
	}
	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("seed: hash admin password: %w", errHash)
	}
	now := time.Now().UTC()
	admin := models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      models.RoleAdmin,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("seed: create admin: %w", errCreate)
	}
	log.Infof("seeded admin account %s", util.MaskEmail(email))

	enroll := enrollment.NewService(conn)
	seeded := 0
	for _, suffix := range cfg.Matriculas {
		if _, errCode := enroll.Create(ctx, suffix); errCode != nil {
			if errors.Is(errCode, enrollment.ErrDuplicateCode) || errors.Is(errCode, enrollment.ErrEmptyNumber) {
				continue
			}
			return fmt.Errorf("seed: create code %q: %w", suffix, errCode)
		}
		seeded++
	}
	if seeded > 0 {
		log.Infof("seeded %d enrollment codes", seeded)
	}
	return nil
}
