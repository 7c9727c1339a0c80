package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chzeraa/painel-bemaxx/internal/models"
)

// Migrate creates or updates the schema for all panel models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.User{},
		&models.Matricula{},
		&models.Payment{},
		&models.Setting{},
	)
}
