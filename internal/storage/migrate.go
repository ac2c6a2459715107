package storage

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
)

func Migrate(db *gorm.DB, log *zap.Logger) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.APIKey{},
		&models.Link{},
		&models.Click{},
	); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	log.Info("database migration completed")
}
