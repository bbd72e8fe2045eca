// Package database provides the optional Postgres persistence layer:
// an archive of completed turns and the document library tables. The
// service runs fully in memory when DATABASE_URL is unset.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coursegpt-server/internal/config"
)

// TurnRecord is one archived conversation exchange.
type TurnRecord struct {
	ID             string    `gorm:"primaryKey;size:64"`
	ConversationID string    `gorm:"size:64;index"`
	UserText       string    `gorm:"type:text"`
	AgentText      string    `gorm:"type:text"`
	Agent          string    `gorm:"size:32"`
	CreatedAt      time.Time `gorm:"index"`
}

func (TurnRecord) TableName() string { return "turns" }

// DocumentRecord is one stored upload in the document library.
type DocumentRecord struct {
	ID         string    `gorm:"primaryKey;size:64"`
	Folder     string    `gorm:"size:255;index"`
	FileName   string    `gorm:"size:255"`
	FileType   string    `gorm:"size:16"`
	Text       string    `gorm:"type:text"`
	UploadedAt time.Time `gorm:"index"`
}

func (DocumentRecord) TableName() string { return "documents" }

// Connect opens the Postgres connection and migrates the schema when
// auto-migration is enabled.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&TurnRecord{}, &DocumentRecord{}); err != nil {
			return nil, fmt.Errorf("migrating schema: %w", err)
		}
	}
	return db, nil
}
