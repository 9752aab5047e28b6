// Package storage persists solved lineups for the history endpoint. It is
// optional at runtime; the service runs fully without a database.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stitts-dev/lineup-optimizer/internal/optimizer"
)

// LineupRecord is one persisted optimization result.
type LineupRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Site      string    `gorm:"index;not null" json:"site"`
	Points    float64   `gorm:"not null" json:"points"`
	Salary    int       `gorm:"not null" json:"salary"`
	SalaryCap int       `gorm:"not null" json:"salary_cap"`
	Players   string    `gorm:"type:jsonb" json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the database connection.
type Store struct {
	db *gorm.DB
}

// Connect opens the database and migrates the lineup schema.
func Connect(databaseURL string, isDevelopment bool) (*Store, error) {
	logLevel := gormlogger.Error
	if isDevelopment {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&LineupRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate lineup schema: %w", err)
	}

	logrus.WithField("service", "lineup-optimizer").Info("Database connection established")
	return &Store{db: db}, nil
}

// SaveLineup persists one optimized lineup.
func (s *Store) SaveLineup(lineup *optimizer.OptimizedLineup) (*LineupRecord, error) {
	players, err := json.Marshal(lineup.Players)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lineup players: %w", err)
	}
	record := &LineupRecord{
		Site:      lineup.Site,
		Points:    lineup.Points,
		Salary:    lineup.Salary,
		SalaryCap: lineup.SalaryCap,
		Players:   string(players),
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to save lineup: %w", err)
	}
	return record, nil
}

// RecentLineups returns the most recently saved lineups, newest first.
func (s *Store) RecentLineups(limit int) ([]LineupRecord, error) {
	var records []LineupRecord
	if err := s.db.Order("created_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent lineups: %w", err)
	}
	return records, nil
}

// HealthCheck pings the underlying connection.
func (s *Store) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts the connection pool down.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
