package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bundasehat/screening-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureScreeningIndexes adds indexes AutoMigrate cannot express from struct tags.
func EnsureScreeningIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			"idx_question_option_question_value",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_question_option_question_value ON question_option(question_id, value);`,
		},
		{
			"idx_answer_session_user_started",
			`CREATE INDEX IF NOT EXISTS idx_answer_session_user_started ON answer_session(user_id, started_at);`,
		},
		{
			"idx_answer_session_position",
			`CREATE INDEX IF NOT EXISTS idx_answer_session_position ON answer(session_id, position);`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
