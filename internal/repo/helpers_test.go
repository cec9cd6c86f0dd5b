package repo

import (
	"context"
	"fmt"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := Migrate(context.Background(), db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, externalID string) *domain.User {
	t.Helper()
	u := &domain.User{ExternalID: externalID}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedGoal(t *testing.T, db *gorm.DB, userID uint, freq int, period string) *domain.Goal {
	t.Helper()
	g := &domain.Goal{UserID: userID, Title: "Run", FrequencyPerWeek: freq, PeriodStart: period}
	if err := CreateGoal(context.Background(), db, g); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	return g
}
