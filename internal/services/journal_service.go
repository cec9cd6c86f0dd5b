package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/repo"
	"github.com/tbourn/go-mood-journal/internal/rollover"
	"github.com/tbourn/go-mood-journal/internal/streak"
)

const (
	minMood = 1
	maxMood = 5

	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = math.MaxInt32 / maxPageSize
)

// EntryInput is the payload for a new journal entry. An empty Date means
// today.
type EntryInput struct {
	Date    string
	Mood    int
	Content string
}

// Statistics summarizes a user's journal.
type Statistics struct {
	repo.MoodAggregate
	MoodCounts    map[int]int64 `json:"mood_counts"`
	FirstEntry    string        `json:"first_entry,omitempty"`
	LastEntry     string        `json:"last_entry,omitempty"`
	CurrentStreak int           `json:"current_streak"`
}

// JournalService manages mood entries. Entries are a data source for the
// journal streak and achievements.
type JournalService struct {
	Tx       TxRunner
	Store    JournalStore
	Streaks  Streaker
	Clock    clock.Clock
	Location *time.Location

	// ContentMaxLen caps entry content in bytes; zero means no cap.
	ContentMaxLen int
}

// NewJournalService builds a JournalService over the repo query functions.
func NewJournalService(tx TxRunner, streaks Streaker, clk clock.Clock, loc *time.Location) *JournalService {
	return &JournalService{
		Tx:            tx,
		Store:         repoStore{},
		Streaks:       streaks,
		Clock:         clk,
		Location:      loc,
		ContentMaxLen: 10000,
	}
}

// CreateEntry validates in and stores it. The date is stored as YYYY-MM-DD
// whichever accepted layout it arrived in.
func (s *JournalService) CreateEntry(ctx context.Context, userID uint, in EntryInput) (*domain.MoodEntry, error) {
	if userID == 0 {
		return nil, invalid("user id must be positive")
	}
	if in.Mood < minMood || in.Mood > maxMood {
		return nil, invalid("mood must be between %d and %d", minMood, maxMood)
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if s.ContentMaxLen > 0 && len(content) > s.ContentMaxLen {
		return nil, invalid("content must be at most %d bytes", s.ContentMaxLen)
	}

	date := rollover.Today(s.Clock, s.Location)
	if strings.TrimSpace(in.Date) != "" {
		d, err := streak.Parse(in.Date)
		if err != nil {
			return nil, invalid("date must be YYYY-MM-DD or MM/DD/YYYY")
		}
		date = d
	}

	e := &domain.MoodEntry{UserID: userID, Date: date.String(), Mood: in.Mood, Content: content}
	err := s.Tx.InTx(ctx, "moods.create", func(tx *gorm.DB) error {
		e.ID = 0
		return s.Store.CreateEntry(ctx, tx, e)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return e, nil
}

// ListEntries returns one page of entries, newest first, and the total count.
// page is 1-based; values below 1 fall back to the first page and the
// default size, and very large pages read past the end.
func (s *JournalService) ListEntries(ctx context.Context, userID uint, page, pageSize int) ([]domain.MoodEntry, int64, error) {
	page = min(max(page, 1), maxPage)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var (
		items []domain.MoodEntry
		total int64
	)
	err := s.Tx.InTx(ctx, "moods.list", func(tx *gorm.DB) error {
		var err error
		if total, err = s.Store.CountEntries(ctx, tx, userID); err != nil {
			return err
		}
		items, err = s.Store.ListEntriesPage(ctx, tx, userID, (page-1)*pageSize, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return items, total, nil
}

// DeleteEntry removes one of the user's entries.
func (s *JournalService) DeleteEntry(ctx context.Context, userID, entryID uint) error {
	err := s.Tx.Do(ctx, "moods.delete", func(db *gorm.DB) error {
		ok, err := s.Store.DeleteEntry(ctx, db, userID, entryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrEntryNotFound
		}
		return nil
	})
	return storageErr(err)
}

// Statistics aggregates the user's entries and current streak.
func (s *JournalService) Statistics(ctx context.Context, userID uint) (*Statistics, error) {
	out := &Statistics{}
	var raw []string
	err := s.Tx.InTx(ctx, "moods.statistics", func(tx *gorm.DB) error {
		var err error
		if out.MoodAggregate, err = s.Store.MoodStats(ctx, tx, userID); err != nil {
			return err
		}
		if out.MoodCounts, err = s.Store.MoodCounts(ctx, tx, userID); err != nil {
			return err
		}
		raw, err = s.Store.DistinctEntryDates(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}

	if dates, _ := streak.ParseAll(raw); len(dates) > 0 {
		first, last := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.Before(first) {
				first = d
			}
			if d.After(last) {
				last = d
			}
		}
		out.FirstEntry, out.LastEntry = first.String(), last.String()
	}

	if out.CurrentStreak, err = s.Streaks.CurrentStreak(ctx, userID); err != nil {
		return nil, err
	}
	return out, nil
}
