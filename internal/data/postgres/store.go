package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// Querier is the subset of pgxpool.Pool the store needs. pgxmock satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const tableName = "schedules"

var columns = []string{"id", "start_time", "name", "name_english", "is_important"}

// scheduleRow maps one row of the schedules table.
type scheduleRow struct {
	ID          int64   `db:"id"`
	StartTime   string  `db:"start_time"`
	Name        string  `db:"name"`
	NameEnglish *string `db:"name_english"`
	IsImportant bool    `db:"is_important"`
}

func (r scheduleRow) entry() model.ScheduleEntry {
	e := model.ScheduleEntry{
		ID:        model.EntryID(r.ID),
		TimeOfDay: model.TimeOfDay(r.StartTime),
		Title:     r.Name,
		Important: r.IsImportant,
	}
	if r.NameEnglish != nil {
		e.TitleSecondary = *r.NameEnglish
	}
	return e
}

// Store persists schedule entries in PostgreSQL.
type Store struct {
	db   Querier
	psql squirrel.StatementBuilderType
}

// New creates a store over db.
func New(db Querier) *Store {
	return &Store{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *Store) FetchAll(ctx context.Context) ([]model.ScheduleEntry, error) {
	query, args, err := s.psql.Select(columns...).
		From(tableName).
		OrderBy("start_time", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []scheduleRow
	if err := pgxscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, mapError(err, "schedules", 0)
	}

	entries := make([]model.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (s *Store) Insert(ctx context.Context, draft model.EntryDraft) (model.ScheduleEntry, error) {
	query, args, err := s.psql.Insert(tableName).
		Columns("start_time", "name", "name_english", "is_important").
		Values(draft.TimeOfDay, draft.Title, nullable(draft.TitleSecondary), draft.Important).
		Suffix("RETURNING id, start_time, name, name_english, is_important").
		ToSql()
	if err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("build insert: %w", err)
	}

	var row scheduleRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		return model.ScheduleEntry{}, mapError(err, "schedule entry", 0)
	}
	return row.entry(), nil
}

func (s *Store) UpdateByID(ctx context.Context, id model.EntryID, draft model.EntryDraft) (model.ScheduleEntry, error) {
	query, args, err := s.psql.Update(tableName).
		Set("start_time", draft.TimeOfDay).
		Set("name", draft.Title).
		Set("name_english", nullable(draft.TitleSecondary)).
		Set("is_important", draft.Important).
		Where(squirrel.Eq{"id": int64(id)}).
		Suffix("RETURNING id, start_time, name, name_english, is_important").
		ToSql()
	if err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("build update: %w", err)
	}

	var row scheduleRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		return model.ScheduleEntry{}, mapError(err, "schedule entry", id)
	}
	return row.entry(), nil
}

func (s *Store) DeleteByID(ctx context.Context, id model.EntryID) error {
	query, args, err := s.psql.Delete(tableName).
		Where(squirrel.Eq{"id": int64(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "schedule entry", id)
	}
	if tag.RowsAffected() == 0 {
		return model.NotFoundError(id)
	}
	return nil
}

// Import inserts every draft with one multi-row INSERT and returns the created
// entries in draft order.
func (s *Store) Import(ctx context.Context, drafts []model.EntryDraft) ([]model.ScheduleEntry, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	insert := s.psql.Insert(tableName).
		Columns("start_time", "name", "name_english", "is_important").
		Suffix("RETURNING id, start_time, name, name_english, is_important")
	for _, d := range drafts {
		insert = insert.Values(d.TimeOfDay, d.Title, nullable(d.TitleSecondary), d.Important)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build import: %w", err)
	}

	var rows []scheduleRow
	if err := pgxscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, mapError(err, "schedule import", 0)
	}

	created := make([]model.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		created = append(created, r.entry())
	}
	return created, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapError converts pgx/pgconn errors into model errors.
func mapError(err error, entity string, id model.EntryID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %d: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, model.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23514": // not_null_violation, check_violation
			return fmt.Errorf("%s %d: %w: %s", entity, id, model.ErrValidation, pgErr.Message)
		}
	}

	return fmt.Errorf("%s %d: %w", entity, id, err)
}
