package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// StaffRepository handles persistence for the staff roster. The roster is
// written through after every mutation; loads return records in admission
// order with logs newest first.
type StaffRepository interface {
	LoadRoster(ctx context.Context) ([]domain.StaffRecord, error)
	SaveRoster(ctx context.Context, records []domain.StaffRecord) error
	GetByID(ctx context.Context, id string) (*domain.StaffRecord, error)
	SaveRecord(ctx context.Context, rec *domain.StaffRecord) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const upsertRecordQuery = `
    INSERT INTO staff_records
        (id, external_id, display_name, internal_role_id, status, joined_date,
         total_points, total_minutes, is_active_session, shifts_completed, avatar_ref)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (id) DO UPDATE SET
        status=EXCLUDED.status,
        total_points=EXCLUDED.total_points,
        total_minutes=EXCLUDED.total_minutes,
        is_active_session=EXCLUDED.is_active_session,
        shifts_completed=EXCLUDED.shifts_completed,
        avatar_ref=EXCLUDED.avatar_ref,
        updated_at=NOW()`

const insertLogQuery = `
    INSERT INTO performance_logs (id, staff_id, log_date, kind, description, issued_by)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (id) DO NOTHING`

func (r *staffRepository) SaveRoster(ctx context.Context, records []domain.StaffRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for i := range records {
		if err := saveRecordTx(ctx, tx, &records[i]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *staffRepository) SaveRecord(ctx context.Context, rec *domain.StaffRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := saveRecordTx(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func saveRecordTx(ctx context.Context, tx pgx.Tx, rec *domain.StaffRecord) error {
	if _, err := tx.Exec(ctx, upsertRecordQuery,
		rec.ID,
		rec.ExternalID,
		rec.DisplayName,
		rec.InternalRoleID,
		rec.Status,
		rec.JoinedDate,
		rec.TotalPoints,
		rec.TotalMinutes,
		rec.IsActiveSession,
		rec.ShiftsCompleted,
		rec.AvatarRef,
	); err != nil {
		return err
	}

	// logs are append-only; existing entries are skipped by id
	for _, entry := range rec.Logs {
		if _, err := tx.Exec(ctx, insertLogQuery,
			entry.ID,
			rec.ID,
			entry.Date,
			entry.Kind,
			entry.Description,
			entry.IssuedBy,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *staffRepository) LoadRoster(ctx context.Context) ([]domain.StaffRecord, error) {
	const query = `
        SELECT id, external_id, display_name, internal_role_id, status, joined_date,
               total_points, total_minutes, is_active_session, shifts_completed, avatar_ref
        FROM staff_records ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.StaffRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec domain.StaffRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		rec.Logs = []domain.PerformanceLog{}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []domain.StaffRecord{}, nil
	}

	const logsQuery = `
        SELECT id, staff_id, log_date, kind, description, issued_by
        FROM performance_logs ORDER BY seq DESC`

	logRows, err := r.pool.Query(ctx, logsQuery)
	if err != nil {
		return nil, err
	}
	defer logRows.Close()

	for logRows.Next() {
		var entry domain.PerformanceLog
		var staffID string
		if err := logRows.Scan(&entry.ID, &staffID, &entry.Date, &entry.Kind, &entry.Description, &entry.IssuedBy); err != nil {
			return nil, err
		}
		if i, ok := index[staffID]; ok {
			records[i].Logs = append(records[i].Logs, entry)
		}
	}
	return records, logRows.Err()
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffRecord, error) {
	const query = `
        SELECT id, external_id, display_name, internal_role_id, status, joined_date,
               total_points, total_minutes, is_active_session, shifts_completed, avatar_ref
        FROM staff_records WHERE id=$1`

	var rec domain.StaffRecord
	row := r.pool.QueryRow(ctx, query, id)
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, err
	}
	rec.Logs = []domain.PerformanceLog{}

	const logsQuery = `
        SELECT id, log_date, kind, description, issued_by
        FROM performance_logs WHERE staff_id=$1 ORDER BY seq DESC`

	rows, err := r.pool.Query(ctx, logsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.PerformanceLog
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Kind, &entry.Description, &entry.IssuedBy); err != nil {
			return nil, err
		}
		rec.Logs = append(rec.Logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, rec *domain.StaffRecord) error {
	return row.Scan(
		&rec.ID,
		&rec.ExternalID,
		&rec.DisplayName,
		&rec.InternalRoleID,
		&rec.Status,
		&rec.JoinedDate,
		&rec.TotalPoints,
		&rec.TotalMinutes,
		&rec.IsActiveSession,
		&rec.ShiftsCompleted,
		&rec.AvatarRef,
	)
}
