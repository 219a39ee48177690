package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// GroupRepository persists the linked group and its rank mapping table.
// An instance tracks at most one group link at a time.
type GroupRepository interface {
	SaveLink(ctx context.Context, link *domain.GroupLink) error
	GetLink(ctx context.Context) (*domain.GroupLink, error)
	ReplaceMappings(ctx context.Context, linkID string, mappings []domain.RankMapping) error
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository instantiates the repository.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

func (r *groupRepository) SaveLink(ctx context.Context, link *domain.GroupLink) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// relinking replaces the previous link entirely
	if _, err := tx.Exec(ctx, `DELETE FROM rank_mappings`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM group_links`); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO group_links (id, group_id, group_name, linked_at) VALUES ($1,$2,$3,$4)`,
		link.ID, link.GroupID, link.Name, link.LinkedAt,
	); err != nil {
		return err
	}
	if err := insertMappingsTx(ctx, tx, link.ID, link.Mappings); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *groupRepository) GetLink(ctx context.Context) (*domain.GroupLink, error) {
	const query = `SELECT id, group_id, group_name, linked_at FROM group_links LIMIT 1`

	var link domain.GroupLink
	err := r.pool.QueryRow(ctx, query).Scan(&link.ID, &link.GroupID, &link.Name, &link.LinkedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	const mappingsQuery = `
        SELECT external_rank_id, internal_role_id, label
        FROM rank_mappings WHERE group_link_id=$1 ORDER BY position`

	rows, err := r.pool.Query(ctx, mappingsQuery, link.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.RankMapping
		if err := rows.Scan(&m.ExternalRankID, &m.InternalRoleID, &m.Label); err != nil {
			return nil, err
		}
		link.Mappings = append(link.Mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *groupRepository) ReplaceMappings(ctx context.Context, linkID string, mappings []domain.RankMapping) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM rank_mappings WHERE group_link_id=$1`, linkID); err != nil {
		return err
	}
	if err := insertMappingsTx(ctx, tx, linkID, mappings); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertMappingsTx(ctx context.Context, tx pgx.Tx, linkID string, mappings []domain.RankMapping) error {
	const query = `
        INSERT INTO rank_mappings (group_link_id, position, external_rank_id, internal_role_id, label)
        VALUES ($1,$2,$3,$4,$5)`

	for i, m := range mappings {
		if _, err := tx.Exec(ctx, query, linkID, i, m.ExternalRankID, m.InternalRoleID, m.Label); err != nil {
			return err
		}
	}
	return nil
}
