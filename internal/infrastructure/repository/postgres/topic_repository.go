package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	qb "github.com/TheMidfield/midfield-sync/internal/platform/querybuilder"
)

type TopicRepository struct {
	db *sqlx.DB
}

func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) GetByID(ctx context.Context, id string) (topic.Topic, error) {
	query, args, err := qb.Select("*").From("topics").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return topic.Topic{}, fmt.Errorf("build get topic query: %w", err)
	}

	var row topicTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return topic.Topic{}, fmt.Errorf("get topic id=%s: %w", id, topic.ErrNotFound)
		}
		return topic.Topic{}, fmt.Errorf("get topic id=%s: %w", id, err)
	}
	return row.toDomain()
}

func (r *TopicRepository) FindByUpstreamID(ctx context.Context, topicType string, upstreamID int64) (topic.Topic, error) {
	query, args, err := qb.Select("*").From("topics").
		Where(
			qb.Eq("type", topicType),
			qb.Expr("(metadata -> 'external' ->> 'upstream_id') = ?", strconv.FormatInt(upstreamID, 10)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return topic.Topic{}, fmt.Errorf("build find topic query: %w", err)
	}

	var row topicTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return topic.Topic{}, fmt.Errorf("find topic type=%s upstream_id=%d: %w", topicType, upstreamID, topic.ErrNotFound)
		}
		return topic.Topic{}, fmt.Errorf("find topic type=%s upstream_id=%d: %w", topicType, upstreamID, err)
	}
	return row.toDomain()
}

func (r *TopicRepository) Insert(ctx context.Context, t topic.Topic) (topic.Topic, error) {
	metadata, err := encodeMetadata(t.Metadata)
	if err != nil {
		return topic.Topic{}, err
	}

	model := topicInsertModel{
		ID:          t.ID,
		Slug:        strings.TrimSpace(t.Slug),
		Type:        t.Type,
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
		IsActive:    t.IsActive,
		Metadata:    metadata,
	}
	query, args, err := qb.InsertModel("topics", model, "RETURNING created_at, updated_at")
	if err != nil {
		return topic.Topic{}, fmt.Errorf("build insert topic query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return topic.Topic{}, fmt.Errorf("insert topic slug=%s: %w", t.Slug, topic.ErrDuplicate)
		}
		return topic.Topic{}, fmt.Errorf("insert topic slug=%s: %w", t.Slug, err)
	}
	return t, nil
}

func (r *TopicRepository) Update(ctx context.Context, t topic.Topic) error {
	metadata, err := encodeMetadata(t.Metadata)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("topics").
		Set("title", strings.TrimSpace(t.Title)).
		Set("description", strings.TrimSpace(t.Description)).
		Set("is_active", t.IsActive).
		Set("metadata", metadata).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update topic query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update topic id=%s: %w", t.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update topic id=%s rows affected: %w", t.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update topic id=%s: %w", t.ID, topic.ErrNotFound)
	}
	return nil
}

func (r *TopicRepository) ListPlayersMissingDetails(ctx context.Context, limit int) ([]topic.Topic, error) {
	query, args, err := qb.Select("*").From("topics").
		Where(
			qb.Eq("type", topic.TypePlayer),
			qb.Expr("(metadata ->> 'nationality' IS NULL OR metadata ->> 'height' IS NULL OR metadata ->> 'jersey_number' IS NULL)"),
		).
		OrderBy("created_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players missing details query: %w", err)
	}

	var rows []topicTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players missing details: %w", err)
	}

	out := make([]topic.Topic, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
