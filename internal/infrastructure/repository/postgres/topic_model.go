package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
)

type topicTableModel struct {
	ID          string    `db:"id"`
	Slug        string    `db:"slug"`
	Type        string    `db:"type"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	Metadata    []byte    `db:"metadata"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type topicInsertModel struct {
	ID          string `db:"id"`
	Slug        string `db:"slug"`
	Type        string `db:"type"`
	Title       string `db:"title"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	Metadata    []byte `db:"metadata"`
}

func (m topicTableModel) toDomain() (topic.Topic, error) {
	var metadata topic.Metadata
	if len(m.Metadata) > 0 {
		if err := sonic.Unmarshal(m.Metadata, &metadata); err != nil {
			return topic.Topic{}, fmt.Errorf("topic id=%s: decode metadata: %w", m.ID, err)
		}
	}
	return topic.Topic{
		ID:          m.ID,
		Slug:        m.Slug,
		Type:        m.Type,
		Title:       m.Title,
		Description: m.Description,
		IsActive:    m.IsActive,
		Metadata:    metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func encodeMetadata(metadata topic.Metadata) ([]byte, error) {
	raw, err := sonic.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode topic metadata: %w", err)
	}
	return raw, nil
}
