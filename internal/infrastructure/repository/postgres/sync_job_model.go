package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
)

type syncJobTableModel struct {
	ID          int64          `db:"id"`
	JobType     string         `db:"job_type"`
	Payload     []byte         `db:"payload"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	ProcessedAt sql.NullTime   `db:"processed_at"`
	ErrorLog    sql.NullString `db:"error_log"`
}

func (m syncJobTableModel) toDomain() (syncjob.Job, error) {
	payload, err := syncjob.DecodePayload(syncjob.Type(m.JobType), m.Payload)
	if err != nil {
		return syncjob.Job{}, fmt.Errorf("job id=%d: %w", m.ID, err)
	}
	return syncjob.Job{
		ID:          m.ID,
		Type:        syncjob.Type(m.JobType),
		Payload:     payload,
		Status:      syncjob.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: nullTimeToTimePtr(m.ProcessedAt),
		ErrorLog:    nullStringToString(m.ErrorLog),
	}, nil
}
