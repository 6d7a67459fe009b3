package store

import (
	"context"
	"fmt"
	"time"
)

// StageLog 流程阶段日志
type StageLog struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	Stage      string    `json:"stage"`
	Instrument string    `json:"instrument"`
	Parameter  string    `json:"parameter"`
	Grade      string    `json:"grade"`
	Status     string    `json:"status"` // ok / failed
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecordStage 写入一条阶段日志，返回日志 id
func (s *Store) RecordStage(ctx context.Context, entry StageLog) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO stage_logs (session_id, stage, instrument, parameter, grade, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.SessionID, entry.Stage, entry.Instrument, entry.Parameter, entry.Grade, entry.Status, entry.Message)
	if err != nil {
		return 0, fmt.Errorf("failed to record stage log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get stage log id: %w", err)
	}
	return id, nil
}

// ListStageLogs 最近的阶段日志（按 id 倒序）
func (s *Store) ListStageLogs(ctx context.Context, limit int) ([]StageLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, stage, instrument, parameter, grade, status, message, created_at
		FROM stage_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query stage logs failed: %w", err)
	}
	defer rows.Close()

	var out []StageLog
	for rows.Next() {
		var it StageLog
		if err := rows.Scan(&it.ID, &it.SessionID, &it.Stage, &it.Instrument, &it.Parameter, &it.Grade, &it.Status, &it.Message, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage logs failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage logs failed: %w", err)
	}
	return out, nil
}
