package store

import (
	"context"

	"calibreport/internal/model"
)

// DocumentStore 报告文档存储：按名称整体读取、整体覆盖写入
type DocumentStore interface {
	// Load 读取文档，不存在时返回 model.ErrArtifactNotFound
	Load(ctx context.Context, name string) (*model.Document, error)
	// Save 以 doc.Name 为键整体覆盖写入
	Save(ctx context.Context, doc *model.Document) error
	Exists(ctx context.Context, name string) (bool, error)
}
