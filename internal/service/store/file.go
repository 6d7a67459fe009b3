package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"

	"calibreport/internal/model"
	"calibreport/internal/service/excel"
)

// DefaultExtension 报告文件扩展名
const DefaultExtension = "xlsx"

// FileStore 以 <dir>/<name>.<ext> 保存报告，每次保存整体覆盖文件
type FileStore struct {
	dir string
	ext string
	fs  afs.Service
}

// NewFileStore 创建文件存储，必要时创建目录
func NewFileStore(dir, ext string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("report directory is required")
	}
	if ext == "" {
		ext = DefaultExtension
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileStore{dir: dir, ext: strings.TrimPrefix(ext, "."), fs: afs.New()}, nil
}

// Path 报告文件路径
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+"."+s.ext)
}

// Load 读取并解码报告
func (s *FileStore) Load(ctx context.Context, name string) (*model.Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrArtifactNotFound, s.Path(name))
	}

	data, err := s.fs.DownloadWithURL(ctx, s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", s.Path(name), err)
	}
	return excel.DecodeReport(name, data)
}

// Save 编码并整体覆盖写入
func (s *FileStore) Save(ctx context.Context, doc *model.Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := validateName(doc.Name); err != nil {
		return err
	}

	data, err := excel.EncodeReport(doc)
	if err != nil {
		return err
	}

	path := s.Path(doc.Name)
	if err := s.fs.Upload(ctx, path, 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// Exists 报告文件是否存在
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	return s.fs.Exists(ctx, s.Path(name))
}

// validateName 报告名直接作为文件名使用，不允许路径分隔符
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("report name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid report name %q", name)
	}
	return nil
}
