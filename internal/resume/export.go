package resume

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"gorm.io/datatypes"

	"resumeforge/internal/database"
)

// RequestExport 为简历登记一条 pending 导出记录，由调用方负责投递任务。
func (s *Service) RequestExport(ctx context.Context, resumeID string) (*database.ResumeExport, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	var export *database.ResumeExport
	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		resume, err := s.ownedResume(ctx, tx, resumeID, userID)
		if err != nil {
			return err
		}
		export = &database.ResumeExport{
			ResumeID: resume.ID,
			UserID:   userID,
			Title:    resume.Title,
			Status:   database.ExportPending,
		}
		return tx.CreateExport(ctx, export)
	})
	if err != nil {
		return nil, notFoundOr(err, "request export")
	}

	s.logger.Info("export requested",
		slog.String("user_id", userID),
		slog.String("resume_id", resumeID),
		slog.String("export_id", export.ID),
	)
	return export, nil
}

// GetExport 返回导出记录，记录必须属于当前用户且挂在 resumeID 下。
func (s *Service) GetExport(ctx context.Context, resumeID, exportID string) (*database.ResumeExport, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	export, err := s.ownedExport(ctx, exportID, userID)
	if err != nil {
		return nil, err
	}
	if export.ResumeID != resumeID {
		return nil, ErrNotFound
	}
	return export, nil
}

// ExportSource 返回导出记录及其对应的简历聚合，供 worker 渲染。
func (s *Service) ExportSource(ctx context.Context, exportID string) (*database.ResumeExport, *database.Resume, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	export, err := s.ownedExport(ctx, exportID, userID)
	if err != nil {
		return nil, nil, err
	}

	resume, err := s.store.LoadAggregate(ctx, export.ResumeID, userID)
	if err != nil {
		return nil, nil, notFoundOr(err, "load export source")
	}
	return export, resume, nil
}

// CompleteExport 记录导出产物。document 为生成 PDF 时的渲染树快照。
func (s *Service) CompleteExport(ctx context.Context, exportID, objectKey string, size int64, document []byte) error {
	return s.finishExport(ctx, exportID, map[string]any{
		"status":     database.ExportCompleted,
		"object_key": objectKey,
		"size_bytes": size,
		"document":   datatypes.JSON(document),
		"error":      "",
	})
}

// maxExportErrorRunes 与 resume_exports.error 的列宽一致（按字符计）。
const maxExportErrorRunes = 1024

// FailExport 把导出标记为失败，原因超长时按字符截断。
func (s *Service) FailExport(ctx context.Context, exportID, reason string) error {
	return s.finishExport(ctx, exportID, map[string]any{
		"status": database.ExportFailed,
		"error":  truncateRunes(reason, maxExportErrorRunes),
	})
}

// truncateRunes 保留前 n 个字符，不会切开多字节字符。
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func (s *Service) finishExport(ctx context.Context, exportID string, updates map[string]any) error {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		export, err := tx.FindExport(ctx, exportID)
		if err != nil {
			return err
		}
		if export.UserID != userID {
			return ErrNotFound
		}
		return tx.UpdateExport(ctx, exportID, updates)
	})
	if err != nil {
		return notFoundOr(err, "update export")
	}
	return nil
}

func (s *Service) ownedExport(ctx context.Context, exportID, userID string) (*database.ResumeExport, error) {
	export, err := s.store.FindExport(ctx, exportID)
	if err != nil {
		return nil, notFoundOr(err, "find export")
	}
	if export.UserID != userID {
		return nil, ErrNotFound
	}
	return export, nil
}
