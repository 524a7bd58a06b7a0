package resume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"resumeforge/internal/database"
)

// Service 是简历聚合的唯一读写入口，所有操作都先校验身份与归属。
type Service struct {
	store       database.Gateway
	identity    Identity
	invalidator Invalidator
	logger      *slog.Logger
	now         func() time.Time
}

// NewService 构造 Service。invalidator 与 logger 可为 nil。
func NewService(store database.Gateway, identity Identity, invalidator Invalidator, logger *slog.Logger) *Service {
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       store,
		identity:    identity,
		invalidator: invalidator,
		logger:      logger.With(slog.String("component", "resume")),
		now:         time.Now,
	}
}

// WithIdentity 返回共享存储、但以另一身份执行的 Service。
func (s *Service) WithIdentity(identity Identity) *Service {
	clone := *s
	clone.identity = identity
	return &clone
}

func (s *Service) actingUser(ctx context.Context) (string, error) {
	userID, ok := s.identity.CurrentUser(ctx)
	if !ok || userID == "" {
		return "", ErrUnauthorized
	}
	return userID, nil
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnauthorized) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (s *Service) ownedResume(ctx context.Context, store database.Gateway, resumeID, userID string) (*database.Resume, error) {
	resume, err := store.FindOwnedResume(ctx, resumeID, userID)
	if err != nil {
		return nil, notFoundOr(err, "find resume")
	}
	return resume, nil
}

func (s *Service) touch(ctx context.Context, store database.Gateway, resumeID string) error {
	if err := store.UpdateResume(ctx, resumeID, map[string]any{"updated_at": s.now()}); err != nil {
		return notFoundOr(err, "touch resume")
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string, views ...View) {
	if err := s.invalidator.Invalidate(ctx, userID, views...); err != nil {
		s.logger.Warn("invalidate views failed",
			slog.String("user_id", userID),
			slog.Any("views", views),
			slog.Any("error", err),
		)
	}
}

// CreateResume 新建一份空白简历，同时创建空的联系方式行。
func (s *Service) CreateResume(ctx context.Context) (string, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return "", err
	}

	resume := &database.Resume{UserID: userID, Title: DefaultTitle}
	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		if err := tx.CreateResume(ctx, resume); err != nil {
			return err
		}
		return tx.CreateItem(ctx, &database.ContactInfo{ResumeID: resume.ID})
	})
	if err != nil {
		return "", fmt.Errorf("create resume: %w", err)
	}

	s.logger.Info("resume created", slog.String("user_id", userID), slog.String("resume_id", resume.ID))
	s.invalidate(ctx, userID, ViewResumeList, EditorView(resume.ID))
	return resume.ID, nil
}

// ListResumes 按更新时间倒序列出当前用户的简历；未登录时返回空列表。
func (s *Service) ListResumes(ctx context.Context) ([]ListItem, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return []ListItem{}, nil
	}

	resumes, err := s.store.ListResumes(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, ListItem{ID: r.ID, Title: r.Title, UpdatedAt: r.UpdatedAt})
	}
	return items, nil
}

// GetResumeAggregate 返回预加载了全部分区的简历。
func (s *Service) GetResumeAggregate(ctx context.Context, resumeID string) (*database.Resume, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	resume, err := s.store.LoadAggregate(ctx, resumeID, userID)
	if err != nil {
		return nil, notFoundOr(err, "load resume")
	}
	return resume, nil
}

// DeleteResume 删除简历及其全部子记录（含导出记录）。对象存储中的 PDF 由调用方清理。
func (s *Service) DeleteResume(ctx context.Context, resumeID string) error {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		if _, err := s.ownedResume(ctx, tx, resumeID, userID); err != nil {
			return err
		}
		return tx.DeleteResumeCascade(ctx, resumeID)
	})
	if err != nil {
		return notFoundOr(err, "delete resume")
	}

	s.logger.Info("resume deleted", slog.String("user_id", userID), slog.String("resume_id", resumeID))
	s.invalidate(ctx, userID, ViewResumeList, EditorView(resumeID))
	return nil
}

// RenameResume 更新标题，标题会去除首尾空白且不能为空。
func (s *Service) RenameResume(ctx context.Context, resumeID, title string) error {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidInput)
	}

	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		if _, err := s.ownedResume(ctx, tx, resumeID, userID); err != nil {
			return err
		}
		return tx.UpdateResume(ctx, resumeID, map[string]any{"title": title})
	})
	if err != nil {
		return notFoundOr(err, "rename resume")
	}

	s.invalidate(ctx, userID, ViewResumeList, EditorView(resumeID))
	return nil
}

// mutate 在一个事务里完成归属校验、写入和 updated_at 刷新，成功后通知编辑页失效。
func (s *Service) mutate(ctx context.Context, resumeID string, fn func(tx database.Gateway) error) error {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		if _, err := s.ownedResume(ctx, tx, resumeID, userID); err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		return s.touch(ctx, tx, resumeID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, userID, EditorView(resumeID))
	return nil
}

// UpsertContactInfo 创建或局部更新联系方式。
func (s *Service) UpsertContactInfo(ctx context.Context, resumeID string, fields ContactFields) error {
	err := s.mutate(ctx, resumeID, func(tx database.Gateway) error {
		return tx.UpsertContactInfo(ctx, resumeID, fields.updates())
	})
	if err != nil {
		return notFoundOr(err, "upsert contact info")
	}
	return nil
}

// UpsertSummary 创建或覆盖个人简介。
func (s *Service) UpsertSummary(ctx context.Context, resumeID, content string) error {
	err := s.mutate(ctx, resumeID, func(tx database.Gateway) error {
		return tx.UpsertSummary(ctx, resumeID, content)
	})
	if err != nil {
		return notFoundOr(err, "upsert summary")
	}
	return nil
}
