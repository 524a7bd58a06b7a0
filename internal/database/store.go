package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway 是简历服务依赖的持久化接口。
// 未命中时统一返回 gorm.ErrRecordNotFound。
type Gateway interface {
	// Transaction 在同一事务中执行 fn；fn 返回错误则回滚。
	Transaction(ctx context.Context, fn func(tx Gateway) error) error

	CreateResume(ctx context.Context, resume *Resume) error
	FindOwnedResume(ctx context.Context, id, userID string) (*Resume, error)
	LoadAggregate(ctx context.Context, id, userID string) (*Resume, error)
	ListResumes(ctx context.Context, userID string) ([]Resume, error)
	ListTitlesWithPrefix(ctx context.Context, userID, prefix string) ([]string, error)
	UpdateResume(ctx context.Context, id string, updates map[string]any) error
	DeleteResumeCascade(ctx context.Context, id string) error

	UpsertContactInfo(ctx context.Context, resumeID string, updates map[string]any) error
	UpsertSummary(ctx context.Context, resumeID, content string) error

	CountItems(ctx context.Context, model any, resumeID string) (int64, error)
	CreateItem(ctx context.Context, item any) error
	FindItem(ctx context.Context, dest any, id, resumeID string) error
	UpdateItem(ctx context.Context, model any, id, resumeID string, updates map[string]any) error
	DeleteItem(ctx context.Context, model any, id, resumeID string) error

	CreateExport(ctx context.Context, export *ResumeExport) error
	FindExport(ctx context.Context, id string) (*ResumeExport, error)
	UpdateExport(ctx context.Context, id string, updates map[string]any) error
}

// Store 是基于 GORM 的 Gateway 实现。
type Store struct {
	db *gorm.DB
}

var _ Gateway = (*Store)(nil)

// NewStore 构造 Store。
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction 开启事务，嵌套调用时使用 savepoint。
func (s *Store) Transaction(ctx context.Context, fn func(tx Gateway) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CreateResume 仅写入简历行本身，不级联写入子表。
func (s *Store) CreateResume(ctx context.Context, resume *Resume) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(resume).Error; err != nil {
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

// FindOwnedResume 按 id + user_id 查找简历。
func (s *Store) FindOwnedResume(ctx context.Context, id, userID string) (*Resume, error) {
	var resume Resume
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&resume).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

func bySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}

// LoadAggregate 查找简历并预加载全部子表，集合按 sort_order 升序。
func (s *Store) LoadAggregate(ctx context.Context, id, userID string) (*Resume, error) {
	var resume Resume
	if err := s.db.WithContext(ctx).
		Preload("ContactInfo").
		Preload("Summary").
		Preload("Experiences", bySortOrder).
		Preload("Education", bySortOrder).
		Preload("Skills", bySortOrder).
		Preload("Projects", bySortOrder).
		Where("id = ? AND user_id = ?", id, userID).
		First(&resume).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

// ListResumes 按更新时间倒序列出用户的简历（仅基础字段）。
func (s *Store) ListResumes(ctx context.Context, userID string) ([]Resume, error) {
	var resumes []Resume
	if err := s.db.WithContext(ctx).
		Select("id", "user_id", "title", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike 转义 LIKE 模式中的通配符，配合 ESCAPE '\' 使用。
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListTitlesWithPrefix 返回用户名下标题以 prefix 开头的全部标题。
func (s *Store) ListTitlesWithPrefix(ctx context.Context, userID, prefix string) ([]string, error) {
	var titles []string
	if err := s.db.WithContext(ctx).
		Model(&Resume{}).
		Where(`user_id = ? AND title LIKE ? ESCAPE '\'`, userID, EscapeLike(prefix)+"%").
		Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return titles, nil
}

// UpdateResume 更新简历的指定列。
func (s *Store) UpdateResume(ctx context.Context, id string, updates map[string]any) error {
	result := s.db.WithContext(ctx).Model(&Resume{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteResumeCascade 在一个事务中先删子表、再删简历本身。
func (s *Store) DeleteResumeCascade(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []any{
			&ContactInfo{},
			&Summary{},
			&Experience{},
			&Education{},
			&Skill{},
			&Project{},
			&ResumeExport{},
		}
		for _, model := range children {
			if err := tx.Where("resume_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete %T: %w", model, err)
			}
		}

		result := tx.Where("id = ?", id).Delete(&Resume{})
		if result.Error != nil {
			return fmt.Errorf("delete resume: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertContactInfo 不存在则创建，存在则只更新 updates 中给出的列。
func (s *Store) UpsertContactInfo(ctx context.Context, resumeID string, updates map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var info ContactInfo
		err := tx.Where("resume_id = ?", resumeID).First(&info).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			info = ContactInfo{ResumeID: resumeID}
			if err := tx.Create(&info).Error; err != nil {
				return fmt.Errorf("create contact info: %w", err)
			}
		case err != nil:
			return fmt.Errorf("query contact info: %w", err)
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&info).Updates(updates).Error; err != nil {
			return fmt.Errorf("update contact info: %w", err)
		}
		return nil
	})
}

// UpsertSummary 不存在则创建，存在则覆盖 content。
func (s *Store) UpsertSummary(ctx context.Context, resumeID, content string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var summary Summary
		err := tx.Where("resume_id = ?", resumeID).First(&summary).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			summary = Summary{ResumeID: resumeID, Content: content}
			if err := tx.Create(&summary).Error; err != nil {
				return fmt.Errorf("create summary: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("query summary: %w", err)
		}

		if err := tx.Model(&summary).Update("content", content).Error; err != nil {
			return fmt.Errorf("update summary: %w", err)
		}
		return nil
	})
}

// CountItems 统计某个集合在简历下的行数。
func (s *Store) CountItems(ctx context.Context, model any, resumeID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(model).
		Where("resume_id = ?", resumeID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %T: %w", model, err)
	}
	return count, nil
}

// CreateItem 写入一行子表记录。
func (s *Store) CreateItem(ctx context.Context, item any) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create %T: %w", item, err)
	}
	return nil
}

// FindItem 按 id + resume_id 读取子表记录到 dest。
func (s *Store) FindItem(ctx context.Context, dest any, id, resumeID string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND resume_id = ?", id, resumeID).
		First(dest).Error
}

// UpdateItem 按 id + resume_id 更新子表记录。
func (s *Store) UpdateItem(ctx context.Context, model any, id, resumeID string, updates map[string]any) error {
	result := s.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND resume_id = ?", id, resumeID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update %T: %w", model, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem 按 id + resume_id 删除子表记录。
func (s *Store) DeleteItem(ctx context.Context, model any, id, resumeID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND resume_id = ?", id, resumeID).
		Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %T: %w", model, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateExport 写入导出记录。
func (s *Store) CreateExport(ctx context.Context, export *ResumeExport) error {
	if err := s.db.WithContext(ctx).Create(export).Error; err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	return nil
}

// FindExport 按 id 读取导出记录。
func (s *Store) FindExport(ctx context.Context, id string) (*ResumeExport, error) {
	var export ResumeExport
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&export).Error; err != nil {
		return nil, err
	}
	return &export, nil
}

// UpdateExport 更新导出记录的指定列。
func (s *Store) UpdateExport(ctx context.Context, id string, updates map[string]any) error {
	result := s.db.WithContext(ctx).Model(&ResumeExport{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update export: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
