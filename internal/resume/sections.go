package resume

import (
	"context"
	"fmt"
	"strings"

	"resumeforge/internal/database"
)

// record 是带字符串主键的子表行。
type record interface {
	PrimaryKey() string
}

// addItem 以“当前行数”作为 sort_order 追加一行，删除时不重排。
func (s *Service) addItem(ctx context.Context, resumeID string, kind any, seed map[string]any, build func(sortOrder int) record) (string, error) {
	var id string
	err := s.mutate(ctx, resumeID, func(tx database.Gateway) error {
		count, err := tx.CountItems(ctx, kind, resumeID)
		if err != nil {
			return err
		}

		row := build(int(count))
		if err := tx.CreateItem(ctx, row); err != nil {
			return err
		}
		id = row.PrimaryKey()

		if len(seed) == 0 {
			return nil
		}
		return tx.UpdateItem(ctx, kind, id, resumeID, seed)
	})
	if err != nil {
		return "", notFoundOr(err, fmt.Sprintf("add %T", kind))
	}
	return id, nil
}

func (s *Service) updateItem(ctx context.Context, id, resumeID string, kind any, updates map[string]any) error {
	err := s.mutate(ctx, resumeID, func(tx database.Gateway) error {
		if len(updates) == 0 {
			return tx.FindItem(ctx, kind, id, resumeID)
		}
		return tx.UpdateItem(ctx, kind, id, resumeID, updates)
	})
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("update %T", kind))
	}
	return nil
}

func (s *Service) deleteItem(ctx context.Context, id, resumeID string, kind any) error {
	err := s.mutate(ctx, resumeID, func(tx database.Gateway) error {
		return tx.DeleteItem(ctx, kind, id, resumeID)
	})
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("delete %T", kind))
	}
	return nil
}

// AddExperience 追加一段工作经历，seed 中的字段会写入新行。
func (s *Service) AddExperience(ctx context.Context, resumeID string, seed ExperienceFields) (string, error) {
	updates, err := seed.updates()
	if err != nil {
		return "", err
	}
	return s.addItem(ctx, resumeID, &database.Experience{}, updates, func(sortOrder int) record {
		return &database.Experience{ResumeID: resumeID, SortOrder: sortOrder}
	})
}

// UpdateExperience 局部更新工作经历。
func (s *Service) UpdateExperience(ctx context.Context, id, resumeID string, fields ExperienceFields) error {
	updates, err := fields.updates()
	if err != nil {
		return err
	}
	return s.updateItem(ctx, id, resumeID, &database.Experience{}, updates)
}

// DeleteExperience 删除工作经历。
func (s *Service) DeleteExperience(ctx context.Context, id, resumeID string) error {
	return s.deleteItem(ctx, id, resumeID, &database.Experience{})
}

// AddEducation 追加一段教育经历。
func (s *Service) AddEducation(ctx context.Context, resumeID string, seed EducationFields) (string, error) {
	updates, err := seed.updates()
	if err != nil {
		return "", err
	}
	return s.addItem(ctx, resumeID, &database.Education{}, updates, func(sortOrder int) record {
		return &database.Education{ResumeID: resumeID, SortOrder: sortOrder}
	})
}

// UpdateEducation 局部更新教育经历。
func (s *Service) UpdateEducation(ctx context.Context, id, resumeID string, fields EducationFields) error {
	updates, err := fields.updates()
	if err != nil {
		return err
	}
	return s.updateItem(ctx, id, resumeID, &database.Education{}, updates)
}

// DeleteEducation 删除教育经历。
func (s *Service) DeleteEducation(ctx context.Context, id, resumeID string) error {
	return s.deleteItem(ctx, id, resumeID, &database.Education{})
}

// AddSkill 追加一项技能，名称去除首尾空白后不能为空。
func (s *Service) AddSkill(ctx context.Context, resumeID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: skill name is empty", ErrInvalidInput)
	}
	return s.addItem(ctx, resumeID, &database.Skill{}, nil, func(sortOrder int) record {
		return &database.Skill{ResumeID: resumeID, Name: name, SortOrder: sortOrder}
	})
}

// UpdateSkill 修改技能名称。
func (s *Service) UpdateSkill(ctx context.Context, id, resumeID string, fields SkillFields) error {
	updates, err := fields.updates()
	if err != nil {
		return err
	}
	return s.updateItem(ctx, id, resumeID, &database.Skill{}, updates)
}

// DeleteSkill 删除技能。
func (s *Service) DeleteSkill(ctx context.Context, id, resumeID string) error {
	return s.deleteItem(ctx, id, resumeID, &database.Skill{})
}

// AddProject 追加一个项目。
func (s *Service) AddProject(ctx context.Context, resumeID string, seed ProjectFields) (string, error) {
	return s.addItem(ctx, resumeID, &database.Project{}, seed.updates(), func(sortOrder int) record {
		return &database.Project{ResumeID: resumeID, SortOrder: sortOrder}
	})
}

// UpdateProject 局部更新项目。
func (s *Service) UpdateProject(ctx context.Context, id, resumeID string, fields ProjectFields) error {
	return s.updateItem(ctx, id, resumeID, &database.Project{}, fields.updates())
}

// DeleteProject 删除项目。
func (s *Service) DeleteProject(ctx context.Context, id, resumeID string) error {
	return s.deleteItem(ctx, id, resumeID, &database.Project{})
}
