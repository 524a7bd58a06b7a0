package resume

import (
	"fmt"
	"strings"
	"time"
)

// ContactFields 是联系方式的局部更新；nil 字段保持不变，空串清空该字段。
type ContactFields struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	LinkedIn *string `json:"linkedin"`
	GitHub   *string `json:"github"`
	Website  *string `json:"website"`
}

func (f ContactFields) updates() map[string]any {
	u := map[string]any{}
	setOptional(u, "full_name", f.FullName)
	setOptional(u, "email", f.Email)
	setOptional(u, "phone", f.Phone)
	setOptional(u, "location", f.Location)
	setOptional(u, "linkedin", f.LinkedIn)
	setOptional(u, "github", f.GitHub)
	setOptional(u, "website", f.Website)
	return u
}

// ExperienceFields 是工作经历的局部更新。日期为 YYYY-MM-DD 或 YYYY-MM，空串清空。
type ExperienceFields struct {
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	Location    *string `json:"location"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
}

func (f ExperienceFields) updates() (map[string]any, error) {
	u := map[string]any{}
	setRequired(u, "company", f.Company)
	setRequired(u, "position", f.Position)
	setOptional(u, "location", f.Location)
	if err := setDate(u, "start_date", f.StartDate); err != nil {
		return nil, err
	}
	if err := setDate(u, "end_date", f.EndDate); err != nil {
		return nil, err
	}
	if f.Current != nil {
		u["current"] = *f.Current
	}
	setOptional(u, "description", f.Description)
	return u, nil
}

// EducationFields 是教育经历的局部更新。
type EducationFields struct {
	Institution *string `json:"institution"`
	Degree      *string `json:"degree"`
	Field       *string `json:"field"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Current     *bool   `json:"current"`
	Description *string `json:"description"`
}

func (f EducationFields) updates() (map[string]any, error) {
	u := map[string]any{}
	setRequired(u, "institution", f.Institution)
	setRequired(u, "degree", f.Degree)
	setOptional(u, "field", f.Field)
	if err := setDate(u, "start_date", f.StartDate); err != nil {
		return nil, err
	}
	if err := setDate(u, "end_date", f.EndDate); err != nil {
		return nil, err
	}
	if f.Current != nil {
		u["current"] = *f.Current
	}
	setOptional(u, "description", f.Description)
	return u, nil
}

// SkillFields 是技能的局部更新。
type SkillFields struct {
	Name *string `json:"name"`
}

func (f SkillFields) updates() (map[string]any, error) {
	u := map[string]any{}
	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: skill name is empty", ErrInvalidInput)
		}
		u["name"] = name
	}
	return u, nil
}

// ProjectFields 是项目的局部更新。
type ProjectFields struct {
	Name        *string `json:"name"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
}

func (f ProjectFields) updates() map[string]any {
	u := map[string]any{}
	setRequired(u, "name", f.Name)
	setOptional(u, "url", f.URL)
	setOptional(u, "description", f.Description)
	return u
}

func setRequired(u map[string]any, column string, value *string) {
	if value != nil {
		u[column] = *value
	}
}

// 可空列：空串写为 NULL。
func setOptional(u map[string]any, column string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		u[column] = nil
		return
	}
	u[column] = *value
}

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

func setDate(u map[string]any, column string, value *string) error {
	if value == nil {
		return nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		u[column] = nil
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	u[column] = t
	return nil
}

// ParseDate 解析表单提交的日期字符串，结果为 UTC。
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, raw)
}
