package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base 提供字符串主键与时间戳，主键在首次写入前生成。
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 为空主键分配 UUID。
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// PrimaryKey 返回主键。
func (b *Base) PrimaryKey() string { return b.ID }

// User 表示系统中的账号信息。
type User struct {
	Base
	Username     string `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// Resume 是简历聚合根，预加载后即为完整的简历聚合。
type Resume struct {
	Base
	UserID string `gorm:"index;size:36" json:"user_id"`
	Title  string `gorm:"type:text" json:"title"`

	ContactInfo *ContactInfo `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"contact_info"`
	Summary     *Summary     `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"summary"`
	Experiences []Experience `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"experiences"`
	Education   []Education  `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"education"`
	Skills      []Skill      `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"skills"`
	Projects    []Project    `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"projects"`
}

// ContactInfo 与 Resume 一对一，首次保存时惰性创建。
type ContactInfo struct {
	Base
	ResumeID string  `gorm:"uniqueIndex;size:36" json:"resume_id"`
	FullName *string `gorm:"size:255" json:"full_name"`
	Email    *string `gorm:"size:255" json:"email"`
	Phone    *string `gorm:"size:64" json:"phone"`
	Location *string `gorm:"size:255" json:"location"`
	LinkedIn *string `gorm:"column:linkedin;size:512" json:"linkedin"`
	GitHub   *string `gorm:"column:github;size:512" json:"github"`
	Website  *string `gorm:"size:512" json:"website"`
}

// Summary 与 Resume 一对一。
type Summary struct {
	Base
	ResumeID string `gorm:"uniqueIndex;size:36" json:"resume_id"`
	Content  string `gorm:"type:text" json:"content"`
}

// Experience 是一段工作经历。
type Experience struct {
	Base
	ResumeID    string     `gorm:"index;size:36" json:"resume_id"`
	Company     string     `gorm:"size:255" json:"company"`
	Position    string     `gorm:"size:255" json:"position"`
	Location    *string    `gorm:"size:255" json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
	Description *string    `gorm:"type:text" json:"description"`
	SortOrder   int        `json:"sort_order"`
}

// Education 是一段教育经历。
type Education struct {
	Base
	ResumeID    string     `gorm:"index;size:36" json:"resume_id"`
	Institution string     `gorm:"size:255" json:"institution"`
	Degree      string     `gorm:"size:255" json:"degree"`
	Field       *string    `gorm:"size:255" json:"field"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `json:"current"`
	Description *string    `gorm:"type:text" json:"description"`
	SortOrder   int        `json:"sort_order"`
}

// Skill 是一项技能。
type Skill struct {
	Base
	ResumeID  string `gorm:"index;size:36" json:"resume_id"`
	Name      string `gorm:"size:255" json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Project 是一个项目经历。
type Project struct {
	Base
	ResumeID    string  `gorm:"index;size:36" json:"resume_id"`
	Name        string  `gorm:"size:255" json:"name"`
	URL         *string `gorm:"column:url;size:512" json:"url"`
	Description *string `gorm:"type:text" json:"description"`
	SortOrder   int     `json:"sort_order"`
}

// Export statuses.
const (
	ExportPending   = "pending"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// ResumeExport 记录一次 PDF 导出及其产物位置。
// Document 保存生成 PDF 时使用的渲染树快照（JSONB）。
type ResumeExport struct {
	Base
	ResumeID  string         `gorm:"index;size:36" json:"resume_id"`
	UserID    string         `gorm:"index;size:36" json:"-"`
	Title     string         `gorm:"type:text" json:"title"`
	Status    string         `gorm:"size:32" json:"status"`
	ObjectKey string         `gorm:"size:512" json:"-"`
	SizeBytes int64          `json:"size_bytes"`
	Document  datatypes.JSON `json:"-"`
	Error     string         `gorm:"size:1024" json:"error,omitempty"`
}

// AllModels 列出需要迁移的全部模型。
func AllModels() []any {
	return []any{
		&User{},
		&Resume{},
		&ContactInfo{},
		&Summary{},
		&Experience{},
		&Education{},
		&Skill{},
		&Project{},
		&ResumeExport{},
	}
}
