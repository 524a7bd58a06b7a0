package render

import (
	"strings"
	"time"

	"resumeforge/internal/database"
)

const (
	placeholderName     = "Your Name"
	placeholderPosition = "Position"
	placeholderProject  = "Project"

	dateLayout = "Jan 2006"
)

// Section 标题，顺序即渲染顺序。
const (
	SectionSummary    = "Summary"
	SectionExperience = "Experience"
	SectionEducation  = "Education"
	SectionSkills     = "Skills"
	SectionProjects   = "Projects"
)

// Document 是简历的渲染树，预览页与 PDF 共用。
type Document struct {
	Name     string    `json:"name"`
	Contact  []string  `json:"contact"`
	Links    []Link    `json:"links"`
	Sections []Section `json:"sections"`
}

// Link 是页眉中的外链。
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Section 是一个分区；Text 仅用于 Summary 与 Skills。
type Section struct {
	Title   string  `json:"title"`
	Text    string  `json:"text,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
}

// Entry 是分区中的一条记录。
type Entry struct {
	Heading     string `json:"heading"`
	Subheading  string `json:"subheading,omitempty"`
	Dates       string `json:"dates,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// ContactLine 以空格拼接联系方式。
func (d Document) ContactLine() string {
	return strings.Join(d.Contact, " ")
}

// Section 按标题查找分区。
func (d Document) Section(title string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Build 把简历聚合转换为渲染树。空分区不输出。
func Build(resume *database.Resume) Document {
	doc := Document{Name: placeholderName, Contact: []string{}, Links: []Link{}, Sections: []Section{}}
	if resume == nil {
		return doc
	}

	if info := resume.ContactInfo; info != nil {
		if v := value(info.FullName); v != "" {
			doc.Name = v
		}
		if v := value(info.Email); v != "" {
			doc.Contact = append(doc.Contact, v)
		}
		if v := value(info.Phone); v != "" {
			doc.Contact = append(doc.Contact, "• "+v)
		}
		if v := value(info.Location); v != "" {
			doc.Contact = append(doc.Contact, "• "+v)
		}
		for _, l := range []Link{
			{Label: "LinkedIn", URL: value(info.LinkedIn)},
			{Label: "GitHub", URL: value(info.GitHub)},
			{Label: "Website", URL: value(info.Website)},
		} {
			if l.URL != "" {
				doc.Links = append(doc.Links, l)
			}
		}
	}

	if resume.Summary != nil && resume.Summary.Content != "" {
		doc.Sections = append(doc.Sections, Section{Title: SectionSummary, Text: resume.Summary.Content})
	}

	if len(resume.Experiences) > 0 {
		s := Section{Title: SectionExperience}
		for _, exp := range resume.Experiences {
			sub := exp.Company
			if loc := value(exp.Location); loc != "" {
				sub += ", " + loc
			}
			s.Entries = append(s.Entries, Entry{
				Heading:     orDefault(exp.Position, placeholderPosition),
				Subheading:  sub,
				Dates:       DateRange(exp.StartDate, exp.EndDate, exp.Current),
				Description: value(exp.Description),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}

	if len(resume.Education) > 0 {
		s := Section{Title: SectionEducation}
		for _, edu := range resume.Education {
			heading := edu.Degree
			if field := value(edu.Field); field != "" {
				heading += " in " + field
			}
			s.Entries = append(s.Entries, Entry{
				Heading:     heading,
				Subheading:  edu.Institution,
				Dates:       DateRange(edu.StartDate, edu.EndDate, edu.Current),
				Description: value(edu.Description),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}

	if len(resume.Skills) > 0 {
		names := make([]string, 0, len(resume.Skills))
		for _, skill := range resume.Skills {
			names = append(names, skill.Name)
		}
		doc.Sections = append(doc.Sections, Section{Title: SectionSkills, Text: strings.Join(names, ", ")})
	}

	if len(resume.Projects) > 0 {
		s := Section{Title: SectionProjects}
		for _, p := range resume.Projects {
			s.Entries = append(s.Entries, Entry{
				Heading:     orDefault(p.Name, placeholderProject),
				URL:         value(p.URL),
				Description: value(p.Description),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}

	return doc
}

// FormatDate 以 "Jan 2006" 输出日期，nil 为空串。
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// DateRange 输出 "start - end"，current 时 end 为 "Present"。
func DateRange(start, end *time.Time, current bool) string {
	to := FormatDate(end)
	if current {
		to = "Present"
	}
	return FormatDate(start) + " - " + to
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
