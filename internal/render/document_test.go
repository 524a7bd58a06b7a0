package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/database"
)

func strPtr(s string) *string { return &s }

func month(year int, m time.Month) *time.Time {
	t := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildEmptyResumeUsesPlaceholders(t *testing.T) {
	doc := Build(&database.Resume{Title: "Untitled Resume"})

	assert.Equal(t, "Your Name", doc.Name)
	assert.Empty(t, doc.Contact)
	assert.Empty(t, doc.Links)
	assert.Empty(t, doc.Sections)
	assert.Equal(t, "", doc.ContactLine())
}

func TestBuildOmitsSummaryWhenMissing(t *testing.T) {
	doc := Build(&database.Resume{
		Skills: []database.Skill{{Name: "Go"}},
	})

	_, ok := doc.Section(SectionSummary)
	assert.False(t, ok)

	doc = Build(&database.Resume{Summary: &database.Summary{Content: ""}})
	_, ok = doc.Section(SectionSummary)
	assert.False(t, ok, "empty summary content must be omitted")
}

func TestBuildCurrentExperienceShowsPresent(t *testing.T) {
	doc := Build(&database.Resume{
		Experiences: []database.Experience{{
			Company:   "Acme",
			Position:  "Engineer",
			Location:  strPtr("Berlin"),
			StartDate: month(2020, time.March),
			EndDate:   month(2023, time.June),
			Current:   true,
		}},
	})

	s, ok := doc.Section(SectionExperience)
	require.True(t, ok)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, "Engineer", s.Entries[0].Heading)
	assert.Equal(t, "Acme, Berlin", s.Entries[0].Subheading)
	assert.Equal(t, "Mar 2020 - Present", s.Entries[0].Dates)
}

func TestBuildHeaderAndSectionOrder(t *testing.T) {
	doc := Build(&database.Resume{
		ContactInfo: &database.ContactInfo{
			FullName: strPtr("Ada Lovelace"),
			Email:    strPtr("ada@example.com"),
			Location: strPtr("London"),
			Website:  strPtr("https://ada.dev"),
			GitHub:   strPtr("https://github.com/ada"),
		},
		Summary: &database.Summary{Content: "Analyst."},
		Education: []database.Education{{
			Institution: "Cambridge",
			Degree:      "BSc",
			Field:       strPtr("Mathematics"),
			StartDate:   month(1830, time.January),
			EndDate:     month(1833, time.July),
		}},
		Skills:   []database.Skill{{Name: "Go"}, {Name: "SQL"}},
		Projects: []database.Project{{URL: strPtr("https://engine.example")}},
	})

	assert.Equal(t, "Ada Lovelace", doc.Name)
	assert.Equal(t, "ada@example.com • London", doc.ContactLine())
	assert.Equal(t, []Link{
		{Label: "GitHub", URL: "https://github.com/ada"},
		{Label: "Website", URL: "https://ada.dev"},
	}, doc.Links)

	titles := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{SectionSummary, SectionEducation, SectionSkills, SectionProjects}, titles)

	edu, _ := doc.Section(SectionEducation)
	assert.Equal(t, "BSc in Mathematics", edu.Entries[0].Heading)
	assert.Equal(t, "Jan 1830 - Jul 1833", edu.Entries[0].Dates)

	skills, _ := doc.Section(SectionSkills)
	assert.Equal(t, "Go, SQL", skills.Text)

	projects, _ := doc.Section(SectionProjects)
	assert.Equal(t, "Project", projects.Entries[0].Heading)
	assert.Equal(t, "https://engine.example", projects.Entries[0].URL)
}

func TestDateRangeWithoutDates(t *testing.T) {
	assert.Equal(t, " - ", DateRange(nil, nil, false))
	assert.Equal(t, " - Present", DateRange(nil, nil, true))
}

func TestHTMLEscapesContent(t *testing.T) {
	doc := Build(&database.Resume{
		ContactInfo: &database.ContactInfo{FullName: strPtr("<script>alert(1)</script>")},
		Summary:     &database.Summary{Content: "Builds things"},
	})

	out, err := HTML(doc, "My Resume")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<title>My Resume</title>")
	assert.Contains(t, html, "size: letter")
	assert.Contains(t, html, "Builds things")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.True(t, strings.Contains(html, "&lt;script&gt;"))
}
