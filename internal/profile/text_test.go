package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/types"
)

func sampleProfile() types.Profile {
	return types.Profile{
		PersonalInfo: types.PersonalInfo{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Summary: "Backend engineer.",
		},
		Skills: []string{"Go", "PostgreSQL", "Kubernetes"},
		Experience: []types.ExperienceItem{
			{Company: "Acme", Role: "Engineer", Duration: "2020-2023", Description: "Built APIs"},
		},
		Projects: []types.ProjectItem{
			{Name: "Resume Builder", TechStack: "Go", Description: "CLI tool"},
			{Name: ""},
		},
		Certifications: []types.CertificationItem{{Name: "CKA", Issuer: "CNCF", Year: "2022"}},
		Education: []types.EducationItem{
			{Institution: "MIT", Degree: "BSc", Field: "CS", YearStart: "2014", YearEnd: "2018"},
		},
	}
}

func TestToText(t *testing.T) {
	text := ToText(sampleProfile())

	assert.Equal(t,
		"Jane Doe Backend engineer. Skills: Go, PostgreSQL, Kubernetes "+
			"Engineer at Acme - Built APIs "+
			"Project: Resume Builder - CLI tool (Go) Project:  -  () "+
			"Certification: CKA by CNCF "+
			"BSc in CS from MIT",
		text)
}

func TestToText_Empty(t *testing.T) {
	assert.Equal(t, "  Skills: ", ToText(types.Profile{}))
}

func TestSkills(t *testing.T) {
	p := sampleProfile()

	assert.Equal(t, "Go, PostgreSQL", Skills(p, 2, "none"))
	assert.Equal(t, "Go, PostgreSQL, Kubernetes", Skills(p, 0, "none"))
	assert.Equal(t, "none", Skills(types.Profile{}, 5, "none"))
}

func TestExperienceSummary(t *testing.T) {
	assert.Equal(t, "Engineer at Acme (2020-2023)", ExperienceSummary(sampleProfile(), 3))
	assert.Equal(t, "Entry level", ExperienceSummary(types.Profile{}, 3))
}

func TestProjectNames(t *testing.T) {
	assert.Equal(t, []string{"Resume Builder", "Project 2"}, ProjectNames(sampleProfile(), 4))
	assert.Equal(t, []string{"Resume Builder"}, ProjectNames(sampleProfile(), 1))
	assert.Empty(t, ProjectNames(types.Profile{}, 4))
}

func TestEducation_DefaultsGPA(t *testing.T) {
	assert.Equal(t, "- BSc in CS | MIT | 2014-2018 | GPA: N/A", Education(sampleProfile()))
}

func TestDocument(t *testing.T) {
	doc := Document(sampleProfile())

	assert.Contains(t, doc, "Name: Jane Doe\n")
	assert.Contains(t, doc, "SKILLS:\nGo, PostgreSQL, Kubernetes")
	assert.Contains(t, doc, "INTERNSHIPS:\nNot provided")
	assert.Contains(t, doc, "ACHIEVEMENTS:\nNot provided")

	assert.Contains(t, Document(types.Profile{}), "Name: Candidate\n")
}
