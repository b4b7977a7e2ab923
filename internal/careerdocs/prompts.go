package careerdocs

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/profile"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// Prompt projection limits.
const (
	resumeJobDescriptionChars      = 2000
	coverLetterJobDescriptionChars = 1500
	coverLetterSkills              = 15
	coverLetterRoles               = 3
	portfolioSkills                = 20
	portfolioProjects              = 6
	portfolioRoles                 = 3
	portfolioProjectSections       = 4
)

// DefaultHiringManager addresses cover letters without a named recipient.
const DefaultHiringManager = "Hiring Manager"

// BuildResumePrompt renders the resume prompt for a profile and target role.
func BuildResumePrompt(p types.Profile, jobRole, jobDescription, extraInstructions string) string {
	jdSection := ""
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		jdSection = prompts.Render(prompts.ResumeJobDescription, map[string]string{
			"JobDescription": truncate(jd, resumeJobDescriptionChars),
		})
	}

	extra := ""
	if instructions := strings.TrimSpace(extraInstructions); instructions != "" {
		extra = prompts.Render(prompts.ResumeExtraInstructions, map[string]string{
			"Instructions": instructions,
		})
	}

	return prompts.Render(prompts.Resume, map[string]string{
		"JobRole":               jobRole,
		"Profile":               profile.Document(p),
		"JobDescriptionSection": jdSection,
		"ExtraInstructions":     extra,
	})
}

// BuildCoverLetterPrompt renders the cover letter prompt.
func BuildCoverLetterPrompt(p types.Profile, companyName, jobRole, jobDescription, hiringManager string) string {
	if strings.TrimSpace(hiringManager) == "" {
		hiringManager = DefaultHiringManager
	}
	name := p.PersonalInfo.Name
	if name == "" {
		name = "Candidate"
	}

	return prompts.Render(prompts.CoverLetter, map[string]string{
		"Name":           name,
		"Email":          p.PersonalInfo.Email,
		"Phone":          p.PersonalInfo.Phone,
		"Location":       p.PersonalInfo.Location,
		"Skills":         profile.Skills(p, coverLetterSkills, "Not provided"),
		"Experience":     profile.ExperienceSummary(p, coverLetterRoles),
		"CompanyName":    companyName,
		"JobRole":        jobRole,
		"HiringManager":  hiringManager,
		"JobDescription": truncate(jobDescription, coverLetterJobDescriptionChars),
	})
}

// BuildPortfolioPrompt renders the labeled portfolio prompt. It requests one
// [PROJECT:<name>] block for each of the first four projects.
func BuildPortfolioPrompt(p types.Profile) string {
	name := p.PersonalInfo.Name
	if name == "" {
		name = "Developer"
	}

	projectTemplate := prompts.MustGet(prompts.PortfolioProject)
	var sections []string
	for _, projectName := range profile.ProjectNames(p, portfolioProjectSections) {
		sections = append(sections, prompts.Format(projectTemplate, map[string]string{"Name": projectName}))
	}

	return prompts.Render(prompts.Portfolio, map[string]string{
		"Name":            name,
		"Skills":          profile.Skills(p, portfolioSkills, "Various technologies"),
		"GitHub":          p.PersonalInfo.GitHub,
		"LinkedIn":        p.PersonalInfo.LinkedIn,
		"Summary":         p.PersonalInfo.Summary,
		"Experience":      "\n" + profile.Experience(p, portfolioRoles),
		"Projects":        "\n" + profile.Projects(p, portfolioProjects),
		"ProjectSections": strings.Join(sections, "\n\n"),
	})
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
