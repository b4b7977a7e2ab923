// Package profile renders stored career profiles as plain text for scoring
// and prompt construction.
package profile

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const notProvided = "Not provided"

// ToText projects a profile onto a single plain-text string used as the
// candidate text when no resume is available.
func ToText(p types.Profile) string {
	parts := []string{
		p.PersonalInfo.Name,
		p.PersonalInfo.Summary,
		"Skills: " + strings.Join(p.Skills, ", "),
	}

	for _, e := range p.Experience {
		parts = append(parts, fmt.Sprintf("%s at %s - %s", e.Role, e.Company, e.Description))
	}
	for _, pr := range p.Projects {
		parts = append(parts, fmt.Sprintf("Project: %s - %s (%s)", pr.Name, pr.Description, pr.TechStack))
	}
	for _, c := range p.Certifications {
		parts = append(parts, fmt.Sprintf("Certification: %s by %s", c.Name, c.Issuer))
	}
	for _, e := range p.Education {
		parts = append(parts, fmt.Sprintf("%s in %s from %s", e.Degree, e.Field, e.Institution))
	}

	return strings.Join(parts, " ")
}

// Skills joins up to limit skills with commas. A non-positive limit keeps all.
func Skills(p types.Profile, limit int, fallback string) string {
	skills := p.Skills
	if limit > 0 && len(skills) > limit {
		skills = skills[:limit]
	}
	if len(skills) == 0 {
		return fallback
	}
	return strings.Join(skills, ", ")
}

// Experience renders up to limit roles, one per line.
func Experience(p types.Profile, limit int) string {
	var lines []string
	for i, e := range p.Experience {
		if limit > 0 && i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s at %s (%s): %s", e.Role, e.Company, e.Duration, e.Description))
	}
	return joinLines(lines)
}

// ExperienceSummary renders up to limit roles on one line, for cover letters.
func ExperienceSummary(p types.Profile, limit int) string {
	var roles []string
	for i, e := range p.Experience {
		if limit > 0 && i >= limit {
			break
		}
		roles = append(roles, fmt.Sprintf("%s at %s (%s)", e.Role, e.Company, e.Duration))
	}
	if len(roles) == 0 {
		return "Entry level"
	}
	return strings.Join(roles, "; ")
}

// Internships renders every internship, one per line.
func Internships(p types.Profile) string {
	var lines []string
	for _, i := range p.Internships {
		lines = append(lines, fmt.Sprintf("- %s at %s (%s): %s", i.Role, i.Company, i.Duration, i.Description))
	}
	return joinLines(lines)
}

// Projects renders up to limit projects, one per line.
func Projects(p types.Profile, limit int) string {
	var lines []string
	for i, pr := range p.Projects {
		if limit > 0 && i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s | %s | %s: %s", pr.Name, pr.TechStack, pr.Link, pr.Description))
	}
	return joinLines(lines)
}

// Education renders every education entry, one per line.
func Education(p types.Profile) string {
	var lines []string
	for _, e := range p.Education {
		gpa := e.GPA
		if gpa == "" {
			gpa = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- %s in %s | %s | %s-%s | GPA: %s", e.Degree, e.Field, e.Institution, e.YearStart, e.YearEnd, gpa))
	}
	return joinLines(lines)
}

// Certifications renders every certification, one per line.
func Certifications(p types.Profile) string {
	var lines []string
	for _, c := range p.Certifications {
		lines = append(lines, fmt.Sprintf("- %s by %s (%s)", c.Name, c.Issuer, c.Year))
	}
	return joinLines(lines)
}

// ProjectNames returns up to limit project names, substituting "Project N"
// for unnamed entries.
func ProjectNames(p types.Profile, limit int) []string {
	var names []string
	for i, pr := range p.Projects {
		if limit > 0 && i >= limit {
			break
		}
		name := strings.TrimSpace(pr.Name)
		if name == "" {
			name = fmt.Sprintf("Project %d", i+1)
		}
		names = append(names, name)
	}
	return names
}

// Document renders the full profile block used by the resume prompt.
func Document(p types.Profile) string {
	info := p.PersonalInfo
	name := info.Name
	if name == "" {
		name = "Candidate"
	}

	achievements := p.Achievements
	if achievements == "" {
		achievements = notProvided
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Email: %s\n", info.Email)
	fmt.Fprintf(&b, "Phone: %s\n", info.Phone)
	fmt.Fprintf(&b, "LinkedIn: %s\n", info.LinkedIn)
	fmt.Fprintf(&b, "GitHub: %s\n", info.GitHub)
	fmt.Fprintf(&b, "Location: %s\n", info.Location)
	fmt.Fprintf(&b, "Professional Summary: %s\n\n", info.Summary)
	fmt.Fprintf(&b, "SKILLS:\n%s\n\n", Skills(p, 0, notProvided))
	fmt.Fprintf(&b, "EDUCATION:\n%s\n\n", Education(p))
	fmt.Fprintf(&b, "WORK EXPERIENCE:\n%s\n\n", Experience(p, 0))
	fmt.Fprintf(&b, "INTERNSHIPS:\n%s\n\n", Internships(p))
	fmt.Fprintf(&b, "PROJECTS:\n%s\n\n", Projects(p, 0))
	fmt.Fprintf(&b, "CERTIFICATIONS:\n%s\n\n", Certifications(p))
	fmt.Fprintf(&b, "ACHIEVEMENTS:\n%s\n", achievements)
	return b.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return notProvided
	}
	return strings.Join(lines, "\n")
}
