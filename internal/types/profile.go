package types

// PersonalInfo holds contact details and the candidate's own summary.
type PersonalInfo struct {
	Name     string `json:"name" validate:"max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=50"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
	GitHub   string `json:"github" validate:"omitempty,url"`
	Location string `json:"location" validate:"max=200"`
	Website  string `json:"website" validate:"omitempty,url"`
	Summary  string `json:"summary" validate:"max=5000"`
}

type EducationItem struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	YearStart   string `json:"year_start"`
	YearEnd     string `json:"year_end"`
	GPA         string `json:"gpa"`
}

type ExperienceItem struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type ProjectItem struct {
	Name        string `json:"name"`
	TechStack   string `json:"tech_stack"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type CertificationItem struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	Link   string `json:"link"`
}

type InternshipItem struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Profile is a user's structured career data. It is stored as one JSON
// document per user.
type Profile struct {
	PersonalInfo   PersonalInfo        `json:"personal_info"`
	Education      []EducationItem     `json:"education"`
	Experience     []ExperienceItem    `json:"experience"`
	Skills         []string            `json:"skills" validate:"max=200,dive,max=100"`
	Projects       []ProjectItem       `json:"projects"`
	Certifications []CertificationItem `json:"certifications"`
	Internships    []InternshipItem    `json:"internships"`
	Achievements   string              `json:"achievements"`
}

// Normalize replaces nil lists with empty ones so the stored document and API
// responses always carry arrays.
func (p *Profile) Normalize() {
	if p.Education == nil {
		p.Education = []EducationItem{}
	}
	if p.Experience == nil {
		p.Experience = []ExperienceItem{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []ProjectItem{}
	}
	if p.Certifications == nil {
		p.Certifications = []CertificationItem{}
	}
	if p.Internships == nil {
		p.Internships = []InternshipItem{}
	}
}

// Validate validates the Profile using the validator.
func (p *Profile) Validate() error {
	return validate.Struct(p)
}

// ProfileUpdateRequest is a partial profile update. Nil fields are left unchanged.
type ProfileUpdateRequest struct {
	PersonalInfo   *PersonalInfo        `json:"personal_info,omitempty"`
	Education      *[]EducationItem     `json:"education,omitempty"`
	Experience     *[]ExperienceItem    `json:"experience,omitempty"`
	Skills         *[]string            `json:"skills,omitempty"`
	Projects       *[]ProjectItem       `json:"projects,omitempty"`
	Certifications *[]CertificationItem `json:"certifications,omitempty"`
	Internships    *[]InternshipItem    `json:"internships,omitempty"`
	Achievements   *string              `json:"achievements,omitempty"`
}

// Apply merges the update into p.
func (r *ProfileUpdateRequest) Apply(p *Profile) {
	if r.PersonalInfo != nil {
		p.PersonalInfo = *r.PersonalInfo
	}
	if r.Education != nil {
		p.Education = *r.Education
	}
	if r.Experience != nil {
		p.Experience = *r.Experience
	}
	if r.Skills != nil {
		p.Skills = *r.Skills
	}
	if r.Projects != nil {
		p.Projects = *r.Projects
	}
	if r.Certifications != nil {
		p.Certifications = *r.Certifications
	}
	if r.Internships != nil {
		p.Internships = *r.Internships
	}
	if r.Achievements != nil {
		p.Achievements = *r.Achievements
	}
	p.Normalize()
}
