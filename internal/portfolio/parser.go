// Package portfolio parses a labeled generation response into portfolio
// sections.
//
// The response is a sequence of blocks introduced by [ABOUT_ME], [BIO],
// [LINKEDIN], [PROJECT:<name>] and [GITHUB]. Parsing is a state machine: Step
// is its pure transition function and Parse drives it over every line.
package portfolio

import (
	"slices"
	"strings"
)

// Label identifies the section a parser state is accumulating.
type Label int

const (
	LabelNone Label = iota
	LabelAbout
	LabelBio
	LabelLinkedIn
	LabelProject
	LabelGitHub
)

func (l Label) String() string {
	switch l {
	case LabelAbout:
		return "ABOUT_ME"
	case LabelBio:
		return "BIO"
	case LabelLinkedIn:
		return "LINKEDIN"
	case LabelProject:
		return "PROJECT"
	case LabelGitHub:
		return "GITHUB"
	default:
		return "NONE"
	}
}

const projectPrefix = "[PROJECT:"

var singularLabels = []struct {
	marker string
	label  Label
}{
	{"[ABOUT_ME]", LabelAbout},
	{"[BIO]", LabelBio},
	{"[LINKEDIN]", LabelLinkedIn},
	{"[GITHUB]", LabelGitHub},
}

// ProjectDescription is one generated project card.
type ProjectDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Sections is the structured result of a portfolio response.
type Sections struct {
	AboutMe             string               `json:"about_me"`
	ProfessionalBio     string               `json:"professional_bio"`
	LinkedInSummary     string               `json:"linkedin_summary"`
	ProjectDescriptions []ProjectDescription `json:"project_descriptions"`
	GitHubHighlights    string               `json:"github_highlights"`
}

// IsEmpty reports whether no section received content or a project entry.
func (s Sections) IsEmpty() bool {
	return s.AboutMe == "" && s.ProfessionalBio == "" && s.LinkedInSummary == "" &&
		s.GitHubHighlights == "" && len(s.ProjectDescriptions) == 0
}

// State is the parser state: the active label, the project name when the
// label is LabelProject, and the lines buffered for the active section.
type State struct {
	Label   Label
	Project string
	lines   []string
}

// Emission is a finished section produced when a label closes the active one
// or input ends.
type Emission struct {
	Label   Label
	Project string
	Content string
}

// Step is the transition function. A label line closes the active section
// (returned as an Emission) and opens a new one with an empty buffer; text
// after the label on the same line is dropped. Any other line is buffered
// for the active section or discarded when no section is active. Step never
// changes the lines visible through state.
func Step(state State, line string) (State, *Emission) {
	next, ok := matchLabel(line)
	if !ok {
		if state.Label == LabelNone {
			return state, nil
		}
		state.lines = append(slices.Clip(state.lines), line)
		return state, nil
	}

	return next, Finish(state)
}

// Finish flushes the active section of state, or returns nil when none is active.
func Finish(state State) *Emission {
	if state.Label == LabelNone {
		return nil
	}
	return &Emission{
		Label:   state.Label,
		Project: state.Project,
		Content: flush(state.lines),
	}
}

// Parse runs the state machine over raw and returns the collected sections.
// It never fails; unlabeled input yields empty sections. A repeated singular
// label overwrites the earlier content; projects accumulate in order.
func Parse(raw string) Sections {
	result := Sections{ProjectDescriptions: []ProjectDescription{}}

	var state State
	for _, line := range strings.Split(raw, "\n") {
		var emit *Emission
		state, emit = Step(state, strings.TrimSuffix(line, "\r"))
		result.apply(emit)
	}
	result.apply(Finish(state))

	return result
}

func (s *Sections) apply(e *Emission) {
	if e == nil {
		return
	}
	switch e.Label {
	case LabelAbout:
		s.AboutMe = e.Content
	case LabelBio:
		s.ProfessionalBio = e.Content
	case LabelLinkedIn:
		s.LinkedInSummary = e.Content
	case LabelGitHub:
		s.GitHubHighlights = e.Content
	case LabelProject:
		s.ProjectDescriptions = append(s.ProjectDescriptions, ProjectDescription{
			Name:        e.Project,
			Description: e.Content,
		})
	}
}

// matchLabel recognises a label at the start of the trimmed line and returns
// the state it opens. Unknown bracketed markers are not labels.
func matchLabel(line string) (State, bool) {
	trimmed := strings.TrimSpace(line)

	if rest, ok := strings.CutPrefix(trimmed, projectPrefix); ok {
		name, _, _ := strings.Cut(rest, "]")
		return State{Label: LabelProject, Project: strings.TrimSpace(name)}, true
	}

	for _, l := range singularLabels {
		if strings.HasPrefix(trimmed, l.marker) {
			return State{Label: l.label}, true
		}
	}

	return State{}, false
}

// flush trims blank lines at both ends, joins with newlines and trims the result.
func flush(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}
