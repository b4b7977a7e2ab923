// Package prompts holds the generation prompt templates. Templates live in
// embedded JSON files, one object of name-to-template entries per document
// kind, and are addressed by typed keys.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var templateFiles embed.FS

// Key names one template: the file it lives in and its entry name.
type Key struct {
	file string
	name string
}

func (k Key) String() string {
	return k.file + "/" + k.name
}

var (
	Resume                  = Key{"resume.json", "resume"}
	ResumeJobDescription    = Key{"resume.json", "resume-job-description"}
	ResumeExtraInstructions = Key{"resume.json", "resume-extra-instructions"}
	CoverLetter             = Key{"cover_letter.json", "cover-letter"}
	Portfolio               = Key{"portfolio.json", "portfolio"}
	PortfolioProject        = Key{"portfolio.json", "portfolio-project"}
	ScoreMatch              = Key{"ats.json", "score-match"}
)

// Keys lists every template the services render.
func Keys() []Key {
	return []Key{
		Resume, ResumeJobDescription, ResumeExtraInstructions,
		CoverLetter, Portfolio, PortfolioProject, ScoreMatch,
	}
}

var loadTemplates = sync.OnceValues(func() (map[Key]string, error) {
	return parseTemplates(templateFiles)
})

// parseTemplates reads every *.json file of fsys into a key-addressed map.
func parseTemplates(fsys fs.FS) (map[Key]string, error) {
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	templates := make(map[Key]string)
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
		}
		for name, text := range entries {
			templates[Key{file, name}] = text
		}
	}
	return templates, nil
}

// Get returns the template for k.
func Get(k Key) (string, error) {
	templates, err := loadTemplates()
	if err != nil {
		return "", err
	}
	text, ok := templates[k]
	if !ok {
		return "", fmt.Errorf("prompt %s not found", k)
	}
	return text, nil
}

// MustGet is Get for templates that ship with the binary; a missing one
// is a build defect and panics.
func MustGet(k Key) string {
	text, err := Get(k)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Render fills the template for k with data.
func Render(k Key, data map[string]string) string {
	return Format(MustGet(k), data)
}

// Format replaces {{.Field}} placeholders with the values in data.
// Placeholders without a value are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	pairs := make([]string, 0, 2*len(fields))
	for _, field := range fields {
		pairs = append(pairs, "{{."+field+"}}", data[field])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
