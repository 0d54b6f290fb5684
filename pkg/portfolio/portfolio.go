// Package portfolio holds the skills, experience and certifications data
// rendered on the portfolio pages.
package portfolio

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

// File names inside the data directory.
const (
	SkillsFile         = "skills.json"
	ExperienceFile     = "experience.json"
	CertificationsFile = "certifications.json"
)

// Skill is one entry of a skill category. Level is a percentage.
type Skill struct {
	Name        string `json:"name" yaml:"name"`
	Level       int    `json:"level" yaml:"level"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Category groups related skills.
type Category struct {
	Name   string  `json:"name" yaml:"name"`
	Skills []Skill `json:"skills" yaml:"skills"`
}

// Skills is the skills.json document.
type Skills struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Technology is a tool used in a job. In JSON it is either an object or a
// bare name.
type Technology struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Technology) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Technology{Name: name}
		return nil
	}
	type plain Technology
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("technology must be a string or an object: %w", err)
	}
	*t = Technology(p)
	return nil
}

// Job is one position of the experience timeline.
type Job struct {
	ID               string       `json:"id" yaml:"id"`
	Company          string       `json:"company" yaml:"company"`
	Location         string       `json:"location,omitempty" yaml:"location,omitempty"`
	Position         string       `json:"position" yaml:"position"`
	Duration         string       `json:"duration" yaml:"duration"`
	Current          bool         `json:"current" yaml:"current"`
	Description      string       `json:"description,omitempty" yaml:"description,omitempty"`
	Responsibilities []string     `json:"responsibilities,omitempty" yaml:"responsibilities,omitempty"`
	Technologies     []Technology `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Highlights       []string     `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Experience is the experience.json document.
type Experience struct {
	Timeline []Job `json:"timeline" yaml:"timeline"`
}

// Certification is one certificate.
type Certification struct {
	Name        string   `json:"name" yaml:"name"`
	Issuer      string   `json:"issuer" yaml:"issuer"`
	IssueDate   string   `json:"issueDate,omitempty" yaml:"issue_date,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Skills      []string `json:"skills,omitempty" yaml:"skills,omitempty"`
}

// Certifications is the certifications.json document.
type Certifications struct {
	Certifications []Certification `json:"certifications" yaml:"certifications"`
}

// Data is the full portfolio.
type Data struct {
	Skills         Skills         `json:"skills" yaml:"skills"`
	Experience     Experience     `json:"experience" yaml:"experience"`
	Certifications Certifications `json:"certifications" yaml:"certifications"`

	// Fallback is set when the built-in data replaced the files in the
	// data directory. Cause holds the first failure.
	Fallback bool  `json:"fallback" yaml:"fallback"`
	Cause    error `json:"-" yaml:"-"`
}

// Load reads the three data files from dir. If any of them is missing or
// invalid, all three come from the built-in data. The returned error is
// reserved for broken built-in data.
func Load(dir string) (*Data, error) {
	d := &Data{}
	err := decodeAll(func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}, d)
	if err == nil {
		return d, nil
	}

	fb, fbErr := Fallback()
	if fbErr != nil {
		return nil, fbErr
	}
	fb.Cause = err
	return fb, nil
}

// Fallback returns the built-in portfolio data.
func Fallback() (*Data, error) {
	d := &Data{Fallback: true}
	err := decodeAll(func(name string) ([]byte, error) {
		return fallbackFS.ReadFile("fallback/" + name)
	}, d)
	if err != nil {
		return nil, fmt.Errorf("built-in portfolio data: %w", err)
	}
	return d, nil
}

func decodeAll(read func(name string) ([]byte, error), d *Data) error {
	files := []struct {
		name string
		dst  interface{}
	}{
		{SkillsFile, &d.Skills},
		{ExperienceFile, &d.Experience},
		{CertificationsFile, &d.Certifications},
	}
	for _, f := range files {
		data, err := read(f.name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
	}
	return nil
}
