package project

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/portfolio/pkg"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
	maxLinkLen        = 2048
)

type Project struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Tech        string    `json:"tech" db:"tech"`
	Github      string    `json:"github" db:"github"`
	Image       string    `json:"image" db:"image"`
	Demo        string    `json:"demo" db:"demo"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TechTags splits the tech field on "," or "|".
func (p Project) TechTags() []string {
	return TechTags(p.Tech)
}

// Input is the payload accepted when creating a project.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tech        string `json:"tech"`
	Github      string `json:"github"`
	Image       string `json:"image"`
	Demo        string `json:"demo"`
}

// Normalize trims every field.
func (in Input) Normalize() Input {
	return Input{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Tech:        strings.Join(TechTags(in.Tech), ", "),
		Github:      strings.TrimSpace(in.Github),
		Image:       strings.TrimSpace(in.Image),
		Demo:        strings.TrimSpace(in.Demo),
	}
}

// Validate expects a normalized input.
func (in Input) Validate() error {
	verr := &pkg.ValidationError{}

	required := []struct {
		field, value string
		maxLen       int
	}{
		{"title", in.Title, maxTitleLen},
		{"description", in.Description, maxDescriptionLen},
		{"tech", in.Tech, maxDescriptionLen},
	}
	for _, r := range required {
		switch {
		case r.value == "":
			verr.Add(r.field, "required")
		case utf8.RuneCountInString(r.value) > r.maxLen:
			verr.Add(r.field, "too long")
		}
	}

	links := []struct{ field, value string }{
		{"github", in.Github},
		{"image", in.Image},
		{"demo", in.Demo},
	}
	for _, l := range links {
		if l.value == "" {
			continue
		}
		if len(l.value) > maxLinkLen || !isHTTPURL(l.value) {
			verr.Add(l.field, "must be an http(s) URL")
		}
	}

	return verr.Err()
}

func (in Input) toProject(id int64) *Project {
	return &Project{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Tech:        in.Tech,
		Github:      in.Github,
		Image:       in.Image,
		Demo:        in.Demo,
	}
}

func TechTags(tech string) []string {
	parts := strings.FieldsFunc(tech, func(r rune) bool {
		return r == ',' || r == '|'
	})
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Patch is the payload accepted when updating a project. Nil fields keep
// their stored value, an empty string clears an optional link.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Tech        *string `json:"tech,omitempty"`
	Github      *string `json:"github,omitempty"`
	Image       *string `json:"image,omitempty"`
	Demo        *string `json:"demo,omitempty"`
}

// Apply returns the input that results from patching p.
func (patch Patch) Apply(p Project) Input {
	pick := func(v *string, current string) string {
		if v == nil {
			return current
		}
		return *v
	}
	return Input{
		Title:       pick(patch.Title, p.Title),
		Description: pick(patch.Description, p.Description),
		Tech:        pick(patch.Tech, p.Tech),
		Github:      pick(patch.Github, p.Github),
		Image:       pick(patch.Image, p.Image),
		Demo:        pick(patch.Demo, p.Demo),
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
