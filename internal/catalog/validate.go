package catalog

import (
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/ceotarot/ceotarot/internal/errors"
	"log/slog"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Results lists the problems found in a catalog. Errors make the catalog unusable, warnings don't.
type Results struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether there were no errors.
func (r Results) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Results) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Results) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateFile checks the catalog at path without loading it into a [Catalog].
// The returned error is only for I/O and syntax problems.
func ValidateFile(path string) (Results, error) {
	var raw file
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Results{}, errors.Wrap(err, "parse toml", slog.String("path", path))
	}
	results := validate(raw)
	for _, key := range meta.Undecoded() {
		results.warnf("unknown key %q", key.String())
	}
	return results, nil
}

func validate(raw file) Results {
	var r Results

	if raw.Version == "" {
		r.warnf("catalog has no version")
	}
	if len(raw.Scenarios) == 0 {
		r.errorf("catalog has no scenarios")
	}

	seen := make(map[string]bool, len(raw.Scenarios))
	for i, s := range raw.Scenarios {
		label := fmt.Sprintf("scenario #%d", i+1)
		if s.ID != "" {
			label = fmt.Sprintf("scenario %q", s.ID)
		}

		switch {
		case s.ID == "":
			r.errorf("%s: missing id", label)
		case !idPattern.MatchString(s.ID):
			r.errorf("%s: id must be lowercase letters, digits, '-' or '_'", label)
		case seen[s.ID]:
			r.errorf("%s: duplicate id", label)
		}
		seen[s.ID] = true

		if strings.TrimSpace(s.Question) == "" {
			r.errorf("%s: missing question", label)
		}
		if strings.TrimSpace(s.Tarot.Name) == "" {
			r.errorf("%s: missing tarot name", label)
		}
		if strings.TrimSpace(s.EmotionalContent.Content) == "" {
			r.errorf("%s: emotional content has no lines", label)
		}
		if strings.TrimSpace(s.RationalSolution.Title) == "" {
			r.errorf("%s: missing rational solution title", label)
		}

		if s.Category == "" {
			r.warnf("%s: missing category", label)
		}
		if len(s.Tarot.Keywords) == 0 {
			r.warnf("%s: tarot has no keywords", label)
		}
		if s.Tarot.ImageURL == "" && s.Tarot.ImagePrompt == "" {
			r.warnf("%s: no image url or image prompt, a placeholder will be shown", label)
		}
	}

	return r
}
