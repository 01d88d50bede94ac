package sheet

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Profile is a reusable set of render settings, typically kept in a YAML
// file next to the code producing the table:
//
//	sort: -triple,input
//	default: no data
//	null: n/a
//	delimiter: ";"
type Profile struct {
	// Sort is a sort spec in the form accepted by [ParseSortKeys].
	Sort string `yaml:"sort"`
	// Default is the text rendered for a table without rows.
	Default string `yaml:"default"`
	// Null, when set, overrides the registry's null text.
	Null *string `yaml:"null"`
	// Delimiter is a single character. Empty means comma.
	Delimiter string `yaml:"delimiter"`
}

// LoadProfile decodes a YAML profile from r. Unknown keys are rejected.
// An empty document yields the zero Profile.
func LoadProfile(r io.Reader) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("%w: %s", ErrInvalidProfile, err)
	}
	if _, err := p.Options(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Options converts the profile into render options.
func (p Profile) Options() ([]RenderOption, error) {
	keys, err := ParseSortKeys(p.Sort)
	if err != nil {
		return nil, err
	}
	opts := []RenderOption{WithDefault(p.Default)}
	if len(keys) > 0 {
		opts = append(opts, WithSort(keys...))
	}
	if p.Null != nil {
		opts = append(opts, WithNull(*p.Null))
	}
	if p.Delimiter != "" {
		if utf8.RuneCountInString(p.Delimiter) != 1 {
			return nil, fmt.Errorf("%w: delimiter %q must be a single character", ErrInvalidProfile, p.Delimiter)
		}
		r, _ := utf8.DecodeRuneInString(p.Delimiter)
		opts = append(opts, WithDelimiter(r))
	}
	return opts, nil
}
