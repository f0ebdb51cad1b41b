package dependency

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/bundledeps/pkg/errors"
)

// Position is a line/column pair. Lines are 1-based, columns 0-based.
type Position struct {
	Line   int `bson:"line" toml:"line"`
	Column int `bson:"column" toml:"column"`
}

// Location identifies where a dependency originates.
//
// A real location has Start (and usually End); a synthetic one only has a
// Name, e.g. "wasm import 0" for edges created from a binary section.
type Location struct {
	Name  string    `bson:"name,omitempty"`
	Start *Position `bson:"start,omitempty"`
	End   *Position `bson:"end,omitempty"`
}

// IsZero reports whether l carries no information.
func (l Location) IsZero() bool {
	return l.Name == "" && l.Start == nil && l.End == nil
}

// String formats l as "line:col", "line:col-endCol" or "line:col-line:col".
func (l Location) String() string {
	switch {
	case l.Start == nil:
		return l.Name
	case l.End == nil:
		return fmt.Sprintf("%d:%d", l.Start.Line, l.Start.Column)
	case l.End.Line == l.Start.Line:
		return fmt.Sprintf("%d:%d-%d", l.Start.Line, l.Start.Column, l.End.Column)
	default:
		return fmt.Sprintf("%d:%d-%d:%d", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
	}
}

// ParseLocation parses the formats produced by [Location.String].
// Strings that do not start with a digit are taken as synthetic names.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, nil
	}
	if s[0] < '0' || s[0] > '9' {
		return Location{Name: s}, nil
	}

	startStr, endStr, hasEnd := strings.Cut(s, "-")
	start, err := parsePosition(startStr)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Start: &start}
	if !hasEnd {
		return loc, nil
	}

	if !strings.Contains(endStr, ":") {
		col, err := strconv.Atoi(endStr)
		if err != nil {
			return Location{}, errors.New(errors.ErrCodeInvalidInput, "invalid end column in location %q", s)
		}
		loc.End = &Position{Line: start.Line, Column: col}
		return loc, nil
	}
	end, err := parsePosition(endStr)
	if err != nil {
		return Location{}, err
	}
	loc.End = &end
	return loc, nil
}

func parsePosition(s string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return Position{}, errors.New(errors.ErrCodeInvalidInput, "invalid position %q (want line:column)", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return Position{}, errors.New(errors.ErrCodeInvalidInput, "invalid line in position %q", s)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 0 {
		return Position{}, errors.New(errors.ErrCodeInvalidInput, "invalid column in position %q", s)
	}
	return Position{Line: line, Column: col}, nil
}

// Range is a half-open byte range in the source module.
type Range struct {
	Start int `bson:"start"`
	End   int `bson:"end"`
}
