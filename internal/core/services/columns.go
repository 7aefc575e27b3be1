package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// columnRole is the canonical meaning of a frame column.
type columnRole string

const (
	roleID          columnRole = "id"
	roleTop         columnRole = "top"
	roleBase        columnRole = "base"
	roleThickness   columnRole = "thickness"
	roleDescription columnRole = "description"
	roleX           columnRole = "x"
	roleY           columnRole = "y"
	roleZ           columnRole = "z"
	roleDate        columnRole = "date"
	roleDiameter    columnRole = "diameter"
)

// rolePatterns are tried in order against header names stripped of a unit
// suffix such as "(m)" or "[m]".
var rolePatterns = []struct {
	role    columnRole
	pattern *regexp.Regexp
}{
	{roleID, regexp.MustCompile(`(?i)^(id|borehole|borehole_id|sondage|forage)$`)},
	{roleTop, regexp.MustCompile(`(?i)^(top|toit)$`)},
	{roleBase, regexp.MustCompile(`(?i)^(base|mur|assise)$`)},
	{roleThickness, regexp.MustCompile(`(?i)^(thickness|[eé]pais.*)$`)},
	{roleDescription, regexp.MustCompile(`(?i)^(description|desc.*)$`)},
	{roleX, regexp.MustCompile(`(?i)^x$`)},
	{roleY, regexp.MustCompile(`(?i)^y$`)},
	{roleZ, regexp.MustCompile(`(?i)^z$`)},
	{roleDate, regexp.MustCompile(`(?i)^date$`)},
	{roleDiameter, regexp.MustCompile(`(?i)^(diameter|diam.*)$`)},
}

var unitSuffix = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]\s*$`)

// Data kind keys of the frames handed to the ingestor.
var (
	lithologyKind = regexp.MustCompile(`(?i)^lithology`)
	sampleKind    = regexp.MustCompile(`(?i)^(sample|poll)`)
)

// columnLayout maps the columns of one frame.
type columnLayout struct {
	roles      map[columnRole]int
	attributes []int
}

func (l columnLayout) has(role columnRole) bool {
	_, ok := l.roles[role]
	return ok
}

func (l columnLayout) index(role columnRole) int {
	if i, ok := l.roles[role]; ok {
		return i
	}
	return -1
}

// matchRole returns the role of a header, or "" for attribute columns.
func matchRole(header string) columnRole {
	name := strings.TrimSpace(unitSuffix.ReplaceAllString(strings.TrimSpace(header), ""))
	for _, rp := range rolePatterns {
		if rp.pattern.MatchString(name) {
			return rp.role
		}
	}
	return ""
}

// mapColumns assigns a role to every column. The first column matching a
// role wins; later duplicates are ignored.
func mapColumns(frame domain.Frame) (columnLayout, error) {
	layout := columnLayout{roles: make(map[columnRole]int)}
	for i, header := range frame.Columns {
		if strings.TrimSpace(header) == "" {
			continue
		}
		role := matchRole(header)
		if role == "" {
			layout.attributes = append(layout.attributes, i)
			continue
		}
		if _, dup := layout.roles[role]; !dup {
			layout.roles[role] = i
		}
	}
	if !layout.has(roleID) {
		return layout, fmt.Errorf("%w: frame %q has no ID column", domain.ErrSchemaViolation, frame.Kind)
	}
	hasBounds := layout.has(roleTop) && layout.has(roleBase)
	if !hasBounds && !layout.has(roleThickness) {
		return layout, fmt.Errorf("%w: frame %q needs Top and Base or Thickness columns",
			domain.ErrSchemaViolation, frame.Kind)
	}
	return layout, nil
}

// classifyFrames checks the data kind keys: exactly one lithology frame and
// at most one sample or pollutant frame.
func classifyFrames(frames []domain.Frame) (litho domain.Frame, sample *domain.Frame, err error) {
	found := false
	for i := range frames {
		f := frames[i]
		switch {
		case lithologyKind.MatchString(f.Kind):
			if found {
				return litho, nil, fmt.Errorf("%w: more than one lithology frame", domain.ErrSchemaViolation)
			}
			litho, found = f, true
		case sampleKind.MatchString(f.Kind):
			if sample != nil {
				return litho, nil, fmt.Errorf("%w: more than one sample frame", domain.ErrSchemaViolation)
			}
			sample = &frames[i]
		default:
			return litho, nil, fmt.Errorf("%w: unknown data kind %q", domain.ErrSchemaViolation, f.Kind)
		}
	}
	if !found {
		return litho, nil, fmt.Errorf("%w: no lithology frame", domain.ErrSchemaViolation)
	}
	return litho, sample, nil
}
