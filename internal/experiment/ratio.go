package experiment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinGroups and MaxGroups bound the selectable treatment group count.
const (
	MinGroups = 2
	MaxGroups = 5
)

// ErrRatioFormat is wrapped by every FormatError.
var ErrRatioFormat = errors.New("invalid ratio format")

// FormatError reports a custom ratio that does not match the group count.
type FormatError struct {
	Value  string
	Groups int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ratio %q for %d groups: %s", e.Value, e.Groups, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrRatioFormat }

// ParseRatio parses a colon-delimited ratio such as "2:1:1" into exactly
// groups positive integers.
func ParseRatio(value string, groups int) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != groups {
		return nil, &FormatError{Value: value, Groups: groups, Reason: fmt.Sprintf("expected %d parts, got %d", groups, len(parts))}
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, &FormatError{Value: value, Groups: groups, Reason: fmt.Sprintf("%q is not a positive integer", p)}
		}
		out = append(out, n)
	}
	return out, nil
}

// TreatmentLabels returns n group labels, "Control" first.
func TreatmentLabels(n int) []string {
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			labels = append(labels, "Control")
			continue
		}
		labels = append(labels, fmt.Sprintf("Treatment %d", i))
	}
	return labels
}

// RatioPlaceholder texts shown instead of segments.
const (
	PlaceholderUndefined = "Define custom ratio"
	PlaceholderInvalid   = "Invalid ratio format"
)

// Segment is one group's share of the assignment preview.
type Segment struct {
	Label   string
	Percent float64
}

// Preview is the rendered assignment distribution. Exactly one of Segments
// and Placeholder is set.
type Preview struct {
	Segments    []Segment
	Placeholder string
	Err         error
}

// RatioPreview computes the assignment preview for the randomization step.
// Malformed custom ratios yield a placeholder, never a blocking error.
func RatioPreview(ratio AssignmentRatio, custom string, groups int) Preview {
	if ratio != RatioCustom {
		segs := make([]Segment, 0, groups)
		for i := 0; i < groups; i++ {
			segs = append(segs, Segment{Label: segmentLabel(i), Percent: 100 / float64(groups)})
		}
		return Preview{Segments: segs}
	}
	if strings.TrimSpace(custom) == "" {
		return Preview{Placeholder: PlaceholderUndefined}
	}
	parts, err := ParseRatio(custom, groups)
	if err != nil {
		return Preview{Placeholder: PlaceholderInvalid, Err: err}
	}
	total := 0
	for _, p := range parts {
		total += p
	}
	segs := make([]Segment, 0, len(parts))
	for i, p := range parts {
		segs = append(segs, Segment{Label: segmentLabel(i), Percent: float64(p) / float64(total) * 100})
	}
	return Preview{Segments: segs}
}

// RatioExample returns an example custom ratio for n groups, e.g. "2:1:1".
func RatioExample(n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			parts = append(parts, "2")
			continue
		}
		parts = append(parts, "1")
	}
	return strings.Join(parts, ":")
}

func segmentLabel(i int) string {
	if i == 0 {
		return "Control"
	}
	return fmt.Sprintf("T%d", i)
}
