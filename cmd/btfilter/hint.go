package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/dkoosis/btfilter/pkg/color"
	"github.com/dkoosis/btfilter/pkg/filter"
)

// maxHintDistance bounds how far a misspelling may be from a known name.
const maxHintDistance = 3

// closestNames returns the candidates nearest to name, sorted. Ties are all
// returned; nothing is returned when every candidate is too far away.
func closestNames(name string, candidates []string) []string {
	best := maxHintDistance + 1
	var closest []string
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		switch {
		case d < best:
			best, closest = d, []string{c}
		case d == best:
			closest = append(closest, c)
		}
	}
	slices.Sort(closest)
	return closest
}

func withHint(err error, name string, candidates []string) error {
	closest := closestNames(name, candidates)
	if len(closest) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %q?)", err, closest[0])
}

func filterNames(reg *filter.Registry) []string {
	entries := reg.Ordered()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// colorHint adds a suggestion to an unknown item or attribute error.
func colorHint(err error, item, attribute string) error {
	switch {
	case errors.Is(err, color.ErrUnknownItem):
		return withHint(err, item, color.Items())
	case errors.Is(err, color.ErrUnknownAttribute):
		return withHint(err, attribute, color.Attributes())
	}
	return err
}
