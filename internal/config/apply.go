package config

import (
	"fmt"
	"sort"

	"github.com/dkoosis/btfilter/pkg/color"
	"github.com/dkoosis/btfilter/pkg/filter"
)

// ApplyColors pushes the file's color settings into reg. Each rejected
// setting is returned as an error and leaves that attribute unchanged; the
// remaining settings are still applied.
func (r *Resolved) ApplyColors(reg *color.Registry) []error {
	var errs []error
	for _, item := range sortedKeys(r.File.Colors) {
		ic := r.File.Colors[item]
		for _, kv := range []struct{ attr, value string }{
			{color.AttrIntensity, ic.Intensity},
			{color.AttrForeground, ic.Foreground},
			{color.AttrBackground, ic.Background},
		} {
			if kv.value == "" {
				continue
			}
			if err := reg.Set(item, kv.attr, kv.value); err != nil {
				errs = append(errs, fmt.Errorf("%s: colors.%s: %w", r.Path, item, err))
			}
		}
	}
	return errs
}

// ApplyFilters applies the file's enable and priority overrides.
func (r *Resolved) ApplyFilters(reg *filter.Registry) []error {
	var errs []error
	for _, name := range sortedKeys(r.File.Filters) {
		fc := r.File.Filters[name]
		if fc.Enabled != nil {
			if err := reg.Enable(name, *fc.Enabled); err != nil {
				errs = append(errs, fmt.Errorf("%s: filters.%s: %w", r.Path, name, err))
				continue
			}
		}
		if fc.Priority != nil {
			if err := reg.SetPriority(name, *fc.Priority); err != nil {
				errs = append(errs, fmt.Errorf("%s: filters.%s: %w", r.Path, name, err))
			}
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
