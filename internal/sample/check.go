package sample

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dotcommander/cqe/internal/compost"
)

// Check reports every problem that would stop s from being evaluated against
// params, without building or scoring it. Problems are joined.
func (s *Sample) Check(params compost.Parameters) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(s.Measurements)) {
		role, _, ok := compost.RoleOf(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: unknown measurement: %w", name, compost.ErrInvalidInput))
		case role == compost.RoleDerived:
			errs = append(errs, fmt.Errorf("%s: derived property must not be supplied: %w", name, compost.ErrInvalidInput))
		}
	}

	for _, name := range compost.MeasuredNames() {
		v, ok := s.Measurements[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", name, compost.ErrMissingInput))
			continue
		}
		pp, ok := params[name]
		if !ok {
			continue
		}
		if !pp.Validity.Contains(v) {
			errs = append(errs, fmt.Errorf("%s: value %g outside validity range %s: %w", name, v, pp.Validity, compost.ErrInvalidInput))
		}
	}

	return errors.Join(append(errs, s.checkDerived(params)...)...)
}

// checkDerived derives the composite ratios when their inputs are all present
// and checks them against their validity limits.
func (s *Sample) checkDerived(params compost.Parameters) []error {
	for _, name := range []string{compost.OrganicMatter, compost.Nitrogen, compost.Phosphorus, compost.Potassium} {
		if _, ok := s.Measurements[name]; !ok {
			return nil
		}
	}
	derived, err := compost.Derive(s.Measurements)
	if err != nil {
		return []error{err}
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(derived)) {
		pp, ok := params[name]
		if !ok {
			continue
		}
		if v := derived[name]; !pp.Validity.Contains(v) {
			errs = append(errs, fmt.Errorf("%s: value %g outside validity range %s: %w", name, v, pp.Validity, compost.ErrInvalidInput))
		}
	}
	return errs
}
