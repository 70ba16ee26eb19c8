// SPDX-License-Identifier: MPL-2.0

package controller

import (
	"strings"

	"girder-cli/pkg/errs"
)

// Registry holds the registered controllers. It is an explicit value
// constructed by the application entry point and passed by reference;
// there is no ambient global registry.
type Registry struct {
	order   []Controller
	byLabel map[string]Controller
}

// NewRegistry creates an empty controller registry.
func NewRegistry() *Registry {
	return &Registry{byLabel: make(map[string]Controller)}
}

// Add registers a controller. The label must be unique across the
// registry, the stacking type must be valid, and the default function
// name must not use the reserved prefix.
func (r *Registry) Add(c Controller) error {
	spec := c.Spec()

	if spec.Label == "" {
		return errs.Configurationf("controller registered without a label")
	}
	if _, exists := r.byLabel[spec.Label]; exists {
		return errs.Configurationf("duplicate controller label %q", spec.Label)
	}
	if spec.StackedOn != "" && spec.StackedType != Embedded && spec.StackedType != Nested {
		return errs.Configurationf("controller %q has invalid stacked type %q", spec.Label, spec.StackedType)
	}
	if strings.HasPrefix(spec.DefaultFunc, ReservedPrefix) {
		return errs.Configurationf("controller %q default function %q uses the reserved %q prefix",
			spec.Label, spec.DefaultFunc, ReservedPrefix)
	}

	r.byLabel[spec.Label] = c
	r.order = append(r.order, c)
	return nil
}

// Get returns the controller registered under the label.
func (r *Registry) Get(label string) (Controller, bool) {
	c, ok := r.byLabel[label]
	return c, ok
}

// Controllers returns the registered controllers in registration order.
func (r *Registry) Controllers() []Controller {
	out := make([]Controller, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered controllers.
func (r *Registry) Len() int {
	return len(r.order)
}
