// SPDX-License-Identifier: MPL-2.0

package controller

import (
	"sort"
	"strings"

	"girder-cli/pkg/errs"
)

// Resolve produces the linear resolution order over all registered
// controllers: the root first, then layer by layer such that a
// controller never appears before the controller it is stacked on.
// Within a layer, nested children are placed before embedded siblings
// discovered in the same batch, so their sub-parsers exist before
// anything tries to hang commands off them.
//
// Controllers stacked on a label that no registered controller carries
// fail resolution immediately; a registration set whose stacking
// relationships form a cycle fails once no further layer can be
// resolved. Resolution never silently drops a controller.
func Resolve(reg *Registry) ([]Controller, error) {
	all := reg.Controllers()

	var root Controller
	var unresolved []Controller
	labels := make(map[string]bool, len(all))
	for _, c := range all {
		labels[c.Spec().Label] = true
	}
	for _, c := range all {
		spec := c.Spec()
		if spec.StackedOn == "" {
			if root != nil {
				return nil, errs.Configurationf("multiple root controllers: %q and %q",
					root.Spec().Label, spec.Label)
			}
			root = c
			continue
		}
		if !labels[spec.StackedOn] {
			return nil, errs.Configurationf("controller %q is stacked on unknown controller %q",
				spec.Label, spec.StackedOn)
		}
		unresolved = append(unresolved, c)
	}
	if root == nil {
		return nil, errs.Configurationf("no root controller registered")
	}

	resolved := []Controller{root}
	resolvedLabels := map[string]bool{root.Spec().Label: true}
	currentParent := root.Spec().Label

	for len(unresolved) > 0 {
		// Direct children of the current parent, in discovery order;
		// nested children are prepended so they resolve first.
		var batch, children []Controller
		unresolved = drain(unresolved, currentParent, &batch, &children)
		for _, c := range batch {
			resolved = append(resolved, c)
			resolvedLabels[c.Spec().Label] = true
		}

		// One layer deeper: controllers stacked on the children just
		// resolved, grouped the same way into a single batch.
		batch = batch[:0]
		for _, child := range children {
			var grandchildren []Controller
			unresolved = drain(unresolved, child.Spec().Label, &batch, &grandchildren)
		}
		for _, c := range batch {
			resolved = append(resolved, c)
			resolvedLabels[c.Spec().Label] = true
		}

		if len(unresolved) == 0 {
			break
		}

		// Advance to the parent of the first unresolved controller whose
		// parent is already resolved; this guarantees forward progress
		// and keeps the order topological. No such controller means the
		// remaining stacking relationships form a cycle.
		next := ""
		for _, c := range unresolved {
			if resolvedLabels[c.Spec().StackedOn] {
				next = c.Spec().StackedOn
				break
			}
		}
		if next == "" {
			return nil, errs.Configurationf("unresolvable controller stacking (cycle) among: %s",
				labelList(unresolved))
		}
		currentParent = next
	}

	return resolved, nil
}

// drain moves every controller stacked on parent out of unresolved:
// embedded controllers are appended to batch, nested controllers are
// prepended at the point of discovery. children records the matches in
// discovery order.
func drain(unresolved []Controller, parent string, batch, children *[]Controller) []Controller {
	rest := unresolved[:0:0]
	for _, c := range unresolved {
		if c.Spec().StackedOn != parent {
			rest = append(rest, c)
			continue
		}
		*children = append(*children, c)
		if c.Spec().StackedType == Nested {
			*batch = append([]Controller{c}, *batch...)
		} else {
			*batch = append(*batch, c)
		}
	}
	return rest
}

func labelList(controllers []Controller) string {
	names := make([]string, 0, len(controllers))
	for _, c := range controllers {
		names = append(names, c.Spec().Label)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
