// SPDX-License-Identifier: MPL-2.0

package controller

import (
	"strings"
	"testing"
)

func registryOf(t *testing.T, specs ...Spec) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, spec := range specs {
		if err := r.Add(NewBase(spec)); err != nil {
			t.Fatalf("Add(%q) returned error: %v", spec.Label, err)
		}
	}
	return r
}

func resolvedLabels(t *testing.T, r *Registry) []string {
	t.Helper()
	order, err := Resolve(r)
	if err != nil {
		t.Fatalf("Resolve() returned error: %v", err)
	}
	labels := make([]string, len(order))
	for i, c := range order {
		labels[i] = c.Spec().Label
	}
	return labels
}

func assertOrder(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("resolution order = %v, want %v", got, want)
	}
}

func TestResolve_RootOnly(t *testing.T) {
	r := registryOf(t, Spec{Label: "base"})
	assertOrder(t, resolvedLabels(t, r), []string{"base"})
}

func TestResolve_NestedThenEmbedded(t *testing.T) {
	// base <- mid (nested) <- leaf (embedded): base before mid before leaf.
	r := registryOf(t,
		Spec{Label: "base"},
		Spec{Label: "mid", StackedOn: "base", StackedType: Nested},
		Spec{Label: "leaf", StackedOn: "mid", StackedType: Embedded},
	)
	assertOrder(t, resolvedLabels(t, r), []string{"base", "mid", "leaf"})
}

func TestResolve_NestedBeforeEmbeddedSiblings(t *testing.T) {
	// Within one layer, nested children resolve before embedded siblings
	// regardless of registration order.
	r := registryOf(t,
		Spec{Label: "base"},
		Spec{Label: "emb1", StackedOn: "base", StackedType: Embedded},
		Spec{Label: "nest", StackedOn: "base", StackedType: Nested},
		Spec{Label: "emb2", StackedOn: "base", StackedType: Embedded},
	)
	assertOrder(t, resolvedLabels(t, r), []string{"base", "nest", "emb1", "emb2"})
}

func TestResolve_DeepChain(t *testing.T) {
	r := registryOf(t,
		Spec{Label: "base"},
		Spec{Label: "a", StackedOn: "base", StackedType: Nested},
		Spec{Label: "b", StackedOn: "a", StackedType: Nested},
		Spec{Label: "c", StackedOn: "b", StackedType: Nested},
		Spec{Label: "d", StackedOn: "c", StackedType: Nested},
	)
	assertOrder(t, resolvedLabels(t, r), []string{"base", "a", "b", "c", "d"})
}

func TestResolve_RegistrationOrderIndependent(t *testing.T) {
	// A chain registered deepest-first must still come out parent-first.
	r := registryOf(t,
		Spec{Label: "d", StackedOn: "c", StackedType: Nested},
		Spec{Label: "c", StackedOn: "b", StackedType: Nested},
		Spec{Label: "b", StackedOn: "a", StackedType: Nested},
		Spec{Label: "a", StackedOn: "base", StackedType: Nested},
		Spec{Label: "base"},
	)
	got := resolvedLabels(t, r)

	pos := make(map[string]int, len(got))
	for i, label := range got {
		pos[label] = i
	}
	pairs := [][2]string{{"base", "a"}, {"a", "b"}, {"b", "c"}, {"c", "d"}}
	for _, p := range pairs {
		if pos[p[0]] >= pos[p[1]] {
			t.Errorf("resolution order %v places %q after %q", got, p[0], p[1])
		}
	}
}

func TestResolve_SiblingSubtrees(t *testing.T) {
	r := registryOf(t,
		Spec{Label: "base"},
		Spec{Label: "left", StackedOn: "base", StackedType: Nested},
		Spec{Label: "right", StackedOn: "base", StackedType: Nested},
		Spec{Label: "left-sub", StackedOn: "left", StackedType: Nested},
		Spec{Label: "right-sub", StackedOn: "right", StackedType: Nested},
	)
	got := resolvedLabels(t, r)

	pos := make(map[string]int, len(got))
	for i, label := range got {
		pos[label] = i
	}
	for _, p := range [][2]string{{"base", "left"}, {"base", "right"}, {"left", "left-sub"}, {"right", "right-sub"}} {
		if pos[p[0]] >= pos[p[1]] {
			t.Errorf("resolution order %v places %q after %q", got, p[0], p[1])
		}
	}
	if len(got) != 5 {
		t.Errorf("resolution order %v dropped controllers", got)
	}
}

func TestResolve_UnknownStackedOn(t *testing.T) {
	r := registryOf(t,
		Spec{Label: "base"},
		Spec{Label: "orphan", StackedOn: "nowhere", StackedType: Nested},
	)

	if _, err := Resolve(r); err == nil {
		t.Error("Resolve() with unknown stacked_on succeeded, want configuration error")
	}
}

func TestResolve_Cycle(t *testing.T) {
	r := registryOf(t,
		Spec{Label: "base"},
		Spec{Label: "ouro", StackedOn: "boros", StackedType: Nested},
		Spec{Label: "boros", StackedOn: "ouro", StackedType: Nested},
	)

	_, err := Resolve(r)
	if err == nil {
		t.Fatal("Resolve() with cyclic stacking succeeded, want configuration error")
	}
	if !strings.Contains(err.Error(), "ouro") || !strings.Contains(err.Error(), "boros") {
		t.Errorf("cycle error %q does not name the unresolved controllers", err)
	}
}

func TestResolve_NoRoot(t *testing.T) {
	r := registryOf(t, Spec{Label: "only", StackedOn: "only", StackedType: Nested})

	if _, err := Resolve(r); err == nil {
		t.Error("Resolve() without a root controller succeeded, want configuration error")
	}
}

func TestResolve_MultipleRoots(t *testing.T) {
	r := registryOf(t, Spec{Label: "one"}, Spec{Label: "two"})

	if _, err := Resolve(r); err == nil {
		t.Error("Resolve() with two root controllers succeeded, want configuration error")
	}
}
