// SPDX-License-Identifier: MPL-2.0

// Package issue turns framework and task-runner failures into
// user-facing guidance: ActionableError carries operation context and
// fix suggestions, and the issue catalog maps known failure ids to
// rendered markdown cards.
package issue
