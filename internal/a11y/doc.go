// Package a11y defines the shared model of the accessibility rule engine.
//
// Everything that crosses a rule boundary lives here:
//   - Issue: an immutable finding captured as strings at detection time
//   - Severity / Level: ordered severity and WCAG conformance level
//   - Detector / Fixer: the two capability interfaces every rule implements
//   - Registry: the ordered, id-keyed catalogue of detectors and fixers
//   - Env: ambient platform state passed explicitly to detectors
//
// A Fixer shares its id with the Detector it remediates; that id is the only
// correlation key between "found" and "fixable".
package a11y
