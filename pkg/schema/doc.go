// Package schema defines the persisted survey flow document: the static JSON
// description a survey stimulus is loaded from.
//
// A document carries the renderable page descriptions ("surveys"), the flow
// tree governing their presentation order ("surveyFlow"), embedded-data
// assignment lists, randomization settings, and per-question skip logic.
//
// The format is round-trippable: loading and re-serializing a document
// (ignoring any randomization applied at run time) reproduces an equivalent
// document. Structural problems — unknown node types, out-of-range indices,
// conditionals without expressions — are fatal and reported by Validate,
// never silently skipped.
package schema
