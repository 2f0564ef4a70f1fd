// Package cqfill is the core of a CSS Container Queries polyfill: it
// transpiles stylesheets so engines without native support can apply
// size-dependent rules, and evaluates container conditions against a
// measured layout context.
//
// The DOM side of the polyfill (observers, attribute application,
// custom-property plumbing) is a separate host layer built on the entry
// points here.
package cqfill

import (
	"go.uber.org/zap"

	"github.com/chrisuehlinger/cqfill/query"
	"github.com/chrisuehlinger/cqfill/transform"
)

// Result is the outcome of one transpilation run.
type Result struct {
	// Source is the rewritten stylesheet text. On catastrophic
	// failure it is the input unchanged.
	Source string

	// Descriptors lists every @container rule found, in document
	// order. Parent links index into this slice.
	Descriptors []transform.Descriptor
}

// Option configures a transpilation run.
type Option func(*transform.Options)

// WithBaseURL absolutizes url() references against base.
func WithBaseURL(base string) Option {
	return func(o *transform.Options) { o.BaseURL = base }
}

// WithSalt fixes the per-run salt used in internal custom-property and
// attribute names. Useful for golden-file tests; defaults to a fresh
// random word per run.
func WithSalt(salt string) Option {
	return func(o *transform.Options) { o.Salt = salt }
}

// WithWhereSupport declares whether the target environment supports
// the :where() pseudo-class. Defaults to true.
func WithWhereSupport(supported bool) Option {
	return func(o *transform.Options) { o.WhereSupported = supported }
}

// WithLogger installs a diagnostic sink. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *transform.Options) { o.Logger = logger }
}

// TranspileStyleSheet rewrites a stylesheet and returns the transformed
// source plus the container query descriptors. It always returns a
// usable result: if anything goes wrong internally, the input comes
// back unchanged with no descriptors and the failure is logged.
func TranspileStyleSheet(source string, opts ...Option) (result Result) {
	options := transform.DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	// The recover handler below logs through options.Logger; normalize
	// first so a nil logger cannot turn the fallback itself into a
	// panic.
	options.Normalize()

	defer func() {
		if r := recover(); r != nil {
			options.Logger.Error("transpilation failed, returning source unchanged",
				zap.Any("panic", r))
			result = Result{Source: source}
		}
	}()

	out, descriptors := transform.Transform(source, options)
	return Result{Source: out, Descriptors: descriptors}
}

// EvaluateContainerCondition evaluates a parsed container rule against
// a layout context. The result is a nullable boolean: nil means the
// condition could not be resolved in this context.
func EvaluateContainerCondition(rule *query.ContainerRule, ctx query.Context) *bool {
	return query.Evaluate(rule, ctx).Bool()
}
