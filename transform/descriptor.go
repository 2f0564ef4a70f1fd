// Package transform rewrites parsed stylesheets so that @container
// rules and container declarations become plain CSS a native engine can
// apply, guarded by element attributes the host toggles at runtime.
package transform

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/cqfill/query"
)

// Descriptor is the transformer's handle for one @container rule. The
// host locates candidate elements with Selector and toggles the rule by
// adding or removing UID from the self attribute.
type Descriptor struct {
	// Rule is the parsed container rule guarding the block.
	Rule *query.ContainerRule

	// UID is an opaque word, unique within one transpilation run and
	// safe for use as an attribute value word. It appears verbatim in
	// the rewritten style selectors.
	UID string

	// Selector is the deduplicated, comma-separated composite of the
	// element selectors found under this rule, or "" when the rule
	// body had no style rules.
	Selector string

	// Parent indexes the enclosing @container's descriptor in the
	// result slice, or -1 at the top level. Parent links always form a
	// tree.
	Parent int
}

// Options configures one transpilation run. Transform fills in a
// missing salt and logger (see Normalize); the zero value has
// WhereSupported false. DefaultOptions returns the usual defaults.
type Options struct {
	// BaseURL, when non-empty, absolutizes every url() reference.
	BaseURL string

	// Salt suffixes the internal custom-property and attribute names
	// so two polyfill instances can coexist in one document. Defaults
	// to a fresh random word; fix it for golden-file tests.
	Salt string

	// WhereSupported reports whether the target environment supports
	// the :where() pseudo-class. When false, rewritten selectors rely
	// on an author-supplied :not(.container-query-polyfill) sentinel
	// instead.
	WhereSupported bool

	// Logger is the diagnostic sink. Never nil after DefaultOptions.
	Logger *zap.Logger

	// IDOffset offsets the descriptor id counter, so several
	// transpilation runs sharing one salt (one per style element, for
	// instance) keep their ids disjoint.
	IDOffset int
}

// DefaultOptions returns the options used when the caller has no
// opinion: random salt, :where() assumed available, no-op logger.
func DefaultOptions() Options {
	return Options{
		Salt:           NewSalt(),
		WhereSupported: true,
		Logger:         zap.NewNop(),
	}
}

// NewSalt derives a fresh attribute-safe salt word.
func NewSalt() string {
	return uuid.NewString()[:8]
}

// Normalize fills in the fields a run cannot work without: a salt and
// a non-nil logger. Transform calls it on its own copy; callers that
// hold diagnostics or fallback paths of their own should call it
// before use.
func (o *Options) Normalize() {
	if o.Salt == "" {
		o.Salt = NewSalt()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Internal naming for the rewritten declarations. Every name carries
// the per-run salt.

func (o Options) selfAttribute() string {
	return "data-cqs-" + o.Salt
}

func (o Options) containerNameProperty() string {
	return "--cq-container-name-" + o.Salt
}

func (o Options) containerTypeProperty() string {
	return "--cq-container-type-" + o.Salt
}

// unitVariable maps a container-relative unit axis to its custom
// property: w, h, i or b.
func (o Options) unitVariable(axis string) string {
	return fmt.Sprintf("--cq-%s-%s", axis, o.Salt)
}
