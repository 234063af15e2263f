package unify

import (
	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"weld/internal/catalog"
	"weld/internal/errors"
	"weld/internal/hir"
)

var log = commonlog.GetLogger("weld.unify")

// Unifier recognises front calls that are implemented by a native function
// and replaces the pair with a single target-language call. One Unifier
// serves one independent unit: node ids are only unique within it.
type Unifier struct {
	ids      *hir.IDAllocator
	catalog  *catalog.Catalog
	session  string
	warnings []errors.CompilerError
}

// New creates a unifier backed by c. A nil catalog means the built-ins.
func New(c *catalog.Catalog) *Unifier {
	if c == nil {
		c = catalog.Default()
	}
	return &Unifier{
		ids:     hir.NewIDAllocator(),
		catalog: c,
		session: newSession(),
	}
}

func newSession() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Session identifies this unifier in log output
func (u *Unifier) Session() string {
	return u.session
}

func (u *Unifier) Catalog() *catalog.Catalog {
	return u.catalog
}

// Reset restarts id numbering and starts a new session. Trees produced
// before the reset must not be mixed with trees produced after it.
func (u *Unifier) Reset() {
	u.ids.Reset()
	u.warnings = nil
	u.session = newSession()
}

// Warnings returns the diagnostics collected by the last UnifyModule
func (u *Unifier) Warnings() []errors.CompilerError {
	return u.warnings
}

// Unify merges a front call with the native function implementing it.
// Only a *hir.FrontCall and a *hir.NativeFunction can be unified, and only
// when the catalog pairs their names exactly.
func (u *Unifier) Unify(front hir.FrontNode, native hir.NativeNode) (hir.UnifiedNode, error) {
	call, isCall := front.(*hir.FrontCall)
	fn, isFn := native.(*hir.NativeFunction)
	if !isCall || !isFn || call == nil || fn == nil {
		var loc *hir.SourceLocation
		if call != nil {
			loc = call.Meta.Source
		} else if !isCall {
			loc = sourceOf(front)
		}
		return nil, errors.IncompatibleNodes(frontKind(front), nativeKind(native)).At(loc)
	}
	unified, err := u.unifyCall(call, fn, nil)
	if err != nil {
		return nil, err
	}
	return unified, nil
}

// unifyCall builds the unified node for a recognised pair. Nested calls in
// the arguments are paired against tu when it is set.
func (u *Unifier) unifyCall(call *hir.FrontCall, fn *hir.NativeFunction, tu *hir.NativeTranslationUnit) (*hir.UnifiedCall, error) {
	name, ok := call.CalleeName()
	if !ok {
		return nil, errors.UnsupportedFront(frontKind(call.Callee)).At(call.Meta.Source)
	}

	entry, found := u.catalog.Lookup(name, fn.Name)
	if !found {
		log.Debugf("[%s] no pattern for %s + %s", u.session, name, fn.Name)
		return nil, errors.NoPatternMatch(name, fn.Name, u.catalog.FindSimilar(name, fn.Name)).At(call.Meta.Source)
	}

	id := u.ids.Next()
	args, err := u.args(call, tu)
	if err != nil {
		return nil, err
	}

	meta := call.Meta.Clone().
		AddCrossRef(hir.CrossRef{
			Kind:        hir.FrontToNative,
			Target:      fn.ID,
			Language:    hir.Native,
			Description: entry.NativeCallee,
		}).
		AddHint("pattern", entry.Name)

	log.Debugf("[%s] unified %s + %s as %s (#%d)", u.session, name, fn.Name, entry.TargetCallee, id)
	return &hir.UnifiedCall{
		ID:           id,
		Target:       hir.Target,
		Callee:       entry.TargetCallee,
		Args:         args,
		InferredType: entry.Result.Type(),
		Origin:       hir.Front,
		Mapping:      hir.NewCrossMapping(call.ID, fn.ID, entry.Pattern),
		Meta:         meta,
	}, nil
}

func frontKind(n hir.FrontNode) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind()
}

func nativeKind(n hir.NativeNode) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind()
}

func sourceOf(n hir.FrontNode) *hir.SourceLocation {
	if n == nil {
		return nil
	}
	return n.Metadata().Source
}
