package irio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"weld/internal/hir"
	"weld/internal/types"
)

// reader holds the per-document decoding state
type reader struct {
	reg      *types.Registry
	ids      *hir.IDAllocator
	universe types.Universe
	lang     hir.Language
	file     string

	// id -> path of the node that claimed it
	seen map[hir.NodeID]string
}

// ident normalises an identifier to NFC so that names spelled with combining
// characters compare equal to their precomposed forms
func ident(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (r *reader) id(n *Node, path string) (hir.NodeID, error) {
	var id hir.NodeID
	if n.ID == 0 {
		id = r.ids.Next()
	} else {
		raw, err := safecast.Conv[uint64](n.ID)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid id %d: %w", path, n.ID, err)
		}
		id = hir.NodeID(raw)
	}
	if prev, dup := r.seen[id]; dup {
		return 0, fmt.Errorf("%s: id %d is already used by %s", path, id, prev)
	}
	r.seen[id] = path
	return id, nil
}

func (r *reader) meta(n *Node, path string) (hir.Metadata, error) {
	m := hir.NewMetadata().WithDocs(n.Docs)
	if n.Line == 0 && n.Column == 0 {
		return m, nil
	}
	line, err := safecast.Conv[uint32](n.Line)
	if err != nil {
		return m, fmt.Errorf("%s: invalid line %d: %w", path, n.Line, err)
	}
	col, err := safecast.Conv[uint32](n.Column)
	if err != nil {
		return m, fmt.Errorf("%s: invalid column %d: %w", path, n.Column, err)
	}
	return m.WithSource(hir.SourceLocation{File: r.file, Line: line, Column: col, Language: r.lang}), nil
}

// typ resolves an optional type; an empty spelling is nil
func (r *reader) typ(spelled, path string) (types.Type, error) {
	if strings.TrimSpace(spelled) == "" {
		return nil, nil
	}
	return r.inferred(spelled, path)
}

// inferred resolves a type that is always present; an empty spelling is Unknown
func (r *reader) inferred(spelled, path string) (types.Type, error) {
	t, err := r.reg.Resolve(r.universe, spelled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (r *reader) binaryOp(n *Node, path string) (hir.BinaryOp, error) {
	op, err := hir.ParseBinaryOp(n.Op)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return op, nil
}

func (r *reader) unaryOp(n *Node, path string) (hir.UnaryOp, error) {
	op, err := hir.ParseUnaryOp(n.Op)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return op, nil
}

func (r *reader) visibility(s, path string) (hir.Visibility, error) {
	switch s {
	case "", "public":
		return hir.Public, nil
	case "private":
		return hir.Private, nil
	case "protected":
		return hir.Protected, nil
	}
	return 0, fmt.Errorf("%s: unknown visibility %q", path, s)
}

func (r *reader) storage(s, path string) (hir.StorageClass, error) {
	switch s {
	case "":
		return hir.StorageNone, nil
	case "static":
		return hir.StorageStatic, nil
	case "extern":
		return hir.StorageExtern, nil
	case "typedef":
		return hir.StorageTypedef, nil
	case "auto":
		return hir.StorageAuto, nil
	case "register":
		return hir.StorageRegister, nil
	}
	return 0, fmt.Errorf("%s: unknown storage class %q", path, s)
}

// literal parses the lit/text pair of a literal node
func literal(n *Node, path string) (hir.LiteralValue, error) {
	text := strings.TrimSpace(n.Text)
	switch n.Lit {
	case "int":
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return hir.LiteralValue{}, fmt.Errorf("%s: bad int literal %q: %w", path, n.Text, err)
		}
		return hir.IntLit(v), nil
	case "uint":
		v, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return hir.LiteralValue{}, fmt.Errorf("%s: bad uint literal %q: %w", path, n.Text, err)
		}
		return hir.UintLit(v), nil
	case "float":
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(v, 0) {
			return hir.LiteralValue{}, fmt.Errorf("%s: bad float literal %q", path, n.Text)
		}
		return hir.FloatLit(v), nil
	case "str":
		return hir.StrLit(n.Text), nil
	case "char":
		if utf8.RuneCountInString(n.Text) != 1 {
			return hir.LiteralValue{}, fmt.Errorf("%s: char literal %q must be exactly one character", path, n.Text)
		}
		c, _ := utf8.DecodeRuneInString(n.Text)
		return hir.CharLit(c), nil
	case "bool":
		v, err := strconv.ParseBool(text)
		if err != nil {
			return hir.LiteralValue{}, fmt.Errorf("%s: bad bool literal %q", path, n.Text)
		}
		return hir.BoolLit(v), nil
	case "none", "null":
		return hir.NoneLit(), nil
	case "":
		return hir.LiteralValue{}, fmt.Errorf("%s: literal needs a lit kind", path)
	}
	return hir.LiteralValue{}, fmt.Errorf("%s: unknown literal kind %q", path, n.Lit)
}

func child(path, field string) string {
	return path + "." + field
}

func item(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func required(n *Node, path string) error {
	if n == nil {
		return fmt.Errorf("%s: missing node", path)
	}
	return nil
}
