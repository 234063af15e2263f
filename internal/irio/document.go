package irio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"weld/internal/hir"
	"weld/internal/types"
)

var log = commonlog.GetLogger("weld.irio")

// Document is an IR tree written by hand or by an external parser adapter.
// A front document holds the statements of one module, a native document the
// declarations of one translation unit.
//
//	language: python
//	name: count
//	file: count.py
//	body:
//	  - kind: function
//	    name: count
//	    params: [{name: items, type: "list[int]"}]
//	    body:
//	      - kind: return
//	        value: {kind: call, callee: {kind: variable, name: len}, args: [{kind: variable, name: items}]}
type Document struct {
	// python/front or c/native
	Language string `yaml:"language"`

	Name string `yaml:"name"`

	// File names the source file in locations; defaults to the document path
	File string `yaml:"file,omitempty"`

	Docs string  `yaml:"docs,omitempty"`
	Body []*Node `yaml:"body"`
}

// Node is every node shape of both IRs in one struct. Kind selects which
// fields are read; the rest must be left empty.
type Node struct {
	Kind string `yaml:"kind"`

	// Missing ids are allocated by the decoder
	ID int `yaml:"id,omitempty"`

	Name       string   `yaml:"name,omitempty"`
	Type       string   `yaml:"type,omitempty"`
	Returns    string   `yaml:"returns,omitempty"`
	Params     []Param  `yaml:"params,omitempty"`
	Fields     []Param  `yaml:"fields,omitempty"`
	Bases      []string `yaml:"bases,omitempty"`
	Decorators []string `yaml:"decorators,omitempty"`
	Visibility string   `yaml:"visibility,omitempty"`
	Storage    string   `yaml:"storage,omitempty"`

	Callee *Node   `yaml:"callee,omitempty"`
	Args   []*Node `yaml:"args,omitempty"`
	Kwargs []Kwarg `yaml:"kwargs,omitempty"`

	// Target is the assigned name of a front assignment or a for loop
	Target string `yaml:"target,omitempty"`
	Value  *Node  `yaml:"value,omitempty"`

	Op      string `yaml:"op,omitempty"`
	Left    *Node  `yaml:"left,omitempty"`
	Right   *Node  `yaml:"right,omitempty"`
	Operand *Node  `yaml:"operand,omitempty"`

	Cond  *Node   `yaml:"cond,omitempty"`
	Then  []*Node `yaml:"then,omitempty"`
	Else  []*Node `yaml:"else,omitempty"`
	Body  []*Node `yaml:"body,omitempty"`
	Iter  *Node   `yaml:"iter,omitempty"`
	Init  *Node   `yaml:"init,omitempty"`
	Step  *Node   `yaml:"step,omitempty"`
	Ifs   []*Node `yaml:"ifs,omitempty"`
	Elem  *Node   `yaml:"elem,omitempty"`
	Index *Node   `yaml:"index,omitempty"`
	Attr  string  `yaml:"attr,omitempty"`
	Arrow bool    `yaml:"arrow,omitempty"`

	// Literals: lit is one of int, uint, float, str, char, bool, none
	Lit  string `yaml:"lit,omitempty"`
	Text string `yaml:"text,omitempty"`

	Docs   string `yaml:"docs,omitempty"`
	Line   int    `yaml:"line,omitempty"`
	Column int    `yaml:"col,omitempty"`
}

type Param struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type,omitempty"`
	Default *Node  `yaml:"default,omitempty"`
}

type Kwarg struct {
	Name  string `yaml:"name"`
	Value *Node  `yaml:"value"`
}

// Decoder turns IR documents into trees. Ids missing from a document come
// from the decoder's allocator, so documents decoded by one Decoder never
// share generated ids.
type Decoder struct {
	reg *types.Registry
	ids *hir.IDAllocator
}

// NewDecoder returns a decoder resolving type spellings with reg. A nil reg
// knows only the builtin spellings.
func NewDecoder(reg *types.Registry) *Decoder {
	if reg == nil {
		reg = types.NewRegistry()
	}
	return &Decoder{reg: reg, ids: hir.NewIDAllocator()}
}

// ParseDocument reads a YAML document, rejecting unknown fields
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty IR document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &doc, nil
}

// DecodeFront decodes a front document. name is used for locations when the
// document has no file of its own.
func (d *Decoder) DecodeFront(data []byte, name string) (*hir.FrontModule, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	r, err := d.reader(doc, name, hir.Front)
	if err != nil {
		return nil, err
	}
	body, err := r.frontBlock(doc.Body, "body")
	if err != nil {
		return nil, err
	}
	mod := &hir.FrontModule{
		Name: ident(firstNonEmpty(doc.Name, moduleName(name))),
		Body: body,
		Meta: hir.NewMetadata().WithDocs(doc.Docs),
	}
	log.Debugf("decoded front module %s: %d statements", mod.Name, len(mod.Body))
	return mod, nil
}

// DecodeNative decodes a native document
func (d *Decoder) DecodeNative(data []byte, name string) (*hir.NativeTranslationUnit, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	r, err := d.reader(doc, name, hir.Native)
	if err != nil {
		return nil, err
	}
	decls, err := r.nativeBlock(doc.Body, "body")
	if err != nil {
		return nil, err
	}
	tu := &hir.NativeTranslationUnit{
		Name:  ident(firstNonEmpty(doc.Name, moduleName(name))),
		Decls: decls,
		Meta:  hir.NewMetadata().WithDocs(doc.Docs),
	}
	log.Debugf("decoded translation unit %s: %d declarations", tu.Name, len(tu.Decls))
	return tu, nil
}

// LoadFront reads and decodes a front document from disk
func (d *Decoder) LoadFront(path string) (*hir.FrontModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR document: %w", err)
	}
	mod, err := d.DecodeFront(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mod, nil
}

// LoadNative reads and decodes a native document from disk
func (d *Decoder) LoadNative(path string) (*hir.NativeTranslationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR document: %w", err)
	}
	tu, err := d.DecodeNative(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tu, nil
}

func (d *Decoder) reader(doc *Document, name string, want hir.Language) (*reader, error) {
	if doc.Language == "" {
		return nil, errors.New("document has no language")
	}
	lang, err := hir.ParseLanguage(doc.Language)
	if err != nil {
		return nil, err
	}
	if lang != want {
		return nil, fmt.Errorf("document language is %s, expected %s", lang, want)
	}
	universe := types.UniverseDynamic
	if lang == hir.Native {
		universe = types.UniverseNative
	}
	return &reader{
		reg:      d.reg,
		ids:      d.ids,
		universe: universe,
		lang:     lang,
		file:     firstNonEmpty(doc.File, name),
		seen:     map[hir.NodeID]string{},
	}, nil
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
