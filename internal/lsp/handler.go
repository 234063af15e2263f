package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"weld/grammar"
	"weld/internal/catalog"
)

var log = commonlog.GetLogger("weld.lsp")

// Semantic token types reported for pattern-rule files
var SemanticTokenTypes = []string{
	"type",
	"function",
	"method",
	"variable",
	"keyword",
	"enumMember",
	"comment",
}

// Semantic token modifiers (bit i of the mask is modifier i)
var SemanticTokenModifiers = []string{
	"declaration",
	"defaultLibrary",
}

// PatternsHandler serves pattern-rule files. Rules are checked against the
// built-in catalog plus whatever base was given.
type PatternsHandler struct {
	mu    sync.RWMutex
	base  *catalog.Catalog
	files map[string]*grammar.RuleFile
}

// NewPatternsHandler checks rules against base; nil means the built-ins
func NewPatternsHandler(base *catalog.Catalog) *PatternsHandler {
	if base == nil {
		base = catalog.Default()
	}
	return &PatternsHandler{
		base:  base,
		files: make(map[string]*grammar.RuleFile),
	}
}

func (h *PatternsHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *PatternsHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *PatternsHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *PatternsHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (h *PatternsHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	publish(ctx, params.TextDocument.URI, h.update(path, params.TextDocument.Text))
	return nil
}

func (h *PatternsHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.files, path)

	return nil
}

// TextDocumentDidChange takes the last full-text change; the server only
// advertises full synchronisation
func (h *PatternsHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	text, ok := "", false
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, ok = c.Text, true
		case *protocol.TextDocumentContentChangeEventWhole:
			text, ok = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text, ok = c.Text, true
			}
		}
	}
	if !ok {
		return fmt.Errorf("no full-text change for %s", params.TextDocument.URI)
	}

	publish(ctx, params.TextDocument.URI, h.update(path, text))
	return nil
}

// TextDocumentCompletion offers the rule keyword, the result kinds and the
// callees already known to the catalog
func (h *PatternsHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	keyword := protocol.CompletionItemKindKeyword
	member := protocol.CompletionItemKindEnumMember
	function := protocol.CompletionItemKindFunction

	items := []protocol.CompletionItem{{Label: keywordPattern, Kind: &keyword}}
	for _, k := range catalog.ResultKinds {
		items = append(items, protocol.CompletionItem{Label: k, Kind: &member})
	}

	seen := map[string]bool{}
	for _, e := range h.base.All() {
		for _, callee := range []string{e.NativeCallee, e.TargetCallee} {
			if seen[callee] {
				continue
			}
			seen[callee] = true
			items = append(items, protocol.CompletionItem{
				Label:  callee,
				Kind:   &function,
				Detail: ptrString(e.String()),
			})
		}
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func (h *PatternsHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, err
	}

	file, err := h.getOrLoad(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeTokens(collectSemanticTokens(file)),
	}, nil
}

// getOrLoad returns the parsed file, reading it from disk when the editor
// has not opened it
func (h *PatternsHandler) getOrLoad(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*grammar.RuleFile, error) {
	h.mu.RLock()
	file, ok := h.files[path]
	h.mu.RUnlock()
	if ok {
		return file, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	publish(ctx, rawURI, h.update(path, string(content)))

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.files[path], nil
}

// update re-parses path. The last file that parsed is kept for semantic
// tokens when the new text does not.
func (h *PatternsHandler) update(path, text string) []protocol.Diagnostic {
	file, diagnostics := Diagnose(path, text, h.base)

	h.mu.Lock()
	defer h.mu.Unlock()
	if file != nil {
		h.files[path] = file
	}
	return diagnostics
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) → C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

// publish always sends, so fixed files clear their old diagnostics
func publish(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
