package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jack/jack/parser"
)

const lsName = "jackc"

var lspLog = commonlog.GetLogger("jack.lsp")

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	watcher  *FileWatcher
	version  string
	opts     []parser.Option
	interval time.Duration

	mu   sync.Mutex
	open map[string]bool
	// notify is the client notification channel captured from the most
	// recent request context, used by the file watcher.
	notify glsp.NotifyFunc
}

// NewLSPServer creates a language server. opts apply to every parse;
// interval is the file watcher's poll period.
func NewLSPServer(version string, interval time.Duration, opts ...parser.Option) *LSPServer {
	ls := &LSPServer{
		version:  version,
		opts:     opts,
		interval: interval,
		open:     make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := rootDirOf(params)
	ls.codebase = New(rootDir, ls.opts...)
	lspLog.Infof("initialize %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

// rootDirOf resolves the workspace root to an absolute path, so files
// found by scanning share their keys with the URIs editors send.
func rootDirOf(params *protocol.InitializeParams) string {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		lspLog.Warningf("resolve %s: %v", rootDir, err)
		return filepath.Clean(rootDir)
	}
	return abs
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setNotify(ctx.Notify)
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Errorf("scan %s: %v", ls.codebase.RootDir(), err)
	}
	for _, path := range ls.codebase.Paths() {
		ls.publishDiagnostics(ctx.Notify, pathToURI(path), path)
	}

	ls.watcher = NewFileWatcher(ls.codebase, ls.interval)
	ls.watcher.Skip = ls.isOpen
	ls.watcher.OnChange = func(path string, removed bool) {
		notify := ls.getNotify()
		if notify == nil {
			return
		}
		if removed {
			notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
				URI:         pathToURI(path),
				Diagnostics: []protocol.Diagnostic{},
			})
			return
		}
		ls.publishDiagnostics(notify, pathToURI(path), path)
	}
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setNotify(ctx.Notify)
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, true)
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx.Notify, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	ls.setNotify(ctx.Notify)
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx.Notify, params.TextDocument.URI, path)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, false)
	// The buffer may have been discarded; fall back to what is on disk.
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
	}
	ls.publishDiagnostics(ctx.Notify, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	ls.publishDiagnostics(ctx.Notify, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	triggerCol := findTriggerPosition(file.Content, line, col)
	if triggerCol < 0 {
		return nil, nil
	}

	completions := ls.codebase.CompletionsAtPoint(path, line, triggerCol+1)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		format := protocol.InsertTextFormatSnippet

		items = append(items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insertText,
			InsertTextFormat: &format,
		})
	}

	return items, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	symbols := ls.codebase.Symbols(path)
	if symbols == nil {
		return nil, nil
	}
	return toDocumentSymbols(symbols), nil
}

func (ls *LSPServer) publishDiagnostics(notify glsp.NotifyFunc, uri protocol.DocumentUri, path string) {
	if notify == nil {
		return
	}
	diags := ls.codebase.Diagnostics(path)
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(diags),
	})
}

func (ls *LSPServer) setNotify(notify glsp.NotifyFunc) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.notify = notify
}

func (ls *LSPServer) getNotify() glsp.NotifyFunc {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.notify
}

func (ls *LSPServer) setOpen(path string, open bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if open {
		ls.open[path] = true
	} else {
		delete(ls.open, path)
	}
}

func (ls *LSPServer) isOpen(path string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.open[path]
}

func toProtocolDiagnostics(diags []Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	source := lsName
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toDocumentSymbols(symbols []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           toProtocolSymbolKind(s.Kind),
			Range:          toProtocolRange(s.Span),
			SelectionRange: toProtocolRange(s.NameSpan),
		}
		if s.Detail != "" {
			detail := s.Detail
			ds.Detail = &detail
		}
		if len(s.Children) > 0 {
			ds.Children = toDocumentSymbols(s.Children)
		}
		out = append(out, ds)
	}
	return out
}

// toProtocolRange converts 1-based lines and columns to the protocol's
// 0-based positions.
func toProtocolRange(span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(span.Start),
		End:   toProtocolPosition(span.End),
	}
}

func toProtocolPosition(loc parser.Location) protocol.Position {
	line, col := loc.Line-1, loc.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

func toProtocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolClass:
		return protocol.SymbolKindClass
	case SymbolField:
		return protocol.SymbolKindField
	case SymbolStatic:
		return protocol.SymbolKindVariable
	case SymbolConstructor:
		return protocol.SymbolKindConstructor
	case SymbolMethod:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindFunction
	}
}

// findTriggerPosition returns the 0-based index of the last "." before
// column col (0-based) on line, or -1.
func findTriggerPosition(content []byte, line, col int) int {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return -1
	}
	lineContent := lines[line-1]

	for i := col - 1; i >= 0; i-- {
		if i < len(lineContent) && lineContent[i] == '.' {
			return i
		}
	}
	return -1
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindConstructor:
		return protocol.CompletionItemKindConstructor
	default:
		return protocol.CompletionItemKindFunction
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
