// Package sym defines the glyphs plaszyme uses in CLI headings and log lines.
// These symbols are stable across CLI output, logs and documentation.
package sym

// Command glyphs — each top-level command has one.
const (
	AM     = "≡" // am — configuration and system settings
	IX     = "⨳" // ix — ingest enzyme corpora
	Search = "⋈" // search — sequence similarity search
	Export = "⟶" // export — FASTA dataset export
)

// System infrastructure symbols.
const (
	DB     = "⊔" // database/storage layer
	Server = "꩜" // HTTP API server
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	description string
}

var registry = []entry{
	{AM, "am", "Configuration"},
	{IX, "ix", "Import enzyme records"},
	{Search, "search", "Sequence similarity search"},
	{Export, "export", "Export FASTA datasets"},
	{DB, "db", "Database statistics"},
	{Server, "server", "HTTP API server"},
}

// Lookup tables built from the registry at init time.
var (
	SymbolToCommand    map[string]string
	CommandToSymbol    map[string]string
	CommandDescription map[string]string
)

func init() {
	SymbolToCommand = make(map[string]string, len(registry))
	CommandToSymbol = make(map[string]string, len(registry))
	CommandDescription = make(map[string]string, len(registry))
	for _, e := range registry {
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescription[e.command] = e.description
	}
}

// Heading prefixes a command's short description with its glyph.
func Heading(command string) string {
	glyph, ok := CommandToSymbol[command]
	if !ok {
		return CommandDescription[command]
	}
	return glyph + " " + CommandDescription[command]
}
