// Package sym defines the glyphs that mark each kind of reference data in
// logs (the "symbol" field) and CLI headers.
//
// Glyphs are stable: scripts grep logs by them.
package sym

// Data kind glyphs.
const (
	Xray      = "⤳" // radiative transition (x-ray line)
	Auger     = "⥁" // non-radiative transition (Auger electron)
	Intensity = "▥" // simulated PENEPMA line intensities
	Spectrum  = "∿" // simulated PENEPMA spectrum (raw or convolved)
)

// System glyphs.
const (
	AM      = "≡" // am: configuration
	Catalog = "⊔" // sqlite catalog export
	Watch   = "꩜" // file watcher and reloads
	Near    = "⋈" // energy-window line identification
)

// entry binds a glyph to its CLI command and description.
type entry struct {
	glyph       string
	command     string
	label       string
	description string
}

// registry is the canonical list of glyphs, in palette order.
var registry = []entry{
	{Xray, "transition", "X-ray", "Radiative transition probabilities and energies"},
	{Auger, "auger", "Auger", "Non-radiative transition probabilities and energies"},
	{Near, "near", "Identify", "X-ray lines near an energy"},
	{Intensity, "intensity", "Intensity", "Simulated characteristic line intensities"},
	{Spectrum, "spectrum", "Spectrum", "Simulated energy spectrum"},
	{Catalog, "catalog", "Catalog", "SQLite export of loaded tables"},
	{Watch, "watch", "Watch", "Reload tables when their files change"},
	{AM, "am", "Configuration", "System settings and state"},
}

// PaletteOrder is the canonical ordering for help output.
var PaletteOrder []string

// SymbolToCommand maps glyph strings to their command names.
var SymbolToCommand map[string]string

// CommandToSymbol maps command names to their glyph strings.
var CommandToSymbol map[string]string

// CommandDescriptions provides a one-line explanation per command.
var CommandDescriptions map[string]string

func init() {
	PaletteOrder = make([]string, 0, len(registry))
	SymbolToCommand = make(map[string]string, len(registry))
	CommandToSymbol = make(map[string]string, len(registry))
	CommandDescriptions = make(map[string]string, len(registry))
	for _, e := range registry {
		PaletteOrder = append(PaletteOrder, e.glyph)
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.label + ": " + e.description
	}
}

// Label returns the short label for a glyph, or "" if unknown.
func Label(glyph string) string {
	for _, e := range registry {
		if e.glyph == glyph {
			return e.label
		}
	}
	return ""
}

// Header prefixes title with the glyph for command, if any.
func Header(command, title string) string {
	if g, ok := CommandToSymbol[command]; ok {
		return g + " " + title
	}
	return title
}
