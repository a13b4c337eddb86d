package sym

import (
	"testing"
	"unicode/utf8"
)

func TestSymbolToCommandAndCommandToSymbolAreBidirectional(t *testing.T) {
	for symbol, cmd := range SymbolToCommand {
		got, ok := CommandToSymbol[cmd]
		if !ok {
			t.Errorf("SymbolToCommand has %q → %q, but CommandToSymbol has no entry for %q", symbol, cmd, cmd)
			continue
		}
		if got != symbol {
			t.Errorf("bidirectional mismatch: SymbolToCommand[%q] = %q, but CommandToSymbol[%q] = %q", symbol, cmd, cmd, got)
		}
	}
}

func TestMapsHaveSameSize(t *testing.T) {
	if len(SymbolToCommand) != len(CommandToSymbol) {
		t.Errorf("map size mismatch: SymbolToCommand has %d entries, CommandToSymbol has %d",
			len(SymbolToCommand), len(CommandToSymbol))
	}
	if len(PaletteOrder) != len(registry) {
		t.Errorf("PaletteOrder has %d entries, registry has %d", len(PaletteOrder), len(registry))
	}
}

func TestCommandDescriptionsCoversAllCommands(t *testing.T) {
	for cmd := range CommandToSymbol {
		if _, ok := CommandDescriptions[cmd]; !ok {
			t.Errorf("CommandDescriptions missing entry for command %q", cmd)
		}
	}
}

func TestPaletteOrderHasNoDuplicates(t *testing.T) {
	seen := make(map[string]int, len(PaletteOrder))
	for i, symbol := range PaletteOrder {
		if prev, ok := seen[symbol]; ok {
			t.Errorf("PaletteOrder has duplicate %q at indices %d and %d", symbol, prev, i)
		}
		seen[symbol] = i
	}
}

func TestSymbolsAreSingleRunes(t *testing.T) {
	for _, symbol := range PaletteOrder {
		if !utf8.ValidString(symbol) {
			t.Errorf("symbol %q is not valid UTF-8", symbol)
		}
		if n := utf8.RuneCountInString(symbol); n != 1 {
			t.Errorf("symbol %q has %d runes, want 1", symbol, n)
		}
	}
}

func TestHeader(t *testing.T) {
	if got := Header("transition", "Cu K-L3"); got != Xray+" Cu K-L3" {
		t.Errorf("Header(transition) = %q", got)
	}
	if got := Header("unknown", "plain"); got != "plain" {
		t.Errorf("Header(unknown) = %q, want plain", got)
	}
	if got := Label(Spectrum); got != "Spectrum" {
		t.Errorf("Label(Spectrum) = %q", got)
	}
}
