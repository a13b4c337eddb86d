package logger

import (
	"github.com/drix00/xray-spectrum-analyzer/sym"
	"go.uber.org/zap"
)

// Symbol-aware helpers. The glyph is logged as a structured field, not in
// the message, so logs stay queryable by data kind.

// WithSymbol wraps a logger with the given glyph as a field.
func WithSymbol(l *zap.SugaredLogger, symbol string) *zap.SugaredLogger {
	return OrNop(l).With(FieldSymbol, symbol)
}

// AddXraySymbol wraps a logger with the Xray symbol (⤳)
func AddXraySymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return WithSymbol(l, sym.Xray)
}

// AddIntensitySymbol wraps a logger with the Intensity symbol (▥)
func AddIntensitySymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return WithSymbol(l, sym.Intensity)
}

// AddSpectrumSymbol wraps a logger with the Spectrum symbol (∿)
func AddSpectrumSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return WithSymbol(l, sym.Spectrum)
}

// AddCatalogSymbol wraps a logger with the Catalog symbol (⊔)
func AddCatalogSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return WithSymbol(l, sym.Catalog)
}

// AddWatchSymbol wraps a logger with the Watch symbol (꩜)
func AddWatchSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return WithSymbol(l, sym.Watch)
}
