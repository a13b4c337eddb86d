package catalog

import (
	"strings"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

// ErrCatalogClosed is returned when an export runs against a closed catalog.
var ErrCatalogClosed = errors.New("catalog is closed")

// IsCatalogClosed reports whether err comes from a closed catalog, either
// marked by this package or raised directly by database/sql.
func IsCatalogClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCatalogClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// markClosed tags driver errors from a closed handle with ErrCatalogClosed.
func markClosed(err error) error {
	if err != nil && !errors.Is(err, ErrCatalogClosed) && IsCatalogClosed(err) {
		return errors.Mark(err, ErrCatalogClosed)
	}
	return err
}
