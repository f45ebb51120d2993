// package tasks implements page loading, request sequencing and export operations over the catalog.
package tasks

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/services"
)

// Browser loads view data from a catalog.
type Browser struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewBrowser creates a Browser over catalog.
func NewBrowser(catalog services.Catalog, logger *log.Logger) *Browser {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Browser{catalog: catalog, logger: logger.WithPrefix("tasks")}
}

// Catalog returns the catalog the browser reads from.
func (b *Browser) Catalog() services.Catalog {
	return b.catalog
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
