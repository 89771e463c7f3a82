// Package clipboard places assembled context documents on the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service is the system-clipboard backed Copier.
type Service struct {
	writeAll func(text string) error
}

// NewService constructs a Service backed by github.com/atotto/clipboard.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return service.writeAll(text)
}

var _ Copier = (*Service)(nil)
