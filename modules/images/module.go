package images

import (
	"context"
	"log"
	"os"

	"github.com/go-monolith/mono"
)

// Module owns the on-disk product image store.
type Module struct {
	name  string
	root  string
	store *DiskStore
}

// NewModule creates the images module. The root directory comes from the
// IMAGE_DIR environment variable and defaults to ./static/images.
func NewModule() *Module {
	root := os.Getenv("IMAGE_DIR")
	if root == "" {
		root = "static/images"
	}
	return &Module{name: "images", root: root}
}

func (m *Module) Name() string { return m.name }

func (m *Module) Start(ctx context.Context) error {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return err
	}
	m.store = NewDiskStore(m.root)
	log.Printf("[%s] Image store ready at %s", m.name, m.root)
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	log.Printf("[%s] Module stopped", m.name)
	return nil
}

// Store returns the disk store for other modules to use.
func (m *Module) Store() *DiskStore { return m.store }

var _ mono.Module = (*Module)(nil)
