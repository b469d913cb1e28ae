package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// Model formats recognized by FileLoader.
const (
	FormatGLB  = "glb"
	FormatGLTF = "gltf"
)

// glbType is the binary glTF container, identified by its "glTF" magic.
var glbType = filetype.NewType(FormatGLB, "model/gltf-binary")

func init() {
	filetype.AddMatcher(glbType, func(buf []byte) bool {
		return len(buf) >= 4 && bytes.Equal(buf[:4], []byte("glTF"))
	})
}

// headerSize is the number of bytes filetype needs to match any kind.
const headerSize = 262

// FileLoader loads models from files below a root directory.
type FileLoader struct {
	root string
}

// NewFileLoader returns a loader resolving model references against root.
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{root: root}
}

// Load resolves model to a file below the root and checks that it holds a
// glTF model: a binary .glb by its magic bytes or a JSON .gltf document.
func (l *FileLoader) Load(model string) Result {
	if strings.TrimSpace(model) == "" {
		return Failed(errors.New("empty model reference"))
	}
	path, err := l.resolve(model)
	if err != nil {
		return Failed(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Failed(err)
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Failed(fmt.Errorf("reading %s: %w", path, err))
	}
	head = head[:n]

	format, err := detect(path, head)
	if err != nil {
		return Failed(err)
	}

	size, color := Geometry(model)
	return Loaded(&Node{
		Model:  model,
		Path:   path,
		Format: format,
		Size:   size,
		Color:  color,
	})
}

func (l *FileLoader) resolve(model string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(model))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("model %q escapes the assets directory", model)
	}
	return filepath.Join(l.root, rel), nil
}

func detect(path string, head []byte) (string, error) {
	kind, _ := filetype.Match(head)
	if kind == glbType {
		return FormatGLB, nil
	}
	if strings.EqualFold(filepath.Ext(path), "."+FormatGLTF) {
		if trimmed := bytes.TrimSpace(head); len(trimmed) > 0 && trimmed[0] == '{' {
			return FormatGLTF, nil
		}
		return "", fmt.Errorf("%s is not a JSON glTF document", path)
	}
	if kind == types.Unknown {
		return "", fmt.Errorf("%s: unrecognized model format", path)
	}
	return "", fmt.Errorf("%s: unsupported model format %s", path, kind.MIME.Value)
}

// Cache memoizes the results of another loader, failures included, so a
// missing model is reported once rather than on every frame.
type Cache struct {
	loader  Loader
	results map[string]Result
}

// NewCache wraps loader.
func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader, results: make(map[string]Result)}
}

// Load returns the cached result for model, loading it on first use.
func (c *Cache) Load(model string) Result {
	if r, ok := c.results[model]; ok {
		return r
	}
	r := c.loader.Load(model)
	c.results[model] = r
	return r
}

// Forget drops every cached result, e.g. after the assets changed on disk.
func (c *Cache) Forget() {
	c.results = make(map[string]Result)
}
