package service

import (
	"fmt"
	"path/filepath"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
)

// graphDirName is the directory under the media root that holds all rendered
// graph artifacts, one subdirectory per portfolio.
const graphDirName = "portfolio_graph"

// GraphPath resolves where the rendering collaborator reads and writes the
// artifact for one (portfolio, variant) pair. The file name contract is
// "{variant}_pie.<ext>"; the variant names are owned by the graph engine, so
// an unrecognized variant is rejected here rather than silently producing a
// dead path.
type GraphPath struct {
	name     string
	relPath  string
	fullRoot string
	fullPath string
}

// NewGraphPath builds the artifact paths for a portfolio and variant.
// ext is the artifact extension without a leading dot, e.g. "png".
func NewGraphPath(mediaRoot, portfolioID string, variant model.GraphVariant, ext string) (GraphPath, error) {
	if !variant.Valid() {
		return GraphPath{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidGraphVariant, variant)
	}

	name := fmt.Sprintf("%s_pie.%s", variant, ext)
	portfolioRoot := filepath.Join(graphDirName, portfolioID)

	return GraphPath{
		name:     name,
		relPath:  filepath.Join(portfolioRoot, name),
		fullRoot: filepath.Join(mediaRoot, portfolioRoot),
		fullPath: filepath.Join(mediaRoot, portfolioRoot, name),
	}, nil
}

// Name returns the bare artifact file name.
func (p GraphPath) Name() string { return p.name }

// RelPath returns the artifact path relative to the media root.
func (p GraphPath) RelPath() string { return p.relPath }

// FullRoot returns the absolute directory the artifact lives in.
func (p GraphPath) FullRoot() string { return p.fullRoot }

// FullPath returns the absolute artifact path.
func (p GraphPath) FullPath() string { return p.fullPath }
