// Package registry discovers model manifests in the model cache directory.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"aiengine/internal/common/fsutil"
	"aiengine/internal/config"
	"aiengine/pkg/types"
)

// Engines a manifest may reference.
const (
	EngineStatistical = "statistical"
	EngineLinear      = "linear"
	EngineOpenAI      = "openai"
)

// Manifest declares one model backed by a built-in engine.
type Manifest struct {
	Name        string         `json:"name" yaml:"name" toml:"name" validate:"required,max=64"`
	Kind        string         `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=query prediction insight"`
	Engine      string         `json:"engine" yaml:"engine" toml:"engine" validate:"required,oneof=statistical linear openai"`
	Description string         `json:"description" yaml:"description" toml:"description"`
	Version     string         `json:"version" yaml:"version" toml:"version" validate:"omitempty,max=32"`
	Params      map[string]any `json:"params" yaml:"params" toml:"params"`
	// Path is the manifest file the model came from.
	Path string `json:"-" yaml:"-" toml:"-"`
}

// Info projects a manifest into the public model descriptor.
func (m Manifest) Info() types.ModelInfo {
	return types.ModelInfo{
		Name:        m.Name,
		Kind:        m.Kind,
		Engine:      m.Engine,
		Description: m.Description,
		Version:     m.Version,
		Source:      m.Path,
	}
}

// Scanner reads manifests from a directory.
type Scanner struct {
	log      zerolog.Logger
	validate *validator.Validate
	// Concurrency bounds parallel manifest decoding.
	Concurrency int
}

// NewScanner returns a Scanner that reports skipped manifests to log.
func NewScanner(log zerolog.Logger) *Scanner {
	return &Scanner{log: log, validate: validator.New(), Concurrency: 8}
}

// Scan decodes every manifest in dir. A missing directory yields no models.
// Invalid manifests and duplicate names are skipped with a warning; the
// first file in name order wins a duplicate.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]Manifest, error) {
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if fsutil.NotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !config.SupportedExt(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(abs, e.Name()))
	}
	sort.Strings(paths)

	decoded := make([]*Manifest, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := s.decode(p)
			if err != nil {
				s.log.Warn().Err(err).Str("path", p).Msg("skipping model manifest")
				return nil
			}
			decoded[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(decoded))
	var out []Manifest
	for _, m := range decoded {
		if m == nil {
			continue
		}
		if first, dup := seen[m.Name]; dup {
			s.log.Warn().Str("model", m.Name).Str("path", m.Path).Str("first", first).Msg("duplicate model name, skipping")
			continue
		}
		seen[m.Name] = m.Path
		out = append(out, *m)
	}
	return out, nil
}

func (s *Scanner) decode(path string) (*Manifest, error) {
	var m Manifest
	if err := config.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	m.Name = strings.TrimSpace(m.Name)
	m.Kind = strings.ToLower(strings.TrimSpace(m.Kind))
	m.Engine = strings.ToLower(strings.TrimSpace(m.Engine))
	if err := s.validate.Struct(m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if strings.ContainsAny(m.Name, " /\\") {
		return nil, fmt.Errorf("invalid model name %q", m.Name)
	}
	if err := checkEngine(m); err != nil {
		return nil, err
	}
	m.Path = path
	return &m, nil
}

// checkEngine rejects kind/engine pairs no engine can serve.
func checkEngine(m Manifest) error {
	switch m.Kind {
	case types.KindQuery:
		if m.Engine == EngineLinear {
			return fmt.Errorf("engine %q cannot serve queries", m.Engine)
		}
	case types.KindPrediction:
		if m.Engine != EngineLinear {
			return fmt.Errorf("engine %q cannot serve predictions", m.Engine)
		}
	case types.KindInsight:
		if m.Engine != EngineStatistical {
			return fmt.Errorf("engine %q cannot serve insights", m.Engine)
		}
	}
	return nil
}

// LoadDir scans dir without logging skipped manifests.
func LoadDir(dir string) ([]Manifest, error) {
	return NewScanner(zerolog.Nop()).Scan(context.Background(), dir)
}
