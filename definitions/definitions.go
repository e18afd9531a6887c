package definitions

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/urlbuilder/urlbuilder"
	"github.com/drone/envsubst"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	ErrNameRequired  = errors.New("definitions: name is required")
	ErrDuplicateName = errors.New("definitions: duplicate name")
)

// File is the content of a definitions file.
type File struct {
	URLs []Definition `yaml:"urls"`
}

// Definition describes a single URL. Resources and Parameters are applied
// to the builder in the order they are listed.
type Definition struct {
	Name       string      `yaml:"name"`
	Hostname   string      `yaml:"hostname"`
	Resources  []string    `yaml:"resources"`
	Parameters []Parameter `yaml:"parameters"`
}

type Parameter struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type Option func(*options)

type options struct {
	log       *slog.Logger
	expandEnv bool
}

// WithExpandEnv enables ${VAR} expansion of the file content before it is parsed.
func WithExpandEnv(expand bool) Option {
	return func(o *options) {
		o.expandEnv = expand
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Load reads the definitions file at path from fsys, and validates it.
func Load(fsys afero.Fs, path string, opts ...Option) (f File, err error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.With(slog.String("path", path))

	log.Debug("reading definitions file")
	buf, err := afero.ReadFile(fsys, path)
	if err != nil {
		return f, fmt.Errorf("definitions: failed to read %q: %w", path, err)
	}

	if o.expandEnv {
		log.Debug("expanding environment variables")
		s, err := envsubst.EvalEnv(string(buf))
		if err != nil {
			return f, fmt.Errorf("definitions: failed to expand env vars in %q: %w", path, err)
		}
		buf = []byte(s)
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err = dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return f, fmt.Errorf("definitions: failed to parse %q: %w", path, err)
	}
	if err = f.Validate(); err != nil {
		return f, fmt.Errorf("definitions: invalid file %q: %w", path, err)
	}
	log.Debug("loaded definitions", slog.Int("count", len(f.URLs)))
	return f, nil
}

// Validate checks that every definition has a unique name.
func (f File) Validate() error {
	seen := map[string]struct{}{}
	for i, d := range f.URLs {
		if d.Name == "" {
			return fmt.Errorf("url at index %d: %w", i, ErrNameRequired)
		}
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

func (f File) Get(name string) (d Definition, ok bool) {
	for _, d := range f.URLs {
		if d.Name == name {
			return d, true
		}
	}
	return d, false
}

// Builder replays the definition through a new URLBuilder. A definition
// without a hostname produces a builder that fails with
// urlbuilder.ErrMissingHostname.
func (d Definition) Builder() *urlbuilder.URLBuilder {
	ub := urlbuilder.New()
	if d.Hostname != "" {
		ub.Hostname(d.Hostname)
	}
	for _, r := range d.Resources {
		ub.Resource(r)
	}
	for _, p := range d.Parameters {
		ub.Parameter(p.Key, p.Value)
	}
	return ub
}

func (d Definition) Build() (string, error) {
	u, err := d.Builder().Build()
	if err != nil {
		return "", fmt.Errorf("failed to build %q: %w", d.Name, err)
	}
	return u, nil
}
