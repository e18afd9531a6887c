package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/a-h/urlbuilder/definitions"
	"github.com/a-h/urlbuilder/urlbuilder"
	"github.com/alecthomas/kong"
	"github.com/spf13/afero"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, afero.NewOsFs()); err != nil {
		getLogger(os.Stderr, "error").Error("failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(w io.Writer, level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ll,
	}))
}

type Global struct {
	Log *slog.Logger
	Out io.Writer
	Fs  afero.Fs
}

type CLI struct {
	Level string `help:"The log level to use, set to info for additional logs" enum:"debug,info,warn,error" default:"warn"`

	Build BuildCmd `cmd:"" help:"Build a URL from flags."`
	File  FileCmd  `cmd:"" help:"Build the URLs listed in a definitions file."`
}

type BuildCmd struct {
	Hostname  string   `short:"H" help:"Hostname, including the scheme, e.g. https://example.com"`
	Resources []string `name:"resource" short:"r" sep:"none" help:"Path segment to append, may be repeated"`
	Params    []string `name:"param" short:"p" sep:"none" help:"Query parameter in key=value form, may be repeated"`
}

func (c *BuildCmd) Run(g *Global) (err error) {
	ub := urlbuilder.New()
	if c.Hostname != "" {
		ub.Hostname(c.Hostname)
	}
	for _, r := range c.Resources {
		ub.Resource(r)
	}
	for _, p := range c.Params {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		ub.Parameter(k, v)
	}
	u, err := ub.Build()
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	g.Log.Info("built URL", slog.String("url", u))
	_, err = fmt.Fprintln(g.Out, u)
	return err
}

type FileCmd struct {
	Path      string `arg:"" help:"Path to the YAML definitions file."`
	Name      string `short:"n" help:"Only build the URL with this name."`
	ExpandEnv bool   `name:"expand-env" help:"Expand environment variable references in the file before parsing it."`
}

func (c *FileCmd) Run(g *Global) (err error) {
	f, err := definitions.Load(g.Fs, c.Path, definitions.WithExpandEnv(c.ExpandEnv), definitions.WithLogger(g.Log))
	if err != nil {
		return err
	}
	if c.Name != "" {
		d, ok := f.Get(c.Name)
		if !ok {
			return fmt.Errorf("no URL named %q in %q", c.Name, c.Path)
		}
		u, err := d.Build()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(g.Out, u)
		return err
	}
	for _, d := range f.URLs {
		u, err := d.Build()
		if err != nil {
			return err
		}
		g.Log.Info("built URL", slog.String("name", d.Name), slog.String("url", u))
		if _, err = fmt.Fprintf(g.Out, "%s\t%s\n", d.Name, u); err != nil {
			return err
		}
	}
	return nil
}

func run(args []string, stdout, stderr io.Writer, fsys afero.Fs) (err error) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("urlbuilder"),
		kong.Description("urlbuilder assembles URLs from a hostname, path resources and query parameters."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create command line parser: %w", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	g := &Global{
		Log: getLogger(stderr, cli.Level),
		Out: stdout,
		Fs:  fsys,
	}
	return kctx.Run(g)
}
