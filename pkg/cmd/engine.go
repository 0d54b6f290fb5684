package cmd

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/folio-site/folio/pkg/cache"
	"github.com/folio-site/folio/pkg/render"
)

// engineFlag is a pflag.Value accepting registered engine names.
type engineFlag struct {
	name string
}

var _ pflag.Value = (*engineFlag)(nil)

func (e *engineFlag) String() string { return e.name }

func (e *engineFlag) Set(s string) error {
	if _, err := render.EngineByName(s); err != nil {
		return err
	}
	e.name = s
	return nil
}

func (e *engineFlag) Type() string { return "engine" }

// or returns the flag value, or fallback when the flag was not given.
func (e *engineFlag) or(fallback string) string {
	if e.name != "" {
		return e.name
	}
	return fallback
}

// openEngine returns the named engine, wrapped in the render cache unless
// noCache is set or no cache is configured. A cache that cannot be opened
// (for example, held by a running server) is skipped with a warning.
func openEngine(name string, noCache bool) (render.Engine, func() error, error) {
	base, err := render.EngineByName(name)
	if err != nil {
		return nil, nil, err
	}
	nop := func() error { return nil }
	if noCache || cfg.CachePath == "" {
		return base, nop, nil
	}

	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		logger.WithError(err).Warn("render cache unavailable")
		return base, nop, nil
	}
	return cache.Wrap(name, renderFingerprint(), base, c, logger), c.Close, nil
}

// renderFingerprint identifies the renderer build for the render cache: the
// folio version and, for builds from a checkout, the VCS revision. A build
// with uncommitted changes also carries the executable's modification time.
func renderFingerprint() string {
	fp := Version
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fp
	}
	var revision string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision != "" {
		fp += "+" + revision
	}
	if modified {
		if exe, err := os.Executable(); err == nil {
			if st, err := os.Stat(exe); err == nil {
				fp += "." + strconv.FormatInt(st.ModTime().Unix(), 36)
			}
		}
	}
	return fp
}

// siteEngine builds the site renderer with the given options.
func siteEngine(name string, opts ...render.Option) (render.Engine, error) {
	if name != render.EngineSite {
		return nil, fmt.Errorf("--trace and --no-classes only apply to the %q engine", render.EngineSite)
	}
	return render.New(opts...), nil
}
