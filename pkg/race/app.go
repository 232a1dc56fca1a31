package race

import (
	"maps"

	"github.com/vango-dev/race/internal/errors"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/vdom"
)

// App binds a root component to a host.
type App struct {
	def      *Definition
	props    vdom.Props
	renderer *Renderer
	root     *Instance
}

// AppOption configures an App.
type AppOption func(*appConfig)

type appConfig struct {
	host host.Adapter
	opts []Option
}

// WithHost sets the host the app renders into. The default is a fresh
// host.Memory.
func WithHost(adapter host.Adapter) AppOption {
	return func(c *appConfig) {
		c.host = adapter
	}
}

// WithRendererOptions passes options to the app's renderer.
func WithRendererOptions(opts ...Option) AppOption {
	return func(c *appConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// CreateApp prepares def with the given root props. Nothing is rendered
// until Mount.
func CreateApp(def *Definition, props vdom.Props, opts ...AppOption) *App {
	cfg := appConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.host == nil {
		cfg.host = host.NewMemory()
	}
	return &App{
		def:      def,
		props:    maps.Clone(props),
		renderer: NewRenderer(cfg.host, cfg.opts...),
	}
}

// Mount renders the root component into target: a host handle, or a lookup
// string resolved through the host's Finder. An unresolved target is
// reported; it is returned only with WithRaiseErrors.
func (a *App) Mount(target any) error {
	if a.root != nil {
		a.renderer.logger.Warn("app already mounted", "component_name", a.def.Name())
		return nil
	}
	container, ok := a.resolve(target)
	if !ok {
		return a.renderer.fail(errors.New(errors.CodeTargetNotFound).WithDetailf("%v", target).WithComponent(a.def.Name()))
	}
	root := a.renderer.NewInstance(a.def, a.props)
	if err := root.Mount(container); err != nil {
		return err
	}
	a.root = root
	return nil
}

func (a *App) resolve(target any) (host.Handle, bool) {
	switch t := target.(type) {
	case nil:
		return nil, false
	case string:
		f, ok := a.renderer.host.(host.Finder)
		if !ok {
			return nil, false
		}
		return f.Find(t)
	}
	return target, true
}

// Unmount tears down the root component.
func (a *App) Unmount() error {
	if a.root == nil {
		return nil
	}
	err := a.root.Unmount()
	a.root = nil
	return err
}

// Root returns the mounted root instance, or nil.
func (a *App) Root() *Instance { return a.root }

// Renderer returns the app's renderer.
func (a *App) Renderer() *Renderer { return a.renderer }

// Host returns the adapter the app renders into.
func (a *App) Host() host.Adapter { return a.renderer.host }
