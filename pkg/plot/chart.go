package plot

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/trendline"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/logger"
	"github.com/raykavin/trendline/pkg/render"
	"github.com/raykavin/trendline/pkg/storage"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Cache stores rendered documents per chart toggle state
type Cache interface {
	Get(chart string, hidden []string) (storage.Entry, error)
	Set(entry storage.Entry) error
	Invalidate(chart string) (int, error)
}

// Server serves every configured chart with its toggle controls
type Server struct {
	sync.RWMutex
	port          int
	debug         bool
	layout        core.Layout
	charts        []trendline.Chart
	events        []core.Event
	prepared      map[string]*trendline.Prepared
	failures      map[string]error
	source        trendline.Source
	cache         Cache
	server        HTTPServer
	sockets       *WebSocketManager
	renderOptions []render.Option
	scriptContent string
	indexHTML     *template.Template
	log           logger.Logger
}

// Option defines a function type for configuring a Server instance
type Option func(*Server)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() Option {
	return func(s *Server) {
		s.debug = true
	}
}

// WithCharts sets the charts served, in page order
func WithCharts(charts ...trendline.Chart) Option {
	return func(s *Server) {
		s.charts = append(s.charts, charts...)
	}
}

// WithEvents sets the event markers drawn on charts that enable them
func WithEvents(events []core.Event) Option {
	return func(s *Server) {
		s.events = events
	}
}

// WithLayout sets the size and margins of every chart
func WithLayout(layout core.Layout) Option {
	return func(s *Server) {
		s.layout = layout
	}
}

// WithCache sets the store of rendered documents
func WithCache(cache Cache) Option {
	return func(s *Server) {
		s.cache = cache
	}
}

// WithHTTPServer replaces the server routes are registered on
func WithHTTPServer(server HTTPServer) Option {
	return func(s *Server) {
		s.server = server
	}
}

// WithRenderOptions passes options to the renderer of every chart
func WithRenderOptions(options ...render.Option) Option {
	return func(s *Server) {
		s.renderOptions = options
	}
}

// NewServer creates a chart server with the provided options
func NewServer(log logger.Logger, source trendline.Source, options ...Option) (*Server, error) {
	s := &Server{
		port:     8080,
		layout:   core.DefaultLayout(),
		prepared: make(map[string]*trendline.Prepared),
		failures: make(map[string]error),
		source:   source,
		log:      log,
	}

	for _, option := range options {
		option(s)
	}

	seen := make(map[string]bool, len(s.charts))
	for _, chart := range s.charts {
		if seen[chart.Name] {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateChart, chart.Name)
		}
		seen[chart.Name] = true
	}

	if s.server == nil {
		s.server = NewStandardHTTPServer()
	}

	var err error
	s.indexHTML, err = template.ParseFS(staticFiles, "assets/chart.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	chartJS, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read chart.js: %w", err)
	}

	transpileChartJS := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !s.debug,
		MinifyIdentifiers: !s.debug,
		MinifyWhitespace:  !s.debug,
	})

	if len(transpileChartJS.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpileChartJS.Errors)
	}

	s.scriptContent = string(transpileChartJS.Code)
	s.sockets = NewWebSocketManager(log, s)

	return s, nil
}

// Load prepares every chart. Charts that fail are logged and reported by /health;
// the others are served normally.
func (s *Server) Load(ctx context.Context) {
	prepared, failures := trendline.PrepareAll(ctx, s.source, s.charts, s.layout)

	s.Lock()
	defer s.Unlock()

	for _, p := range prepared {
		s.prepared[p.Chart.Name] = p
		delete(s.failures, p.Chart.Name)
		s.log.WithFields(map[string]any{
			"chart":  p.Chart.Name,
			"series": len(p.Series),
			"rows":   p.Dataset.Len(),
		}).Info("chart ready")
	}

	for name, err := range failures {
		delete(s.prepared, name)
		s.failures[name] = err
		s.log.WithField("chart", name).WithError(err).Error("chart failed to load")
	}
}

// Reload prepares one chart again from its source and drops its cached documents.
// Toggle state starts over.
func (s *Server) Reload(ctx context.Context, name string) error {
	chart, ok := s.definition(name)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownChart, name)
	}

	p, err := trendline.Prepare(ctx, s.source, chart, s.layout)

	s.Lock()
	if err != nil {
		delete(s.prepared, name)
		s.failures[name] = err
	} else {
		s.prepared[name] = p
		delete(s.failures, name)
	}
	s.Unlock()

	if s.cache != nil {
		if _, cerr := s.cache.Invalidate(name); cerr != nil {
			s.log.WithField("chart", name).WithError(cerr).Warn("failed to invalidate cache")
		}
	}

	return err
}

// Failures returns the charts that could not be prepared
func (s *Server) Failures() map[string]error {
	s.RLock()
	defer s.RUnlock()

	failures := make(map[string]error, len(s.failures))
	for name, err := range s.failures {
		failures[name] = err
	}
	return failures
}

// RegisterHandlers registers every route on server
func (s *Server) RegisterHandlers(server HTTPServer) {
	server.RegisterHandler("/assets/chart.js", s.handleScript)
	server.RegisterHandler("/health", s.handleHealth)
	server.RegisterHandler("/chart.svg", s.handleSVG)
	server.RegisterHandler("/data", s.handleData)
	server.RegisterHandler("/toggle", s.handleToggle)
	server.RegisterHandler("/reload", s.handleReload)
	server.RegisterHandler("/export", s.handleExport)
	server.RegisterHandler("/interactive", s.handleInteractive)
	server.RegisterHandler("/ws", s.sockets.HandleWebSocket)
	server.RegisterHandler("/", s.handleIndex)
}

// Start loads every chart and serves them until ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.Load(ctx)
	s.RegisterHandlers(s.server)
	defer s.sockets.Close()

	s.log.Infof("Chart available at http://localhost:%d", s.port)
	return s.server.Start(ctx, s.port)
}

// Close stops pushing toggle updates
func (s *Server) Close() {
	s.sockets.Close()
}

func (s *Server) definition(name string) (trendline.Chart, bool) {
	for _, chart := range s.charts {
		if chart.Name == name {
			return chart, true
		}
	}
	return trendline.Chart{}, false
}

func (s *Server) chart(name string) (*trendline.Prepared, error) {
	s.RLock()
	defer s.RUnlock()

	if p, ok := s.prepared[name]; ok {
		return p, nil
	}
	if err, ok := s.failures[name]; ok {
		return nil, fmt.Errorf("chart %s unavailable: %w", name, err)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownChart, name)
}

// svg returns the document of a chart in its current toggle state, from cache when possible
func (s *Server) svg(p *trendline.Prepared) (string, error) {
	hidden := p.Controls.Hidden()

	if s.cache != nil {
		entry, err := s.cache.Get(p.Chart.Name, hidden)
		if err == nil {
			return entry.SVG, nil
		}
	}

	scene := p.Scene(s.events)
	scene.Visibility = freeze(hidden)

	doc := render.NewDocument(p.Layout)
	if err := render.New(s.renderOptions...).Render(doc, scene); err != nil {
		return "", err
	}
	content := doc.String()

	if s.cache != nil {
		err := s.cache.Set(storage.Entry{Chart: p.Chart.Name, Hidden: hidden, SVG: content})
		if err != nil {
			s.log.WithField("chart", p.Chart.Name).WithError(err).Warn("failed to cache document")
		}
	}

	return content, nil
}
