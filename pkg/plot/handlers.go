package plot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/raykavin/trendline"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/export"
	"github.com/raykavin/trendline/pkg/scale"
	"github.com/raykavin/trendline/pkg/toggle"
)

// handleScript serves the transpiled page script
func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprint(w, s.scriptContent)
}

// handleHealth reports whether every chart was prepared
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	failures := s.Failures()
	if len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)

		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(strings.Join(names, "\n"))); err != nil {
			s.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex renders every chart with its controls
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	views := make([]chartView, 0, len(s.charts))
	for _, def := range s.charts {
		view := chartView{Name: def.Name, Title: def.Title}

		p, err := s.chart(def.Name)
		if err != nil {
			view.Error = err.Error()
			views = append(views, view)
			continue
		}

		content, err := s.svg(p)
		if err != nil {
			view.Error = err.Error()
			views = append(views, view)
			continue
		}

		// the document is generated by the renderer, which escapes every text node
		view.SVG = template.HTML(content)
		view.Checkbox = p.Controls.Kind() == toggle.Checkbox
		view.Controls = controls(p)
		views = append(views, view)
	}

	w.Header().Set("Content-Type", "text/html")
	err := s.indexHTML.Execute(w, map[string]any{
		"charts": views,
	})
	if err != nil {
		s.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleSVG serves one chart document in its current toggle state
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	content, err := s.svg(p)
	if err != nil {
		s.log.WithField("chart", p.Chart.Name).Error("Render failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write([]byte(content)); err != nil {
		s.log.Error("Failed writing SVG response: ", err)
	}
}

// handleData serves the series, colors, domains and control states of one chart
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	axis := p.Dataset.Axis
	response := dataResponse{
		Name:     p.Chart.Name,
		Title:    p.Chart.Title,
		XLabel:   p.Chart.XLabel,
		YLabel:   p.Chart.YLabel,
		Axis:     axis.String(),
		Controls: p.Controls.Snapshot(),
		Domain:   domain{Y: p.Y.Domain},
	}

	switch x := p.X.(type) {
	case *scale.Time:
		response.Domain.X = [2]any{x.Domain[0], x.Domain[1]}
	case *scale.Linear:
		response.Domain.X = [2]any{x.Domain[0], x.Domain[1]}
	}

	for _, series := range p.Series {
		response.Series = append(response.Series, seriesData{
			Name:    series.Name,
			Control: toggle.ControlID(series.Name),
			Color:   p.Colors.Color(series.Name),
			Points:  toPoints(axis, series.Points),
		})
	}

	if p.Chart.Events {
		response.Events = s.events
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleToggle flips one control and returns its new style. The control is addressed
// either by id or by the class attribute of the clicked element.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	id := r.URL.Query().Get("control")
	if id == "" {
		class := r.URL.Query().Get("class")
		if strings.TrimSpace(class) == "" {
			http.Error(w, "missing control", http.StatusBadRequest)
			return
		}

		resolved, err := p.Controls.Resolve(class)
		if errors.Is(err, core.ErrUnknownControl) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id = resolved
	}

	style, err := p.Controls.Toggle(id)
	if errors.Is(err, core.ErrUnknownControl) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.log.WithFields(map[string]any{
		"chart":   p.Chart.Name,
		"control": id,
		"state":   style.State.String(),
	}).Debug("control toggled")

	s.sockets.Broadcast(p.Chart.Name, "toggle", style)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(style); err != nil {
		s.log.Error("JSON encoding failed: ", err)
	}
}

// handleReload prepares one chart again from its source
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	err := s.Reload(r.Context(), name)
	if errors.Is(err, core.ErrUnknownChart) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.WithField("chart", name).WithError(err).Error("reload failed")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	if p, err := s.chart(name); err == nil {
		s.sockets.Broadcast(name, "state", p.Controls.Snapshot())
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleExport handles the long-format CSV download of one chart
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	buffer := bytes.NewBuffer(nil)
	if err := export.WriteCSV(buffer, p.Dataset.Axis, p.Series); err != nil {
		s.log.Error("Failed writing CSV: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename="+p.Chart.Name+".csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing CSV response: ", err)
	}
}

// handleInteractive renders one chart as an ECharts page
func (s *Server) handleInteractive(w http.ResponseWriter, r *http.Request) {
	p, ok := s.requestedChart(w, r)
	if !ok {
		return
	}

	buffer := bytes.NewBuffer(nil)
	err := export.WriteECharts(buffer, page(p))
	if err != nil {
		s.log.Error("Failed rendering interactive chart: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing interactive response: ", err)
	}
}

// requestedChart resolves the name query parameter, answering the request itself on failure
func (s *Server) requestedChart(w http.ResponseWriter, r *http.Request) (*trendline.Prepared, bool) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return nil, false
	}

	p, err := s.chart(name)
	if errors.Is(err, core.ErrUnknownChart) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}

	return p, true
}

func controls(p *trendline.Prepared) []control {
	group := p.Chart.ControlGroup()

	styles := p.Controls.Snapshot()
	out := make([]control, len(styles))
	for i, style := range styles {
		out[i] = control{
			ID:     style.Control,
			Series: style.Series,
			Class:  group + " " + style.Control,
			Color:  p.Colors.Color(style.Series),
			Style:  style,
		}
	}
	return out
}

// page converts a prepared chart into an interactive export page
func page(p *trendline.Prepared) export.Page {
	hidden := make([]string, 0)
	for _, style := range p.Controls.Snapshot() {
		if style.State == toggle.Inactive {
			hidden = append(hidden, style.Series)
		}
	}

	return export.Page{
		Title:  p.Chart.Title,
		XLabel: p.Chart.XLabel,
		YLabel: p.Chart.YLabel,
		Axis:   p.Dataset.Axis,
		Layout: p.Layout,
		Series: p.Series,
		Colors: p.Colors,
		Hidden: hidden,
	}
}
