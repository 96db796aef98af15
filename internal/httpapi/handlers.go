package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/davetashner/tvcharts/internal/aggregate"
	"github.com/davetashner/tvcharts/internal/filter"
	"github.com/davetashner/tvcharts/internal/output"
	"github.com/davetashner/tvcharts/internal/pipeline"
	"github.com/davetashner/tvcharts/internal/tv"
)

// errBadQuery marks a malformed query parameter.
var errBadQuery = errors.New("bad query")

type errorResponse struct {
	Error string `json:"error"`
}

// datasetResponse is the body of GET /api/datasets/{kind}.
type datasetResponse struct {
	Dataset tv.Dataset      `json:"dataset"`
	Rows    tv.ParseSummary `json:"rows"`
	Filter  tv.Criteria     `json:"filter"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) listDatasets(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configFor(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.build(r, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, output.NewJSONFormatter().Envelope(result))
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if aggregate.Get(kind) == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown dataset %q (available: %s)", kind, strings.Join(aggregate.List(), ", ")))
		return
	}

	cfg, err := s.configFor(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg.Aggregators = []string{kind}

	result, err := s.build(r, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ar := result.Results[0]
	if ar.Err != nil {
		status := http.StatusInternalServerError
		if errors.Is(ar.Err, aggregate.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, ar.Err.Error())
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{
		Dataset: ar.Dataset,
		Rows:    summaryWithoutIssues(result.Parse),
		Filter:  cfg.Filter,
	})
}

// build runs the pipeline over the server's records with cfg.
func (s *Server) build(r *http.Request, cfg tv.BuildConfig) (*tv.BuildResult, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	result, err := p.RunRecords(r.Context(), s.records)
	if err != nil {
		return nil, err
	}
	result.Parse = s.parse
	slog.Debug("built datasets", "aggregators", p.Aggregators(), "filtered", result.Filtered)
	return result, nil
}

// configFor applies query parameters to the server's base configuration.
// Filter parameters replace the base filter as a whole when any is given.
func (s *Server) configFor(q url.Values) (tv.BuildConfig, error) {
	cfg := s.base

	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%w: top_n must be a non-negative integer, got %q", errBadQuery, v)
		}
		cfg.TopN = n
	}

	if v := q.Get("order"); v != "" {
		switch o := tv.Order(strings.ToLower(v)); o {
		case tv.OrderBySize, tv.OrderByEnergy:
			cfg.Order = o
		default:
			return cfg, fmt.Errorf("%w: order must be size or energy, got %q", errBadQuery, v)
		}
	}

	crit, set, err := criteriaFrom(q)
	if err != nil {
		return cfg, err
	}
	if set {
		if err := filter.Validate(crit); err != nil {
			return cfg, fmt.Errorf("%w: %v", errBadQuery, err)
		}
		cfg.Filter = crit
	}
	return cfg, nil
}

func criteriaFrom(q url.Values) (tv.Criteria, bool, error) {
	var c tv.Criteria
	set := false

	for _, b := range q["brand"] {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.Brands = append(c.Brands, part)
			}
		}
	}
	if len(c.Brands) > 0 {
		set = true
	}

	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"min_screen", &c.MinScreen},
		{"max_screen", &c.MaxScreen},
		{"max_energy", &c.MaxEnergy},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, false, fmt.Errorf("%w: %s must be a number, got %q", errBadQuery, p.key, v)
		}
		*p.dst = f
		set = true
	}
	return c, set, nil
}

func summaryWithoutIssues(s tv.ParseSummary) tv.ParseSummary {
	s.Issues = nil
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
