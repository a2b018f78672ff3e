package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/pipeline"
	"github.com/couchcryptid/notam-feed-service/internal/report"
)

const maxFetchBody = 64 << 10

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Views(parseQuery(r)).Feed)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Views(parseQuery(r)).Risk)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Views(parseQuery(r)).Summary)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Views(parseQuery(r)).Routes)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Views(parseQuery(r)).Raw)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Views(parseQuery(r)).Stats)
}

func (s *Server) handleNotam(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	n, ok := s.dash.Notam(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown notam "+id)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records := s.dash.Records(parseQuery(r))
	name := domain.ExportFilename(s.clock.Now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(domain.ToCSV(records))) //nolint:errcheck // client may have gone away
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.WriteBriefing(&buf, s.dash.Views(parseQuery(r)), s.clock.Now()); err != nil {
		s.logger.Error("render briefing", "error", err)
		writeError(w, http.StatusInternalServerError, "render briefing failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFetchBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	criteria, err := req.criteria(s.regions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Fetch(r.Context(), criteria))
}

type stateResponse struct {
	State domain.AppState `json:"state"`
	Views domain.Views    `json:"views"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{State: s.dash.Current(), Views: s.dash.StateViews()})
}

func (s *Server) handleArchiveExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.dash.ArchiveExport(r.Context(), parseQuery(r))
	switch {
	case errors.Is(err, pipeline.ErrNoArchive):
		writeError(w, http.StatusNotImplemented, "export archive not configured")
	case err != nil:
		s.logger.Error("archive export", "error", err)
		writeError(w, http.StatusInternalServerError, "archive export failed")
	default:
		writeJSON(w, http.StatusCreated, res)
	}
}

type sourcesResponse struct {
	Sources   []domain.SourceStatus `json:"sources"`
	Connected int                   `json:"connected"`
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	statuses := s.dash.Sources()
	resp := sourcesResponse{Sources: statuses}
	for _, st := range statuses {
		if st.Connected {
			resp.Connected++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type regionResponse struct {
	domain.Region
	Preset string `json:"preset"`
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	out := make([]regionResponse, 0, len(s.regions))
	for _, region := range s.regions {
		out = append(out, regionResponse{Region: region, Preset: region.PresetInput()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	region, ok := domain.FindRegion(s.regions, name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown region "+strings.TrimSpace(name))
		return
	}
	writeJSON(w, http.StatusOK, regionResponse{Region: region, Preset: region.PresetInput()})
}
