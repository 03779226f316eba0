package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"transitmetrics.dev/analytics"
	"transitmetrics.dev/analytics/geo"
	"transitmetrics.dev/analytics/model"
)

// Uploads larger than this are rejected before parsing.
const maxUploadBytes = 800 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeBadRequest(w, "expected multipart field 'file'")
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, fmt.Errorf("reading upload: %w", err))
		return
	}

	feed, err := s.ingestor.Ingest(buf, header.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, feed.Summary)
}

func (s *Server) handleListFeeds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	feeds, err := s.registry.ListFeeds()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, feeds)
}

func (s *Server) handleHeadways(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	feedID := r.URL.Query().Get("feed_id")
	if feedID == "" {
		s.writeBadRequest(w, "feed_id is required")
		return
	}

	timebin := s.cfg.TimebinMinutes
	if v := r.URL.Query().Get("timebin_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeBadRequest(w, "timebin_minutes must be a positive integer")
			return
		}
		timebin = n
	}

	feed, err := analytics.LoadFeed(s.store, feedID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	bins := analytics.ComputeHeadways(feed, timebin)
	if dayType := r.URL.Query().Get("day_type_id"); dayType != "" {
		filtered := []*model.HeadwayBin{}
		for _, bin := range bins {
			if bin.DayTypeID == dayType {
				filtered = append(filtered, bin)
			}
		}
		bins = filtered
	}

	s.writeJSON(w, http.StatusOK, bins)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	feed, err := analytics.LoadFeed(s.store, params.ByName("feed_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.ComputeServiceKPIs(feed))
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	feedID := query.Get("feed_id")
	if feedID == "" {
		s.writeBadRequest(w, "feed_id is required")
		return
	}
	zonesPath := query.Get("zones")
	if zonesPath == "" {
		s.writeBadRequest(w, "zones is required")
		return
	}

	params := analytics.AccessibilityParams{
		Thresholds:         s.cfg.AccessibilityThresholds,
		SpeedKmh:           s.cfg.SpeedKmh,
		BoardingPenaltyMin: s.cfg.BoardingPenaltyMin,
	}
	if v := query.Get("thresholds"); v != "" {
		thresholds, err := parseThresholds(v)
		if err != nil {
			s.writeBadRequest(w, "thresholds must be comma-separated positive integers")
			return
		}
		params.Thresholds = thresholds
	}
	if v := query.Get("speed"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			s.writeBadRequest(w, "speed must be a positive number")
			return
		}
		params.SpeedKmh = f
	}
	if v := query.Get("penalty"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			s.writeBadRequest(w, "penalty must be a non-negative number")
			return
		}
		params.BoardingPenaltyMin = f
	}

	feed, err := analytics.LoadFeed(s.store, feedID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	zones, err := geo.LoadZones(zonesPath)
	if err != nil {
		s.writeError(w, err)
		return
	}
	socio, err := geo.LoadSocio(query.Get("socio"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analytics.ComputeAccessibility(feed, zones, socio, params))
}

// handleExport serves stored snapshot artifacts (raw tables and
// derived dimensions) by their path relative to the store root.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	path, err := s.store.ArtifactPath(params.ByName("artifact"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}

func parseThresholds(s string) ([]int, error) {
	thresholds := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid threshold %q", part)
		}
		thresholds = append(thresholds, n)
	}
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("no thresholds")
	}
	return thresholds, nil
}
