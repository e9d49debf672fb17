package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/export"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/search"
	"github.com/teranos/plaszyme/sequence"
	"github.com/teranos/plaszyme/substrate"
	"github.com/teranos/plaszyme/version"
)

// HandleSearch runs a similarity search. Every failure, including a
// malformed body, is answered 400 with {"success":false,"error":...}.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(logger.FieldsFromContext(r.Context())...)

	var req search.Request
	if err := readJSON(w, r, &req); err != nil {
		log.Debugw("Rejected search body", logger.FieldError, err)
		_ = writeJSON(w, http.StatusBadRequest, search.Failure(err))
		return
	}

	resp, err := s.engine.Search(r.Context(), req)
	if err != nil {
		if search.IsInputError(err) {
			log.Debugw("Search input rejected", logger.FieldError, err)
		} else {
			log.Errorw("Search failed", logger.FieldError, err)
		}
		_ = writeJSON(w, http.StatusBadRequest, search.Failure(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.Warnw("Failed to write search response", logger.FieldError, err)
	}
}

// enzymeDetail is a record plus properties computed from its sequence.
type enzymeDetail struct {
	enzyme.Record
	TagSummary string `json:"tag_summary"`
	sequence.Info
}

// HandleEnzyme serves GET /api/enzymes/{id}.
func (s *Server) HandleEnzyme(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, http.StatusBadRequest, "enzyme id is required")
		return
	}

	rec, err := s.enzymes.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Enzyme lookup failed", logger.FieldEnzymeID, shortID(id))
		return
	}

	_ = writeData(w, enzymeDetail{
		Record:     *rec,
		TagSummary: rec.TagSummary(),
		Info:       sequence.Properties(rec.Sequence),
	})
}

// statsResponse mirrors the shape statistics consumers already read.
type statsResponse struct {
	Success     bool          `json:"success"`
	Statistics  *enzyme.Stats `json:"statistics"`
	LastUpdated string        `json:"last_updated"`
}

// HandleStats serves corpus statistics.
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.fail(w, r, errNoStats, "Statistics unavailable")
		return
	}
	st, err := s.stats.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err, "Statistics query failed")
		return
	}
	_ = writeJSON(w, http.StatusOK, statsResponse{
		Success:     true,
		Statistics:  st,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// datasetsResponse carries per-dataset record counts, keyed and listed.
type datasetsResponse struct {
	Success     bool           `json:"success"`
	Statistics  map[string]int `json:"statistics"`
	Datasets    []export.Count `json:"datasets"`
	LastUpdated string         `json:"last_updated"`
}

// HandleDatasets counts the records each export dataset would select.
func (s *Server) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		s.fail(w, r, errNoRecords, "Dataset counts unavailable")
		return
	}
	counts, err := export.CountAll(r.Context(), s.datasets, s.records)
	if err != nil {
		s.fail(w, r, err, "Dataset count failed")
		return
	}

	byKey := make(map[string]int, len(counts))
	for _, c := range counts {
		byKey[c.Key] = c.Count
	}
	_ = writeJSON(w, http.StatusOK, datasetsResponse{
		Success:     true,
		Statistics:  byKey,
		Datasets:    counts,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleSubstrates lists the whole substrate catalog.
func (s *Server) HandleSubstrates(w http.ResponseWriter, r *http.Request) {
	cat, err := s.loadCatalog()
	if err != nil {
		s.fail(w, r, err, "Substrate catalog unavailable")
		return
	}
	_ = writeData(w, cat.Entries())
}

// HandleSubstrate looks up one plastic by name or alias.
func (s *Server) HandleSubstrate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))

	cat, err := s.loadCatalog()
	if err != nil {
		s.fail(w, r, err, "Substrate catalog unavailable")
		return
	}
	entry, ok := cat.Lookup(name)
	if !ok {
		writeFailure(w, http.StatusNotFound, "SMILES data not found for plastic: "+strings.ToUpper(name))
		return
	}
	_ = writeData(w, entry)
}

func (s *Server) loadCatalog() (*substrate.Catalog, error) {
	if s.catalog == nil {
		return nil, substrate.ErrNoCatalog
	}
	return s.catalog.Get()
}

// memoryInfo is host memory as seen by gopsutil.
type memoryInfo struct {
	TotalBytes     uint64  `json:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsedPercent    float64 `json:"used_percent"`
}

// HandleHealth reports liveness, build info and host memory.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()

	health := map[string]interface{}{
		"status":     "ok",
		"version":    info.Version,
		"commit":     info.CommitHash,
		"build_time": info.BuildTime,
	}
	if vm, err := mem.VirtualMemory(); err != nil {
		s.logger.Debugw("Memory stats unavailable", logger.FieldError, err)
	} else {
		health["memory"] = memoryInfo{
			TotalBytes:     vm.Total,
			AvailableBytes: vm.Available,
			UsedPercent:    vm.UsedPercent,
		}
	}

	_ = writeJSON(w, http.StatusOK, health)
}

// fail logs err at a level matching its status and writes a failure body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msg string, keysAndValues ...interface{}) {
	status := statusFor(err)
	log := s.logger.With(logger.FieldsFromContext(r.Context())...)
	kv := append(keysAndValues, logger.FieldError, err, logger.FieldStatus, status)

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Errorw(msg, kv...)
	} else {
		log.Debugw(msg, kv...)
	}
	writeFailure(w, status, errors.UserMessage(err))
}
