package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"umlgate/internal/diagram"
	"umlgate/internal/result"
	"umlgate/internal/storage"
)

const (
	serviceName    = "umlgate"
	serviceVersion = "0.1.0"
)

// Server exposes the gateway over HTTP. Every convert/export/slot response
// is HTTP 200 with the outcome envelope; severity travels inside the
// envelope, not in the status code. Non-200 statuses are reserved for
// malformed requests that never reach a component.
type Server struct {
	svc    *Service
	slots  *storage.SlotStore
	logger *slog.Logger
	locale language.Tag
}

// NewServer wires the orchestration service and slot store into an HTTP
// surface. locale selects the message catalog used in response envelopes.
func NewServer(svc *Service, slots *storage.SlotStore, logger *slog.Logger, locale language.Tag) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, slots: slots, logger: logger, locale: locale}
}

// Routes returns the request handler for the full API surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/convert", s.handleConvert)
	mux.HandleFunc("POST /api/v1/export", s.handleExport)
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/slots", s.handleSlotList)
	mux.HandleFunc("PUT /api/v1/slots/{slot}", s.handleSlotSave)
	mux.HandleFunc("GET /api/v1/slots/{slot}", s.handleSlotLoad)
	mux.HandleFunc("DELETE /api/v1/slots/{slot}", s.handleSlotDelete)
	return s.logMiddleware(mux)
}

// wireResponse is the JSON shape shared by every envelope-bearing endpoint.
type wireResponse struct {
	Severity result.Severity `json:"severity"`
	Code     json.RawMessage `json:"code"`
	Message  string          `json:"message"`
	Payload  []byte          `json:"payload,omitempty"`
	Content  *string         `json:"content,omitempty"`
}

func (s *Server) writeOutcome(w http.ResponseWriter, out result.Outcome, mutate ...func(*wireResponse)) {
	code, err := result.MarshalCode(out.Code)
	if err != nil {
		s.logger.Error("encode outcome", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	resp := wireResponse{
		Severity: out.Severity,
		Code:     code,
		Message:  result.MessageIn(s.locale, out.Code),
		Payload:  out.Payload,
	}
	for _, m := range mutate {
		m(&resp)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConvertRequest(w, r)
	if !ok {
		return
	}
	s.writeOutcome(w, s.svc.Convert(r.Context(), req))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConvertRequest(w, r)
	if !ok {
		return
	}
	s.writeOutcome(w, s.svc.Export(r.Context(), req))
}

func (s *Server) decodeConvertRequest(w http.ResponseWriter, r *http.Request) (ConvertRequest, bool) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return ConvertRequest{}, false
	}
	if _, err := diagram.ParseImageFormat(string(req.Format)); err != nil {
		writeBadRequest(w, err.Error())
		return ConvertRequest{}, false
	}
	return req, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

func (s *Server) slotNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(r.PathValue("slot"))
	if err != nil {
		writeBadRequest(w, "slot must be a number")
		return 0, false
	}
	return n, true
}

func (s *Server) handleSlotSave(w http.ResponseWriter, r *http.Request) {
	n, ok := s.slotNumber(w, r)
	if !ok {
		return
	}

	var req struct {
		SourceText string `json:"source_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.slots.Save(r.Context(), n, req.SourceText); err != nil {
		s.writeOutcome(w, result.FromError(err))
		return
	}
	s.writeOutcome(w, result.New(result.SlotSaved{Slot: n}))
}

func (s *Server) handleSlotLoad(w http.ResponseWriter, r *http.Request) {
	n, ok := s.slotNumber(w, r)
	if !ok {
		return
	}

	content, found, err := s.slots.Load(r.Context(), n)
	if err != nil {
		s.writeOutcome(w, result.FromError(err))
		return
	}
	if !found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": fmt.Sprintf("slot %d is empty", n),
		})
		return
	}

	s.writeOutcome(w, result.New(result.SlotLoaded{Slot: n}), func(resp *wireResponse) {
		resp.Content = &content
	})
}

func (s *Server) handleSlotDelete(w http.ResponseWriter, r *http.Request) {
	n, ok := s.slotNumber(w, r)
	if !ok {
		return
	}

	if err := s.slots.Delete(r.Context(), n); err != nil {
		s.writeOutcome(w, result.FromError(err))
		return
	}
	s.writeOutcome(w, result.New(result.SlotDeleted{Slot: n}))
}

func (s *Server) handleSlotList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.slots.List(r.Context())
	if err != nil {
		s.writeOutcome(w, result.FromError(err))
		return
	}

	// A listing is not one of the taxonomy's operations; it answers with
	// the rows alone and only borrows the envelope shape on failure.
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"slots": infos}); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
