package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/lalallama/proposaldesk/datasource"
	"github.com/lalallama/proposaldesk/model"
	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// CallJournal records calls handled by the dev server.
type CallJournal interface {
	AddCall(ctx context.Context, operation model.Operation, resource string, mode model.Mode, succeeded bool) error
}

// DevServer serves the backend's /api surface from a DataSource, so the front
// end can run against fixtures (mock) or through to the backend (live).
type DevServer struct {
	Server  http.Server
	source  datasource.DataSource
	journal CallJournal
}

type chatMessageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewDevServer builds the server; journal may be nil.
func NewDevServer(port int, source datasource.DataSource, journal CallJournal) *DevServer {
	s := &DevServer{
		source:  source,
		journal: journal,
	}
	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handleHealthcheck())
	mux.HandleFunc("POST /api/evaluations", s.handleCreateEvaluation)
	mux.HandleFunc("GET /api/reports/{proposalId}", s.handleGetReport)
	mux.HandleFunc("GET /api/reports/{proposalId}/pdf", s.handleDownloadReportPDF)
	mux.HandleFunc("POST /api/chat/{proposalId}/messages", s.handleSendChatMessage)
	mux.HandleFunc("GET /api/chat/{proposalId}/history", s.handleGetChatHistory)
	s.Server = http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", port),
		Handler: mux,
	}
	return s
}

func handleHealthcheck() http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			log.Debug("received healthcheck request")
			fmt.Fprint(w, "ok")
		},
	)
}

func (s *DevServer) handleCreateEvaluation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unable to read request body"})
		return
	}
	doc, err := s.source.CreateEvaluation(r.Context(), datasource.EvaluationPayload(body))
	s.record(r, model.OperationCreateEvaluation, "/evaluations", err)
	writeDocument(w, doc, err)
}

func (s *DevServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposalId")
	doc, err := s.source.GetReport(r.Context(), proposalID)
	s.record(r, model.OperationGetReport, fmt.Sprintf("/reports/%s", proposalID), err)
	writeDocument(w, doc, err)
}

func (s *DevServer) handleDownloadReportPDF(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposalId")
	pdf, err := s.source.DownloadReportPDF(r.Context(), proposalID)
	s.record(r, model.OperationDownloadReportPDF, fmt.Sprintf("/reports/%s/pdf", proposalID), err)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.WithField("proposalId", proposalID).Warnf("error writing PDF response: %v", err)
	}
}

// The front end may pass ?questionCount=N; only the mock strategy uses it.
func (s *DevServer) handleSendChatMessage(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposalId")
	var body chatMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "request body must be {\"message\": string}"})
		return
	}
	questionCount := 0
	if raw := r.URL.Query().Get("questionCount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "questionCount must be a non-negative integer"})
			return
		}
		questionCount = n
	}
	doc, err := s.source.SendChatMessage(r.Context(), proposalID, body.Message, questionCount)
	s.record(r, model.OperationSendChatMessage, fmt.Sprintf("/chat/%s/messages", proposalID), err)
	writeDocument(w, doc, err)
}

func (s *DevServer) handleGetChatHistory(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposalId")
	doc, err := s.source.GetChatHistory(r.Context(), proposalID)
	s.record(r, model.OperationGetChatHistory, fmt.Sprintf("/chat/%s/history", proposalID), err)
	writeDocument(w, doc, err)
}

// record never fails the request; a broken journal only gets logged.
func (s *DevServer) record(r *http.Request, operation model.Operation, resource string, callErr error) {
	entry := log.WithField("operation", operation).WithField("resource", resource).WithField("mode", s.source.Mode())
	if callErr != nil {
		entry.Errorf("call failed: %v", callErr)
	} else {
		entry.Info("call succeeded")
	}
	if s.journal == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	if err := s.journal.AddCall(ctx, operation, resource, s.source.Mode(), callErr == nil); err != nil {
		entry.Warnf("call wasn't recorded in the journal: %v", err)
	}
}

func writeDocument(w http.ResponseWriter, doc datasource.Document, err error) {
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func writeFetchError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, datasource.ErrFetchFailed) {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("error writing response: %v", err)
	}
}
