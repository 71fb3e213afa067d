package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wallet/internal/amqp"
	"wallet/internal/log"
)

const maxExportBody = 4 << 10

type exportRequest struct {
	Report   string `json:"report"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	GroupBy  string `json:"group_by"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

type exportAccepted struct {
	ID string `json:"id"`
}

// handleCreateExport queues an export of one report and answers 202 with the
// request id. The export runs in the worker.
func (s *Server) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	user, err := userID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if s.exports == nil {
		handleError(w, r, errExportsDisabled)
		return
	}

	var req exportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExportBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		handleError(w, r, &paramError{param: "body", reason: "must be a JSON export request"})
		return
	}

	msg := amqp.NewReportExportMessage(user, req.Report)
	msg.DateFrom, msg.DateTo, msg.GroupBy = req.DateFrom, req.DateTo, req.GroupBy
	msg.Year, msg.Month = req.Year, req.Month
	if err := msg.Validate(); err != nil {
		handleError(w, r, validationError(err))
		return
	}

	if err := s.exports.PublishExportRequest(r.Context(), msg); err != nil {
		handleError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Export requested",
		log.NewFields().WithExport(msg.ID.String(), "").
			WithReport(msg.Report, user, msg.DateFrom, msg.DateTo, msg.GroupBy).
			WithOperation(log.OpExport).ToSlice()...)
	writeJSON(w, http.StatusAccepted, exportAccepted{ID: msg.ID.String()})
}

// validationError turns date parse failures into 400s. The other validation
// errors keep their sentinel and map to 422.
func validationError(err error) error {
	var pe *time.ParseError
	if errors.As(err, &pe) {
		return &paramError{param: "body", reason: err.Error()}
	}
	return err
}
