package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"expenso/internal/core"
	"expenso/internal/log"
	"expenso/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed",
				log.FieldBackend, s.backendName,
				log.FieldError, err)
			ServiceUnavailableError("store unavailable").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{
		"status": "ready",
		"store":  s.backendName,
	}).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := core.TransactionType(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))))

	txs, err := s.transactions.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, core.ErrInvalidType) {
			BadRequestError("type must be expense or income").Write(w)
			return
		}
		s.internalError(w, r, "Failed to list transactions", err, log.OpList)
		return
	}
	NewJSONResponse().Body(toTransactionListDTO(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := ParseTransactionInput(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			ErrorResponse(http.StatusRequestEntityTooLarge, "request body too large").Write(w)
		case core.IsValidationError(err):
			UnprocessableEntityError(err.Error()).Write(w)
		default:
			BadRequestError("malformed request body").Write(w)
		}
		return
	}

	tx, err := s.transactions.Create(r.Context(), in)
	if err != nil {
		if core.IsValidationError(err) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		s.internalError(w, r, "Failed to create transaction", err, log.OpCreate)
		return
	}

	s.events.LogTransactionCreated(r.Context(), tx.ID, tx.Type.String(), core.FormatAmount(tx.Amount), tx.Category)
	Created(toTransactionDTO(tx)).
		Header("Location", "/api/transactions/"+tx.ID).
		Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tx, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("transaction not found").Write(w)
			return
		}
		s.internalError(w, r, "Failed to get transaction", err, log.OpRead)
		return
	}
	NewJSONResponse().Body(toTransactionDTO(tx)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("transaction not found").Write(w)
			return
		}
		s.internalError(w, r, "Failed to delete transaction", err, log.OpDelete)
		return
	}
	s.events.LogTransactionDeleted(r.Context(), id)
	NoContent().Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.Summary(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to build summary", err, log.OpSummary)
		return
	}
	NewJSONResponse().Body(toSummaryDTO(summary)).Write(w)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	roasting := ParseBoolQuery(r.URL.Query(), "roast", s.roastingDefault)
	report, err := s.dashboard.Insights(r.Context(), roasting)
	if err != nil {
		s.internalError(w, r, "Failed to generate insights", err, log.OpInsights)
		return
	}
	NewJSONResponse().Body(toReportDTO(report)).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	roasting := ParseBoolQuery(r.URL.Query(), "roast", s.roastingDefault)
	dash, err := s.dashboard.Dashboard(r.Context(), roasting)
	if err != nil {
		s.internalError(w, r, "Failed to build dashboard", err, log.OpSummary)
		return
	}
	NewJSONResponse().Body(toDashboardDTO(dash)).Write(w)
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Header("Cache-Control", "public, max-age=3600").
		Body(s.catalogue).
		Write(w)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	s.events.LogError(r.Context(), msg, err, op, log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", ""))
	InternalServerError().Write(w)
}
