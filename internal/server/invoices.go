package server

import (
	"net/http"

	"github.com/gtfel/sat-invoices/internal/auth"
	"github.com/gtfel/sat-invoices/internal/database"
)

// handleProcess triggers one mailbox processing run
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	report, err := s.processor.ProcessUnread(r.Context())
	if err != nil {
		s.logger.Error("processing run failed", "error", err)
		writeError(w, http.StatusBadGateway, "processing failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// resolveCompany maps the caller to the company it may query. Accountants
// name any company by NIT; a company token is bound to its own records.
func (s *Server) resolveCompany(w http.ResponseWriter, r *http.Request) *database.Company {
	claims := claimsFrom(r)

	var (
		company *database.Company
		err     error
	)
	switch claims.Kind {
	case auth.KindCompany:
		company, err = s.db.GetCompanyByID(r.Context(), claims.Subject)
	case auth.KindAccountant:
		nit := r.URL.Query().Get("nit")
		if nit == "" {
			writeError(w, http.StatusBadRequest, "missing nit parameter")
			return nil
		}
		company, err = s.db.GetCompanyByNIT(r.Context(), nit)
	default:
		writeError(w, http.StatusForbidden, "unknown subject kind")
		return nil
	}

	if err != nil {
		s.logger.Error("company lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "company lookup failed")
		return nil
	}
	if company == nil || !company.IsActive {
		writeError(w, http.StatusNotFound, "company not found")
		return nil
	}
	return company
}

func (s *Server) handleCompanyInvoices(w http.ResponseWriter, r *http.Request) {
	company := s.resolveCompany(w, r)
	if company == nil {
		return
	}

	invoices, err := s.db.ListInvoicesByCompany(r.Context(), company.ID)
	if err != nil {
		s.logger.Error("invoice list failed", "company", company.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "invoice query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"company":  company.Name,
		"nit":      company.NIT,
		"invoices": invoices,
	})
}

func (s *Server) handleCompanyInvoiceCount(w http.ResponseWriter, r *http.Request) {
	company := s.resolveCompany(w, r)
	if company == nil {
		return
	}

	count, err := s.db.CountInvoicesByCompany(r.Context(), company.ID)
	if err != nil {
		s.logger.Error("invoice count failed", "company", company.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "invoice query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"company": company.Name,
		"nit":     company.NIT,
		"count":   count,
	})
}
