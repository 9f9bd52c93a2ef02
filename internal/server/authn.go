package server

import (
	"net/http"

	"github.com/gtfel/sat-invoices/internal/auth"
)

type accountantTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleAccountantToken exchanges accountant credentials for a token pair
func (s *Server) handleAccountantToken(w http.ResponseWriter, r *http.Request) {
	var req accountantTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountant, err := s.db.GetAccountantByEmail(r.Context(), req.Email)
	if err != nil {
		s.logger.Error("accountant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	// One generic rejection for unknown email, inactive account and bad
	// password, so the endpoint does not leak which accounts exist.
	if accountant == nil || !accountant.IsActive || accountant.PasswordHash == nil ||
		!auth.VerifySecret(req.Password, *accountant.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := s.tokens.IssuePair(accountant.ID, auth.KindAccountant)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleAccountantRefresh exchanges a refresh token for a new token pair
func (s *Server) handleAccountantRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := s.tokens.ParseRefresh(req.RefreshToken)
	if err != nil || claims.Kind != auth.KindAccountant {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	accountant, err := s.db.GetAccountantByID(r.Context(), claims.Subject)
	if err != nil {
		s.logger.Error("accountant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if accountant == nil || !accountant.IsActive {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := s.tokens.IssuePair(accountant.ID, auth.KindAccountant)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type companyTokenRequest struct {
	NIT    string `json:"nit"`
	APIKey string `json:"api_key"`
}

// handleCompanyToken exchanges a company NIT and API key for a token pair
func (s *Server) handleCompanyToken(w http.ResponseWriter, r *http.Request) {
	var req companyTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	company, err := s.db.GetCompanyByNIT(r.Context(), req.NIT)
	if err != nil {
		s.logger.Error("company lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	if company == nil || !company.IsActive || company.APIKeyHash == nil ||
		!auth.VerifySecret(req.APIKey, *company.APIKeyHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := s.tokens.IssuePair(company.ID, auth.KindCompany)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
