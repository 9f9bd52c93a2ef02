package server

import (
	"net/http"
	"strings"

	"github.com/gtfel/sat-invoices/internal/auth"
	"github.com/gtfel/sat-invoices/internal/database"
)

type accountantRegisterRequest struct {
	Email     string  `json:"email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// handleAccountantRegister creates an inactive accountant. Activation via
// the status endpoint issues the initial password.
func (s *Server) handleAccountantRegister(w http.ResponseWriter, r *http.Request) {
	var req accountantRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}

	existing, err := s.db.GetAccountantByEmail(r.Context(), req.Email)
	if err != nil {
		s.logger.Error("accountant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "accountant already registered")
		return
	}

	accountant := &database.Accountant{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.db.CreateAccountant(r.Context(), accountant); err != nil {
		s.logger.Error("accountant create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}

	s.logger.Info("accountant registered", "email", accountant.Email)
	writeJSON(w, http.StatusCreated, accountant)
}

type accountantStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type accountantStatusResponse struct {
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	// Password is set only on first activation and shown exactly once
	Password string `json:"password,omitempty"`
}

// handleAccountantStatus activates or deactivates an accountant. First
// activation generates the initial password, returned once in the response.
func (s *Server) handleAccountantStatus(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	var req accountantStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountant, err := s.db.GetAccountantByEmail(r.Context(), email)
	if err != nil {
		s.logger.Error("accountant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if accountant == nil {
		writeError(w, http.StatusNotFound, "accountant not found")
		return
	}

	resp := accountantStatusResponse{Email: email, IsActive: req.IsActive}

	var passwordHash *string
	if req.IsActive && accountant.PasswordHash == nil {
		password, err := auth.NewPassword()
		if err != nil {
			s.logger.Error("password generation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "activation failed")
			return
		}
		hash, err := auth.HashSecret(password)
		if err != nil {
			s.logger.Error("password hash failed", "error", err)
			writeError(w, http.StatusInternalServerError, "activation failed")
			return
		}
		passwordHash = &hash
		resp.Password = password
	}

	if err := s.db.UpdateAccountantStatus(r.Context(), email, req.IsActive, passwordHash); err != nil {
		s.logger.Error("status update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}

	s.logger.Info("accountant status updated", "email", email, "active", req.IsActive)
	writeJSON(w, http.StatusOK, resp)
}

type companyRegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	NIT   string `json:"nit"`
}

type companyRegisterResponse struct {
	database.Company
	// APIKey is shown exactly once; only its hash is stored
	APIKey string `json:"api_key"`
}

// handleCompanyRegister creates a company and returns its one-time API key
func (s *Server) handleCompanyRegister(w http.ResponseWriter, r *http.Request) {
	var req companyRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Name == "" || req.NIT == "" {
		writeError(w, http.StatusBadRequest, "email, name and nit are required")
		return
	}

	existing, err := s.db.GetCompanyByNIT(r.Context(), req.NIT)
	if err != nil {
		s.logger.Error("company lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "company already registered")
		return
	}

	apiKey, err := auth.NewAPIKey()
	if err != nil {
		s.logger.Error("API key generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	hash, err := auth.HashSecret(apiKey)
	if err != nil {
		s.logger.Error("API key hash failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	company := &database.Company{
		Email:      req.Email,
		Name:       req.Name,
		NIT:        req.NIT,
		APIKeyHash: &hash,
		IsActive:   true,
	}
	if err := s.db.CreateCompany(r.Context(), company); err != nil {
		s.logger.Error("company create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}

	s.logger.Info("company registered", "nit", company.NIT, "name", company.Name)
	writeJSON(w, http.StatusCreated, companyRegisterResponse{Company: *company, APIKey: apiKey})
}
