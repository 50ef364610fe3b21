package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/auth/service"
	"github.com/AlibekovAA/account-service/backend/internal/common/dto"
	commonhttp "github.com/AlibekovAA/account-service/backend/internal/common/http"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/common/mapper"
)

type Authenticator interface {
	Login(ctx context.Context, input service.LoginInput) (domain.Account, error)
}

type Registrar interface {
	Register(ctx context.Context, input service.RegisterInput) (domain.Account, error)
}

type PasswordResetter interface {
	FindAccount(ctx context.Context, session service.ResetSession, identifier string) (service.ResetSession, domain.Account, error)
	ChangePassword(ctx context.Context, session service.ResetSession, input service.ChangePasswordInput) (service.ResetSession, error)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	FullName        string `json:"full_name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type findAccountRequest struct {
	Identifier string `json:"identifier"`
}

type changePasswordRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
}

type accountResponse struct {
	Account dto.Account `json:"account"`
}

type findAccountResponse struct {
	Phase   string      `json:"phase"`
	Email   string      `json:"email"`
	Account dto.Account `json:"account"`
}

type phaseResponse struct {
	Phase string `json:"phase"`
}

type Handler struct {
	auth         Authenticator
	registration Registrar
	reset        PasswordResetter
	errors       *commonhttp.ErrorHandler
	log          *logger.Logger
}

func NewHandler(
	auth Authenticator,
	registration Registrar,
	reset PasswordResetter,
	health commonhttp.Pinger,
	requestTimeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		auth:         auth,
		registration: registration,
		reset:        reset,
		errors:       commonhttp.NewErrorHandler(log),
		log:          log,
	}

	post := func(fn http.HandlerFunc) http.HandlerFunc {
		return commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(fn))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(health, log))
	mux.HandleFunc("/api/auth/login", post(h.login))
	mux.HandleFunc("/api/auth/register", post(h.register))
	mux.HandleFunc("/api/auth/password/find", post(h.findAccount))
	mux.HandleFunc("/api/auth/password/change", post(h.changePassword))
	return mux
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any, action string) bool {
	err := commonhttp.DecodeJSON(r, v)
	if err == nil {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.errors.HandleError(w, r, err)
		return false
	}

	h.log.WithFields(r.Context(), logger.Fields{"action": action}).Warnf("invalid json: %v", err)
	commonhttp.WriteErrorEnvelope(w, r, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
	return false
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req, "login_invalid_json") {
		return
	}

	account, err := h.auth.Login(r.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, accountResponse{Account: mapper.AccountToDTO(account)})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req, "register_invalid_json") {
		return
	}

	account, err := h.registration.Register(r.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, accountResponse{Account: mapper.AccountToDTO(account)})
}

func (h *Handler) findAccount(w http.ResponseWriter, r *http.Request) {
	var req findAccountRequest
	if !h.decode(w, r, &req, "reset_find_invalid_json") {
		return
	}

	session, account, err := h.reset.FindAccount(r.Context(), service.NewResetSession(), req.Identifier)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, findAccountResponse{
		Phase:   session.Phase.String(),
		Email:   session.Email,
		Account: mapper.AccountToDTO(account),
	})
}

// changePassword resumes the reset from the email the client received from
// the find step; the HTTP layer keeps no reset state of its own.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !h.decode(w, r, &req, "reset_change_invalid_json") {
		return
	}

	session, err := h.reset.ChangePassword(r.Context(), service.ResumeSession(req.Email), service.ChangePasswordInput{
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
		Email:           req.Email,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, phaseResponse{Phase: session.Phase.String()})
}
