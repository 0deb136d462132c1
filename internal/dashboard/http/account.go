package http

import (
	"net/http"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/service"
	"github.com/aussiebroadwan/batterydash/pkg/httpx"
)

type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Create a user account and return a session token valid for two hours.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest						true	"email, userName, password, role"
//	@Success		200		{object}	TokenResponse						"token"
//	@Failure		400		{object}	httpx.ValidationErrorResponse		"invalid body"
//	@Failure		409		{object}	httpx.MessageResponse				"email already exists"
//	@Failure		429		{object}	httpx.MessageResponse				"rate limited"
//	@Failure		500		{object}	httpx.MessageResponse				"unexpected error"
//	@Router			/api/Account/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	form := registerForm{
		Email:    firstNonEmpty(req.Email, req.UserEmail),
		UserName: req.UserName,
		Password: req.Password,
		Role:     req.Role,
	}
	if !validBody(w, form) {
		return
	}

	res, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		Email:       form.Email,
		DisplayName: form.UserName,
		Password:    form.Password,
		Role:        form.Role,
	})
	if err != nil {
		httpx.WriteMessage(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	switch res.Outcome {
	case service.OutcomeSuccess:
		httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: res.Token.Token})
	case service.OutcomeAlreadyExists:
		httpx.WriteMessage(w, http.StatusConflict, msgEmailExists)
	default:
		httpx.WriteMessage(w, http.StatusInternalServerError, msgUnexpected)
	}
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Exchange an email and password for a session token valid for two hours.
//	@Description	Unknown emails and wrong passwords both answer 401 with no body.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest					true	"email, password"
//	@Success		200		{object}	TokenResponse					"token"
//	@Failure		400		{object}	httpx.ValidationErrorResponse	"invalid body"
//	@Failure		401		"invalid credentials"
//	@Failure		429		{object}	httpx.MessageResponse			"rate limited"
//	@Failure		500		{object}	httpx.MessageResponse			"unexpected error"
//	@Router			/api/Account/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	form := loginForm{
		Email:    firstNonEmpty(req.Email, req.UserEmail),
		Password: req.Password,
	}
	if !validBody(w, form) {
		return
	}

	res, err := h.AccountService.Login(r.Context(), service.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		httpx.WriteMessage(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	switch res.Outcome {
	case service.OutcomeSuccess:
		httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: res.Token.Token})
	case service.OutcomeInvalidCredentials:
		httpx.NoCache(w)
		w.WriteHeader(http.StatusUnauthorized)
	default:
		httpx.WriteMessage(w, http.StatusInternalServerError, msgUnexpected)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ValidationErrorResponse{
			Code:    "invalid_request",
			Message: msgInvalidBody,
		})
		return false
	}
	return true
}

func validBody(w http.ResponseWriter, form any) bool {
	details := httpx.Validate(form)
	if details == nil {
		return true
	}
	httpx.WriteJSON(w, http.StatusBadRequest, httpx.ValidationErrorResponse{
		Code:    "validation_failed",
		Message: msgValidation,
		Details: details,
	})
	return false
}
