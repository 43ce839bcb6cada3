package handlers

import (
	"errors"
	"net/http"

	"draftday/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// VerifyPasswordHandler checks the shared host secret. A wrong password is a
// 200 with valid=false; a missing server-side secret is a 500.
func (h *AuthHandler) VerifyPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	valid, token, err := h.auth.VerifyPassword(input.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordNotConfigured) {
			serverErrorResponse(w, r, err)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"valid": valid}
	if valid {
		response["token"] = token
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
