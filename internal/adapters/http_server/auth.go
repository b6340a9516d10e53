package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tour_catalog/internal/adapters/observability"
	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
)

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var b loginBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", domain.ErrValidation))
		return
	}
	token, err := h.Auth.Login(r.Context(), b.Username, b.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		observability.ObserveLogin("rejected")
		writeError(w, r, err)
		return
	case err != nil:
		observability.ObserveLogin("error")
		writeError(w, r, err)
		return
	}
	observability.ObserveLogin("ok")

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(app.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful"})
}
