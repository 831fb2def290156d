package handlers

import (
	"errors"
	"log"
	"net/http"

	"filternet/internal/api"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

// statusForError maps a backend failure to the status the browser sees
func statusForError(err error) int {
	var apiErr *api.APIError
	var transportErr *api.TransportError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr), errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
