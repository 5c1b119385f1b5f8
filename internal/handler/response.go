package handler

import (
	"encoding/json"
	"net/http"
)

// response общий формат ответа API. Пустые поля не сериализуются.
type response struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message,omitempty"`
	Count    *int              `json:"count,omitempty"`
	Data     any               `json:"data,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Token    string            `json:"token,omitempty"`
	Admin    any               `json:"admin,omitempty"`
	Received bool              `json:"received,omitempty"`
}

func badRequest(w http.ResponseWriter, message string) {
	responseAsJSON(w, response{Message: message}, http.StatusBadRequest)
}

func validationFailed(w http.ResponseWriter, fields map[string]string) {
	responseAsJSON(w, response{Message: "Validation error", Errors: fields}, http.StatusBadRequest)
}

func notFound(w http.ResponseWriter, message string) {
	responseAsJSON(w, response{Message: message}, http.StatusNotFound)
}

func unauthorized(w http.ResponseWriter, message string) {
	responseAsJSON(w, response{Message: message}, http.StatusUnauthorized)
}

func serverError(w http.ResponseWriter, message string) {
	responseAsJSON(w, response{Message: message}, http.StatusInternalServerError)
}

func success(w http.ResponseWriter, resp response, code int) {
	resp.Success = true
	responseAsJSON(w, resp, code)
}

func responseAsJSON(w http.ResponseWriter, v any, code int) {
	respJSON, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "500 internal server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(respJSON)
}
