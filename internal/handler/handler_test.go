package handler

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/ivanpodgorny/campusdelivery/internal/validator"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Count    int               `json:"count"`
	Data     json.RawMessage   `json:"data"`
	Errors   map[string]string `json:"errors"`
	Token    string            `json:"token"`
	Admin    map[string]string `json:"admin"`
	Received bool              `json:"received"`
}

func newTestValidator(t *testing.T) *validator.Validator {
	engine, err := validator.NewEngine()
	require.NoError(t, err)

	return validator.New(engine)
}

func sendTestRequest(method string, body io.Reader, handler http.HandlerFunc) *http.Response {
	return sendTestRequestWithParams(method, body, handler, nil, nil)
}

// sendTestRequestWithParams выполняет запрос с параметрами пути, которые
// в приложении устанавливает роутер chi.
func sendTestRequestWithParams(
	method string,
	body io.Reader,
	handler http.HandlerFunc,
	params map[string]string,
	headers map[string]string,
) *http.Response {
	request := httptest.NewRequest(method, "/", body)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))
	for k, v := range headers {
		request.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler(w, request)

	return w.Result()
}

func readTestResponse(t *testing.T, result *http.Response) testResponse {
	t.Helper()

	resp := testResponse{}
	b, err := io.ReadAll(result.Body)
	require.NoError(t, err)
	require.NoError(t, result.Body.Close())
	require.NoError(t, json.Unmarshal(b, &resp), string(b))

	return resp
}
