package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carbwise/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
		expectMaxAge   string
	}{
		{"preflight is answered without the handler", http.MethodOptions, http.StatusNoContent, false, "600"},
		{"GET passes through", http.MethodGet, http.StatusOK, true, ""},
		{"POST passes through", http.MethodPost, http.StatusOK, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(tt.method, "/api/foods/search?q=rice", nil)
			w := httptest.NewRecorder()

			CORS(okHandler(&called)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, called)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
			assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-RateLimit-Remaining")
			assert.Equal(t, tt.expectMaxAge, w.Header().Get("Access-Control-Max-Age"))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	const key = "carb-key-123"

	tests := []struct {
		name          string
		path          string
		header        string
		expectStatus  int
		expectHandler bool
		expectMessage string
	}{
		{"health is public", "/health", "", http.StatusOK, true, ""},
		{"metrics is public", "/metrics", "", http.StatusOK, true, ""},
		{"valid key", "/api/meals/estimate", key, http.StatusOK, true, ""},
		{"missing key", "/api/meals/estimate", "", http.StatusUnauthorized, false, "missing API key"},
		{"wrong key", "/api/foods/lookup", "carb-key-124", http.StatusUnauthorized, false, "invalid API key"},
		{"short wrong key", "/api/catalog", "x", http.StatusUnauthorized, false, "invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()

			APIKeyAuth(key, zerolog.Nop())(okHandler(&called)).ServeHTTP(w, req)

			assert.Equal(t, tt.expectStatus, w.Code)
			assert.Equal(t, tt.expectHandler, called)
			if tt.expectMessage != "" {
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
				resp := decodeError(t, w)
				assert.Equal(t, model.ErrCodeUnauthorised, resp.Code)
				assert.Equal(t, tt.expectMessage, resp.Error)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectLevel string
	}{
		{"success logs at info", http.StatusOK, `{"ok":true}`, "info"},
		{"client error logs at warn", http.StatusNotFound, `{"error":"food not found"}`, "warn"},
		{"server error logs at error", http.StatusInternalServerError, "", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			r := chi.NewRouter()
			r.Use(chimw.RequestID)
			r.Use(Logging(logger))
			r.Get("/api/meals/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/meals/abc", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectLevel, entry["level"])
			assert.Equal(t, "http request", entry["message"])
			assert.Equal(t, "/api/meals/abc", entry["path"])
			assert.Equal(t, "/api/meals/{id}", entry["route"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.EqualValues(t, len(tt.body), entry["bytes"])
			assert.NotEmpty(t, entry["request_id"])
		})
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		expectStatus int
		expectJSON   bool
	}{
		{
			name: "no panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			expectStatus: http.StatusOK,
		},
		{
			name: "panic becomes a JSON 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("nil nutrient table")
			},
			expectStatus: http.StatusInternalServerError,
			expectJSON:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/meals/estimate", nil)
			w := httptest.NewRecorder()

			assert.NotPanics(t, func() {
				Recovery(zerolog.Nop())(tt.handler).ServeHTTP(w, req)
			})

			assert.Equal(t, tt.expectStatus, w.Code)
			if tt.expectJSON {
				resp := decodeError(t, w)
				assert.Equal(t, model.ErrCodeInternalError, resp.Code)
				assert.Equal(t, "internal server error", resp.Error)
			}
		})
	}
}

func TestRecovery_RepanicsOnAbort(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	})
}

func TestResponseWriter(t *testing.T) {
	t.Run("implicit status and byte count", func(t *testing.T) {
		w := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		n, err := rw.Write([]byte("rice"))
		require.NoError(t, err)
		_, _ = rw.Write([]byte(" bowl"))

		assert.Equal(t, 4, n)
		assert.Equal(t, http.StatusOK, rw.statusCode)
		assert.Equal(t, 9, rw.bytes)
	})

	t.Run("first status wins", func(t *testing.T) {
		w := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		rw.WriteHeader(http.StatusCreated)
		rw.WriteHeader(http.StatusInternalServerError)

		assert.Equal(t, http.StatusCreated, rw.statusCode)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
