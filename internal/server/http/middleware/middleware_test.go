package middleware

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/pkg/identity"
	testhelpers "github.com/etproforma/commerce/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(parser TokenParser) *gin.Engine {
	engine := gin.New()
	engine.Use(AuthRequired(parser))
	engine.GET("/protected", func(c *gin.Context) {
		value, _ := c.Get(ActorContextKey)
		actor := value.(model.Actor)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	return engine
}

func TestAuthRequiredMissingToken(t *testing.T) {
	engine := newAuthEngine(testhelpers.StrategyStub{})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	parser := testhelpers.StrategyStub{ParseFn: func(string) (model.Actor, error) {
		return model.Actor{}, identity.ErrInvalidToken
	}}
	engine := newAuthEngine(parser)

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer bogus")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestAuthRequiredParserFailure(t *testing.T) {
	parser := testhelpers.StrategyStub{ParseFn: func(string) (model.Actor, error) {
		return model.Actor{}, errors.New("backend down")
	}}
	engine := newAuthEngine(parser)

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer anything")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", recorder.Code)
	}
}

func TestAuthRequiredBearerHeader(t *testing.T) {
	parser := testhelpers.StrategyStub{ParseFn: func(token string) (model.Actor, error) {
		if token != "valid-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return model.Actor{ID: 7, Role: model.RoleSupplier}, nil
	}}
	engine := newAuthEngine(parser)

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer valid-token")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestAuthRequiredCookieFallback(t *testing.T) {
	parser := testhelpers.StrategyStub{ParseFn: func(token string) (model.Actor, error) {
		if token != "cookie-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return model.Actor{ID: 3, Role: model.RoleCustomer}, nil
	}}
	engine := newAuthEngine(parser)

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.AddCookie(&http.Cookie{Name: "commerce_token", Value: "cookie-token"})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestDecompressRequest(t *testing.T) {
	engine := gin.New()
	engine.Use(DecompressRequest())
	engine.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	var compressed bytes.Buffer
	writer := gzip.NewWriter(&compressed)
	_, _ = writer.Write([]byte("hello"))
	_ = writer.Close()

	request := httptest.NewRequest(http.MethodPost, "/echo", &compressed)
	request.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if recorder.Body.String() != "hello" {
		t.Fatalf("body = %q, want hello", recorder.Body.String())
	}
}

func TestDecompressRequestBadPayload(t *testing.T) {
	engine := gin.New()
	engine.Use(DecompressRequest())
	engine.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("not gzip"))
	request.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestRequestLoggerWritesEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(RequestLogger(logger))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if !bytes.Contains(buf.Bytes(), []byte(`"path":"/ping"`)) {
		t.Fatalf("log entry missing path: %s", buf.String())
	}
}
