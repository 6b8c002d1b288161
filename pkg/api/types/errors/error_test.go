package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
)

func TestRender(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	titleMissing := []any{
		map[string]any{"loc": []any{"body", "info", "title"}, "msg": "field required", "type": "missing"},
	}

	type When struct {
		method string
		err    error
	}
	type Then struct {
		code   int
		detail any
	}

	for name, testcase := range map[string]struct {
		when When
		then Then
	}{
		"ErrorMessage is rendered with its detail, without its cause": {
			when: When{
				method: http.MethodGet,
				err:    apierr.InternalServerError("Failed to retrieve data contract", cause),
			},
			then: Then{code: http.StatusInternalServerError, detail: "Failed to retrieve data contract"},
		},
		"field errors are rendered as a list": {
			when: When{
				method: http.MethodPost,
				err:    apierr.UnprocessableEntity(
					[]apierr.FieldError{{Loc: []string{"body", "info", "title"}, Msg: "field required", Type: "missing"}},
					nil,
				),
			},
			then: Then{code: http.StatusUnprocessableEntity, detail: titleMissing},
		},
		"HTTPError with string message": {
			when: When{method: http.MethodGet, err: echo.ErrNotFound},
			then: Then{code: http.StatusNotFound, detail: "Not Found"},
		},
		"other errors are hidden": {
			when: When{method: http.MethodGet, err: cause},
			then: Then{code: http.StatusInternalServerError, detail: "Internal Server Error"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			resp := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(testcase.when.method, "/", nil), resp)

			if err := apierr.Render(testcase.when.err, c); err != nil {
				t.Fatal(err)
			}
			if resp.Code != testcase.then.code {
				t.Errorf("unexpected status code: %d", resp.Code)
			}

			body := map[string]any{}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if !jsonEqual(t, body["detail"], testcase.then.detail) {
				t.Errorf("unexpected detail:\n===actual===\n%+v\n===expected===\n%+v", body["detail"], testcase.then.detail)
			}
		})
	}

	t.Run("HEAD has no body", func(t *testing.T) {
		e := echo.New()
		resp := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), resp)
		if err := apierr.Render(apierr.NotFound("Template not found: s3"), c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusNotFound || resp.Body.Len() != 0 {
			t.Errorf("unexpected response: %d %q", resp.Code, resp.Body.String())
		}
	})
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	he := apierr.Conflict("already exists", cause)

	if he.Code != http.StatusConflict {
		t.Errorf("unexpected code: %d", he.Code)
	}
	if !errors.Is(he.Internal, cause) {
		t.Errorf("cause is not kept as internal: %v", he.Internal)
	}
	msg, ok := he.Message.(apierr.ErrorMessage)
	if !ok {
		t.Fatalf("unexpected message type: %T", he.Message)
	}
	if !errors.Is(msg, cause) {
		t.Error("ErrorMessage does not unwrap to its cause")
	}
	if msg.String() != "already exists (caused by: boom)" {
		t.Errorf("unexpected string: %s", msg.String())
	}
}

func jsonEqual(t *testing.T, a, b any) bool {
	t.Helper()
	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	jb, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	return string(ja) == string(jb)
}
