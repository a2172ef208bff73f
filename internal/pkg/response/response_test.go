package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"sharebloom-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })
	return app
}

func decode(t *testing.T, app *fiber.App) (int, ErrorBody) {
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var body ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFromError_KindToStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:    400,
		apperr.KindNotFound:      404,
		apperr.KindNotAuthorized: 403,
		apperr.KindInvalidState:  409,
		apperr.KindConflict:      409,
	}
	for kind, want := range cases {
		code, body := decode(t, errorApp(apperr.New(kind, "msg")))
		assert.Equal(t, want, code, kind)
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "msg", body.Error.Message)
		assert.Equal(t, want, body.Error.StatusCode)
	}
}

func TestFromError_InternalIsGeneric(t *testing.T) {
	code, body := decode(t, errorApp(errors.New("pq: relation \"donations\" does not exist")))
	assert.Equal(t, 500, code)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
	details, _ := body.Error.Details.(map[string]interface{})
	assert.Equal(t, "internal_error", details["kind"])
}

func TestFromError_ValidationFields(t *testing.T) {
	code, body := decode(t, errorApp(apperr.Validation("Validation failed", apperr.FieldError{Field: "quantity", Message: "must be at least 1"})))
	assert.Equal(t, 400, code)
	details, _ := body.Error.Details.(map[string]interface{})
	fields, _ := details["fields"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "quantity", fields[0].(map[string]interface{})["field"])
}

func TestUnauthorized_CarriesKind(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Unauthorized(c, "Unauthorized") })
	code, body := decode(t, app)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	details, _ := body.Error.Details.(map[string]interface{})
	assert.Equal(t, "not_authorized", details["kind"])
}
