package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/herreralegal/intake/pkg/mocks"
	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence/file"
	"github.com/herreralegal/intake/pkg/services"
	"github.com/herreralegal/intake/pkg/web"
	"github.com/herreralegal/intake/pkg/workflows"
)

func setupTestApp(t *testing.T) (*fiber.App, *services.Cases) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	persistence := file.NewPersistence(t.TempDir())

	catalog, err := workflows.NewCatalog()
	require.NoError(t, err)

	bus := &mocks.MockEventBus{}
	bus.On("GenerateID").Return("test-event")
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	casesService := services.NewCases(persistence, catalog, bus, logger, nil)
	documentsService := services.NewDocuments(persistence, catalog, bus, logger)

	handlers := web.NewAPIHandlers(
		casesService,
		documentsService,
		catalog,
		persistence,
		nil,
		validator.New(validator.WithRequiredStructEnabled()),
	)

	app := fiber.New()

	s := app.Group("/services")
	s.Get("/", handlers.GetServices)
	s.Get("/:slug", handlers.GetService)
	s.Post("/:slug/eligibility", handlers.CheckEligibility)
	s.Post("/:slug/cases", handlers.OpenCase)

	cs := app.Group("/cases")
	cs.Get("/:id/wizard", handlers.GetWizardState)
	cs.Patch("/:id", handlers.AutosaveCase)
	cs.Post("/:id/submit", handlers.SubmitCase)
	cs.Get("/:id/review", handlers.GetReview)
	cs.Patch("/:id/status", handlers.ChangeStatus)
	cs.Get("/:id/documents", handlers.GetDocuments)
	cs.Post("/:id/documents", handlers.AttachDocument)

	return app, casesService
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptestNewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	return req
}

func httptestNewRequest(method, path string, body io.Reader) *http.Request {
	req, err := http.NewRequest(method, path, body)
	if err != nil {
		panic(err)
	}

	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func openTestCase(t *testing.T, app *fiber.App) models.Case {
	t.Helper()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/services/itin-number/cases", web.OpenCaseRequest{
		ClientID: "client-1",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Case
	decodeBody(t, resp, &created)

	return created
}

func validItinFormData() map[string]any {
	return map[string]any{
		"full_name":        "Juan Pérez",
		"date_of_birth":    "1990-04-12",
		"country_of_birth": "MX",
		"reason":           "Declaración de impuestos",
		"filed_before":     false,
	}
}

func TestGetServices(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptestNewRequest(http.MethodGet, "/services/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Services []web.ServiceSummary `json:"services"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Services, 3)
}

func TestGetService(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptestNewRequest(http.MethodGet, "/services/itin-number", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var workflow models.ServiceWorkflow
	decodeBody(t, resp, &workflow)
	assert.Equal(t, "itin-number", workflow.Slug)
	assert.Len(t, workflow.Steps, 4)

	resp, err = app.Test(httptestNewRequest(http.MethodGet, "/services/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckEligibility(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/services/asilo-afirmativo/eligibility", web.EligibilityRequest{
		Answers: map[string]any{"in_us": false},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result web.EligibilityResponse
	decodeBody(t, resp, &result)
	assert.False(t, result.Eligible)
	assert.NotEmpty(t, result.Failures)
}

func TestOpenCase(t *testing.T) {
	app, _ := setupTestApp(t)

	created := openTestCase(t, app)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.IntakeStatusInProgress, created.IntakeStatus)

	// A service with an unmet eligibility gate refuses with the failures.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/services/asilo-afirmativo/cases", web.OpenCaseRequest{
		ClientID: "client-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetWizardState(t *testing.T) {
	app, _ := setupTestApp(t)
	created := openTestCase(t, app)

	resp, err := app.Test(httptestNewRequest(http.MethodGet, "/cases/"+created.ID+"/wizard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state web.WizardStateResponse
	decodeBody(t, resp, &state)
	assert.Equal(t, created.ID, state.CaseID)
	assert.True(t, state.Editable)
	assert.Equal(t, 0, state.CurrentStep)
	assert.Equal(t, "Información Personal", state.Step.Title)
}

func TestAutosave(t *testing.T) {
	app, _ := setupTestApp(t)
	created := openTestCase(t, app)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/cases/"+created.ID, web.AutosaveRequest{
		FormData:    map[string]any{"full_name": "Juan"},
		CurrentStep: 0,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The saved data shows up in the wizard state.
	resp, err = app.Test(httptestNewRequest(http.MethodGet, "/cases/"+created.ID+"/wizard", nil))
	require.NoError(t, err)

	var state web.WizardStateResponse
	decodeBody(t, resp, &state)
	assert.Equal(t, "Juan", state.FormData["full_name"])
}

func TestAutosave_CaseNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/cases/missing", web.AutosaveRequest{
		FormData: map[string]any{"x": "y"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmit(t *testing.T) {
	app, _ := setupTestApp(t)
	created := openTestCase(t, app)

	// Without attestation: refused before anything is validated.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cases/"+created.ID+"/submit", web.SubmitRequest{
		FormData: validItinFormData(),
		Attested: false,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Incomplete form data: field errors, no submission.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/cases/"+created.ID+"/submit", web.SubmitRequest{
		FormData: map[string]any{"full_name": "Juan"},
		Attested: true,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Complete and attested: submitted.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/cases/"+created.ID+"/submit", web.SubmitRequest{
		FormData: validItinFormData(),
		Attested: true,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var submitted models.Case
	decodeBody(t, resp, &submitted)
	assert.Equal(t, models.IntakeStatusSubmitted, submitted.IntakeStatus)

	// The case is now read-only: autosave conflicts.
	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/cases/"+created.ID, web.AutosaveRequest{
		FormData: map[string]any{"full_name": "tarde"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestChangeStatus(t *testing.T) {
	app, _ := setupTestApp(t)
	created := openTestCase(t, app)

	// Submit first so staff transitions become available.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cases/"+created.ID+"/submit", web.SubmitRequest{
		FormData: validItinFormData(),
		Attested: true,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/cases/"+created.ID+"/status", web.ChangeStatusRequest{
		Status:  models.IntakeStatusNeedsCorrection,
		ActorID: "staff-1",
		Notes:   "Falta la fecha de nacimiento",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Case
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.IntakeStatusNeedsCorrection, updated.IntakeStatus)
	assert.Equal(t, "Falta la fecha de nacimiento", updated.CorrectionNotes)

	// Invalid transition conflicts.
	resp, err = app.Test(jsonRequest(t, http.MethodPatch, "/cases/"+created.ID+"/status", web.ChangeStatusRequest{
		Status: models.IntakeStatusFiled,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDocuments(t *testing.T) {
	app, _ := setupTestApp(t)
	created := openTestCase(t, app)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/cases/"+created.ID+"/documents", web.AttachDocumentRequest{
		DocumentKey: "passport",
		Name:        "pasaporte.pdf",
		FilePath:    "uploads/pasaporte.pdf",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptestNewRequest(http.MethodGet, "/cases/"+created.ID+"/documents", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Documents []struct {
			Requirement models.RequiredDocument `json:"requirement"`
			Uploaded    int                     `json:"uploaded"`
			Satisfied   bool                    `json:"satisfied"`
		} `json:"documents"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Documents, 2)
	assert.True(t, body.Documents[0].Satisfied)
	assert.False(t, body.Documents[1].Satisfied)
}

func TestReview(t *testing.T) {
	app, _ := setupTestApp(t)
	created := openTestCase(t, app)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/cases/"+created.ID, web.AutosaveRequest{
		FormData: validItinFormData(),
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptestNewRequest(http.MethodGet, "/cases/"+created.ID+"/review", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Sections []struct {
			Step   int    `json:"step"`
			Title  string `json:"title"`
			Fields []struct {
				Label string `json:"label"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"sections"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Sections, 2)
	assert.Equal(t, "Información Personal", body.Sections[0].Title)
	assert.Equal(t, "Nombre completo", body.Sections[0].Fields[0].Label)
	assert.Equal(t, "Juan Pérez", body.Sections[0].Fields[0].Value)

	// Boolean renders as No, not false.
	filedBefore := body.Sections[1].Fields[1]
	assert.Equal(t, "No", filedBefore.Value)
}
