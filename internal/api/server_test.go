package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/events"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])

	rec = doRequest(t, h, http.MethodGet, "/api/v1/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[SessionResponse](t, rec)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "/api/v1/sessions/"+session.ID, rec.Header().Get("Location"))
	assert.Equal(t, platform.Linux, session.Platform)
	assert.Equal(t, "testnet", session.Settings.Section("bitcoin")["network"])
	assert.Equal(t, 1, srv.Sessions().Len())
}

func TestCreateSession_WithBody(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{
		Platform: platform.Windows,
		Settings: map[string]any{"neutrino": map[string]any{"maxpeers": 20}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[SessionResponse](t, rec)
	assert.Equal(t, platform.Windows, session.Platform)
	assert.Equal(t, float64(20), session.Settings.Section("neutrino")["maxpeers"])

	rec = doRequest(t, h, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Platform: "Amiga"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{
		Settings: map[string]any{"neutrino": map[string]any{"bogus": 1}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, core.CodeInvalidValue, body.Code)
	assert.Equal(t, []interface{}{"neutrino.bogus"}, body.Details["keys"])
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	h := srv.Handler()
	session := createSession(t, h)
	base := "/api/v1/sessions/" + session.ID

	rec := doRequest(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.ID, decode[SessionResponse](t, rec).ID)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]SessionSummary](t, rec), 1)

	rec = doRequest(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, srv.Sessions().Len())
}

func TestGetForm(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	session := createSession(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/sessions/"+session.ID+"/form", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	form := decode[FormResponse](t, rec)

	assert.Equal(t, preset.SelectorDescription, form.Presets.Description)
	assert.Equal(t, []string{preset.DefaultsName, "Mainnet"}, form.Presets.Options)
	require.NotEmpty(t, form.Sections)
	assert.Equal(t, "__internal", form.Sections[0].Name)
	assert.Equal(t, "platform", form.Sections[0].Fields[0].Property)

	var lnddir *field.Field
	for _, sec := range form.Sections {
		for _, f := range sec.Fields {
			if f.Key() == "app.lnddir" {
				lnddir = f
			}
		}
	}
	require.NotNil(t, lnddir)
	assert.Equal(t, "~/.lnd", lnddir.Value)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/sessions/"+session.ID+"/form/neutrino", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "neutrino", decode[field.Section](t, rec).Name)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/sessions/"+session.ID+"/form/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFieldEndpoints(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	session := createSession(t, h)
	fields := "/api/v1/sessions/" + session.ID + "/fields/"

	rec := doRequest(t, h, http.MethodGet, fields+"neutrino/maxpeers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[field.Field](t, rec)
	assert.Equal(t, float64(8), got.Value)
	assert.Equal(t, "Max number of inbound and outbound peers: 8", got.Description)
	require.NotNil(t, got.Constraints.Max)
	assert.Equal(t, float64(125), *got.Constraints.Max)

	rec = doRequest(t, h, http.MethodPut, fields+"neutrino/maxpeers", field.TextEdit("16"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(16), decode[field.Field](t, rec).Value)

	rec = doRequest(t, h, http.MethodPut, fields+"neutrino/maxpeers", field.TextEdit("many"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, core.CodeInvalidNumber, decode[ErrorResponse](t, rec).Code)

	rec = doRequest(t, h, http.MethodPut, fields+"autopilot/active", field.CheckEdit(true))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode[field.Field](t, rec).Value)

	rec = doRequest(t, h, http.MethodPut, fields+"autopilot/heuristic", field.OptionEdit("externalscore", true))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"preferential", "externalscore"}, decode[field.Field](t, rec).Value)

	rec = doRequest(t, h, http.MethodPost, fields+"neutrino/addpeer/items", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []interface{}{""}, decode[field.Field](t, rec).Value)

	rec = doRequest(t, h, http.MethodPut, fields+"neutrino/addpeer", field.ItemEdit(0, "peer:18333"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"peer:18333"}, decode[field.Field](t, rec).Value)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/sessions/"+session.ID, nil)
	tree := decode[SessionResponse](t, rec).Settings
	assert.Equal(t, float64(16), tree.Section("neutrino")["maxpeers"])
	assert.Equal(t, []interface{}{"peer:18333"}, tree.Section("neutrino")["addpeer"])
}

func TestFieldEndpoints_Errors(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	session := createSession(t, h)
	fields := "/api/v1/sessions/" + session.ID + "/fields/"

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown field", http.MethodGet, fields + "neutrino/bogus", nil, http.StatusNotFound},
		{"not rendered", http.MethodGet, fields + "app/profile", nil, http.StatusNotFound},
		{"bad body", http.MethodPut, fields + "neutrino/maxpeers", "not an edit", http.StatusBadRequest},
		{"missing input", http.MethodPut, fields + "neutrino/maxpeers", field.Edit{}, http.StatusUnprocessableEntity},
		{"bad enum", http.MethodPut, fields + "bitcoin/network", field.TextEdit("signet"), http.StatusUnprocessableEntity},
		{"append to scalar", http.MethodPost, fields + "neutrino/maxpeers/items", nil, http.StatusUnprocessableEntity},
		{"unknown session", http.MethodGet, "/api/v1/sessions/nope/fields/neutrino/maxpeers", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestPresets(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	rec := doRequest(t, h, http.MethodGet, "/api/v1/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Description string           `json:"description"`
		Presets     []PresetResponse `json:"presets"`
	}](t, rec)
	assert.Equal(t, preset.SelectorDescription, body.Description)
	require.Len(t, body.Presets, 2)
	assert.Equal(t, preset.DefaultsName, body.Presets[0].Name)
	assert.Equal(t, "mainnet.yaml", body.Presets[1].Source)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/presets/Mainnet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mainnet", decode[PresetResponse](t, rec).Settings.Section("bitcoin")["network"])

	rec = doRequest(t, h, http.MethodGet, "/api/v1/presets/Signet", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetPresets(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	h := srv.Handler()
	before := createSession(t, h)

	signet, err := preset.NewTable(preset.Preset{
		Name:     "Signet",
		Source:   "signet.yaml",
		Settings: settings.Tree{"bitcoin": map[string]any{"network": "signet"}},
	})
	require.NoError(t, err)
	srv.SetPresets(signet)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/presets/Signet", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, h, http.MethodGet, "/api/v1/presets/Mainnet", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Sessions keep the table they started with.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/sessions/"+before.ID+"/presets/Mainnet", ApplyPresetRequest{Confirm: true})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	after := createSession(t, h)
	rec = doRequest(t, h, http.MethodPost, "/api/v1/sessions/"+after.ID+"/presets/Signet", ApplyPresetRequest{Confirm: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "signet", decode[ApplyPresetResponse](t, rec).Settings.Section("bitcoin")["network"])

	rec = doRequest(t, h, http.MethodGet, "/api/v1/sessions/"+after.ID+"/form", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{preset.DefaultsName, "Signet"}, decode[FormResponse](t, rec).Presets.Options)
}

func TestApplyPreset(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	session := createSession(t, h)
	base := "/api/v1/sessions/" + session.ID

	rec := doRequest(t, h, http.MethodPut, base+"/fields/app/alias", field.TextEdit("mine"))
	require.Equal(t, http.StatusOK, rec.Code)

	// Without confirmation nothing changes.
	rec = doRequest(t, h, http.MethodPost, base+"/presets/Mainnet", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decode[ErrorResponse](t, rec)
	assert.Equal(t, core.CodeConfirmRequired, errBody.Code)
	assert.Equal(t, preset.Prompt, errBody.Error)

	rec = doRequest(t, h, http.MethodGet, base, nil)
	tree := decode[SessionResponse](t, rec).Settings
	assert.Equal(t, "testnet", tree.Section("bitcoin")["network"])
	assert.Equal(t, "mine", tree.Section("app")["alias"])

	rec = doRequest(t, h, http.MethodPost, base+"/presets/Mainnet", ApplyPresetRequest{Confirm: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	applied := decode[ApplyPresetResponse](t, rec)
	assert.True(t, applied.Applied)
	assert.Equal(t, "mainnet", applied.Settings.Section("bitcoin")["network"])
	assert.Equal(t, "", applied.Settings.Section("app")["alias"])

	rec = doRequest(t, h, http.MethodPost, base+"/presets/Signet", ApplyPresetRequest{Confirm: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventBusReceivesSessionActivity(t *testing.T) {
	t.Parallel()

	bus := events.New(10)
	defer bus.Close()
	ch := bus.Subscribe()

	srv := newTestServer(t, WithEventBus(bus))
	require.NotNil(t, srv.SSEHandler())
	h := srv.Handler()

	session := createSession(t, h)
	base := "/api/v1/sessions/" + session.ID
	doRequest(t, h, http.MethodPut, base+"/fields/neutrino/maxpeers", field.TextEdit("12"))
	doRequest(t, h, http.MethodPost, base+"/presets/Defaults", ApplyPresetRequest{Confirm: true})
	doRequest(t, h, http.MethodDelete, base, nil)

	var types []string
	for len(ch) > 0 {
		e := <-ch
		assert.Equal(t, session.ID, e.SessionID())
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{
		events.TypeSessionCreated,
		events.TypeSettingsChanged,
		events.TypePresetApplied,
		events.TypeSessionClosed,
	}, types)
}
