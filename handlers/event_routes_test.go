package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"welcome-reward-system/models"
	"welcome-reward-system/services"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.GuildConfig{}, &models.JoinRecord{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	config := services.NewConfigService(db)
	ledger := services.NewLedgerService(db)
	welcome := services.NewWelcomeService(config, ledger, nil, nil)
	dispatcher := services.NewDispatcher(welcome, config)

	app := fiber.New()
	SetupEventRoutes(app, dispatcher)
	return app
}

func postEvent(t *testing.T, app *fiber.App, body string) (int, services.DispatchResult) {
	t.Helper()

	req := httptest.NewRequest("POST", "/s/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result services.DispatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func TestEventWebhookMemberJoined(t *testing.T) {
	app := setupTestApp(t)

	status, result := postEvent(t, app, `{"kind":"member_joined","guild_id":"g1","user_id":"u1"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, services.StatusOK, result.Status)
	require.NotNil(t, result.Notice)
	require.Equal(t, services.DefaultTitle, result.Notice.Title)
	require.False(t, result.Notice.Paid)

	// Redelivery of the same join event.
	status, result = postEvent(t, app, `{"kind":"member_joined","guild_id":"g1","user_id":"u1"}`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, services.StatusIgnored, result.Status)
}

func TestEventWebhookDeniesUnauthorizedConfig(t *testing.T) {
	app := setupTestApp(t)

	status, result := postEvent(t, app,
		`{"kind":"config_command","guild_id":"g1","capabilities":["member"],"command":"set_worth","value":"9"}`)
	require.Equal(t, fiber.StatusForbidden, status)
	require.Equal(t, services.StatusDenied, result.Status)

	// The denied write is not visible in the config view.
	req := httptest.NewRequest("GET", "/s/guilds/g1/config", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var settings services.GuildSettings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
	require.True(t, settings.Worth.Equal(services.DefaultWorth), "worth = %s", settings.Worth)
}

func TestEventWebhookRejectsInvalidBody(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest("POST", "/s/events", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
