package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arnold/healthgoals-api/internal/handlers"
	"github.com/arnold/healthgoals-api/internal/routes"
	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProgressCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"progress", "118", "106.5", "95"}, "50% (improving)"},
		{[]string{"progress", "118", "95", "95"}, "100% (improving)"},
		{[]string{"progress", "118", "130", "95"}, "0% (regressing)"},
		{[]string{"progress", "118", "118", "95"}, "0% (not_started)"},
	}
	for _, tt := range tests {
		out, err := runCommand(t, tt.args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tt.args, err)
		}
		if strings.TrimSpace(out) != tt.want {
			t.Fatalf("%v: expected %q, got %q", tt.args, tt.want, out)
		}
	}
}

func TestProgressCommandRejectsBadInput(t *testing.T) {
	if _, err := runCommand(t, "progress", "118", "abc", "95"); err == nil {
		t.Fatal("expected an error for a non-numeric argument")
	}
	if _, err := runCommand(t, "progress", "118", "95"); err == nil {
		t.Fatal("expected an error for missing arguments")
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := runCommand(t, "plan", "ldl", "cholesterol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"CATEGORY", "Reduce Saturated Fat", "supplements"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}

	out, err = runCommand(t, "plan", "Unknown", "Marker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `No action plan for "Unknown Marker"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestBiomarkersCommand(t *testing.T) {
	out, err := runCommand(t, "biomarkers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Glucose") || !strings.Contains(lines[1], "118 mg/dL") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
}

func TestNewAppRecoversFromPanics(t *testing.T) {
	hub := handlers.NewHub()
	goals := services.NewGoalService(nil, nil, hub, false)
	app := newApp(routes.Handlers{
		Goals:     handlers.NewGoalHandler(goals),
		Sessions:  handlers.NewSessionHandler(nil, goals, "secret"),
		Hub:       hub,
		JWTSecret: "secret",
	})
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
