//go:build e2e

package recipes_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for recipes service end-to-end tests.
 * This includes container setup, account helpers and assertions.
 */

const (
	testImageName = "recipebox-test:latest"

	adminEmail    = "admin@recipebox.test"
	adminPassword = "Admin123!"
	userPassword  = "secret123"
)

// userSeq keeps generated emails unique within one container.
var userSeq atomic.Int64

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Recipes Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Recipes Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/recipes/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// baseEnv is the container environment shared by every test. Rate limits
// are relaxed because tests make many rapid requests.
func baseEnv() map[string]string {
	return map[string]string{
		"SECRET_KEY":   "e2e-secret-key-do-not-use",
		"ADMIN_EMAILS": adminEmail,
		"ENV":          "test",
		"LOG_LEVEL":    "info",
		"LOG_FORMAT":   "json",

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

// setupRecipesContainer starts the service and returns its base URL. env is
// merged over baseEnv; an empty value removes the key.
func setupRecipesContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	containerEnv := baseEnv()
	for k, v := range env {
		if v == "" {
			delete(containerEnv, k)
			continue
		}
		containerEnv[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8000/tcp"},
		Env:          containerEnv,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8000/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8000")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// newUser signs up a fresh account and returns a logged in client for it.
func newUser(t *testing.T, baseURL, username string) (*recipesdk.Client, int64) {
	t.Helper()
	email := fmt.Sprintf("%s-%d@recipebox.test", strings.ToLower(username), userSeq.Add(1))
	return signupAndLogin(t, baseURL, username, email, userPassword)
}

func signupAndLogin(t *testing.T, baseURL, username, email, password string) (*recipesdk.Client, int64) {
	t.Helper()
	ctx := t.Context()

	client := recipesdk.NewClient(baseURL)
	signup, err := client.Signup(ctx, recipesdk.SignupRequest{Username: username, Email: email, Password: password})
	require.NoError(t, err, "signup should succeed")
	require.NotZero(t, signup.UserID)

	login, err := client.Login(ctx, email, password)
	require.NoError(t, err, "login should succeed")
	require.Equal(t, signup.UserID, login.UserID)
	require.Equal(t, "bearer", login.TokenType)

	return client, login.UserID
}

// addRecipe creates a recipe without an image.
func addRecipe(t *testing.T, client *recipesdk.Client, title string, public bool) *recipesdk.RecipeResponse {
	t.Helper()

	rec, err := client.AddRecipe(t.Context(), recipesdk.NewRecipe{
		Title:        title,
		Description:  "מתכון בדיקה",
		Ingredients:  "2 ביצים\n1 כוס קמח",
		Instructions: "לערבב ולאפות",
		IsPublic:     public,
		Difficulty:   recipesdk.DifficultyEasy,
		PrepTime:     "עד חצי שעה",
	}, nil, "")
	require.NoError(t, err, "adding %q should succeed", title)
	require.Equal(t, title, rec.Title)
	return rec
}

func assertHealthy(t *testing.T, health *recipesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertStatus checks that err is an API error with the given status.
func assertStatus(t *testing.T, err error, code int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, recipesdk.IsStatus(err, code), "%s: want HTTP %d (%s), got: %v", context, code, http.StatusText(code), err)
}
