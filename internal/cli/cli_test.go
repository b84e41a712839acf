package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/observability"
	"github.com/matzehuels/orgdeps/pkg/report"
)

// captureUI redirects status output into a buffer for the test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

// isolate points every config and cache location at temp dirs and clears
// credentials inherited from the environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("ORGDEPS_TOKEN", "")
	t.Cleanup(observability.Reset)
}

// fakeGitHub serves one organization: GraphQL listing in a single page
// and package.json contents for the repositories in manifests.
func fakeGitHub(t *testing.T, org string, repos []string, manifests map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/graphql" {
			edges := make([]map[string]any, len(repos))
			for i, name := range repos {
				edges[i] = map[string]any{"cursor": name, "node": map[string]any{"name": name}}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"organization": map[string]any{"repositories": map[string]any{
					"edges":    edges,
					"pageInfo": map[string]any{"hasNextPage": false},
				}}},
			})
			return
		}
		for repo, body := range manifests {
			if r.URL.Path == "/repos/"+org+"/"+repo+"/contents/package.json" {
				json.NewEncoder(w).Encode(map[string]any{
					"type":     "file",
					"encoding": "base64",
					"content":  base64.StdEncoding.EncodeToString([]byte(body)),
				})
				return
			}
		}
		http.NotFound(w, r)
	}))
}

func acmeServer(t *testing.T) *httptest.Server {
	return fakeGitHub(t, "acme", []string{"web", "api", "docs"}, map[string]string{
		"web": `{"dependencies":{"react":"^18.0.0","lodash":"^4.17.0"},"devDependencies":{"jest":"^29.0.0"}}`,
		"api": `{"dependencies":{"lodash":"^4.17.0","@acme/ui":"1.0.0"},"devDependencies":{"jest":"^29.0.0"}}`,
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCollectWritesCSV(t *testing.T) {
	isolate(t)
	ui := captureUI(t)
	server := acmeServer(t)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "deps.csv")
	_, err := execute(t, "collect",
		"--org", "https://github.com/acme",
		"--token", "test-token",
		"--ignore", "@acme",
		"--api-url", server.URL,
		"--cache", "none",
		"--retries", "1",
		"--no-input",
		"--output", out)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "Dependency,Usage\nlodash,2\njest,2\nreact,1\n"
	if string(data) != want {
		t.Errorf("deps.csv =\n%s\nwant\n%s", data, want)
	}
	if !strings.Contains(ui.String(), out) {
		t.Errorf("summary should name the output file:\n%s", ui.String())
	}
}

func TestCollectJSONAndMetrics(t *testing.T) {
	isolate(t)
	captureUI(t)
	server := acmeServer(t)
	defer server.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "report.json")
	metrics := filepath.Join(dir, "orgdeps.prom")
	t.Setenv("ORGDEPS_TOKEN", "test-token")
	_, err := execute(t, "collect",
		"--org", "acme",
		"--api-url", server.URL,
		"--cache", "memory",
		"--format", "json",
		"--metrics-file", metrics,
		"--no-input",
		"-o", out)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	r, err := loadReport(out)
	if err != nil {
		t.Fatal(err)
	}
	if r.Organization != "acme" || r.Repositories != 3 || r.RunID == "" {
		t.Errorf("report = %+v", r)
	}
	// No ignore given: the organization's own package is counted.
	if len(r.Entries) != 4 {
		t.Errorf("entries = %+v, want 4", r.Entries)
	}

	prom, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(prom), "orgdeps_manifest_fetches_total") {
		t.Errorf("metrics file missing fetch counter:\n%s", prom)
	}
}

func TestCollectConfigFile(t *testing.T) {
	isolate(t)
	captureUI(t)
	server := acmeServer(t)
	defer server.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "deps.csv")
	cfg := filepath.Join(dir, "orgdeps.toml")
	body := "organization = \"acme\"\nignore = [\"@acme\", \"react\"]\napi_url = \"" + server.URL + "\"\noutput = \"" + out + "\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITHUB_TOKEN", "test-token")

	if _, err := execute(t, "collect", "--config", cfg, "--no-input"); err != nil {
		t.Fatalf("collect: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Dependency,Usage\nlodash,2\njest,2\n"; string(data) != want {
		t.Errorf("deps.csv =\n%s\nwant\n%s", data, want)
	}
}

func TestCollectListingFailure(t *testing.T) {
	isolate(t)
	ui := captureUI(t)
	server := acmeServer(t)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "deps.csv")
	_, err := execute(t, "collect",
		"--org", "acme",
		"--token", "wrong-token",
		"--api-url", server.URL,
		"--cache", "none",
		"--retries", "1",
		"--no-input",
		"--output", out)
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Fatalf("err = %v, want UNAUTHORIZED", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no report should be written when listing fails")
	}
	if !strings.Contains(ui.String(), tokenHelpURL) {
		t.Errorf("auth failures should point at the token page:\n%s", ui.String())
	}
	if !strings.Contains(ui.String(), errors.Hint(errors.New(errors.ErrCodeUnauthorized, ""))) {
		t.Errorf("auth failures should print the credential hint:\n%s", ui.String())
	}
}

func TestCollectDefaultCacheKeepsNothing(t *testing.T) {
	isolate(t)
	captureUI(t)
	out := filepath.Join(t.TempDir(), "deps.csv")

	run := func(manifest string) string {
		t.Helper()
		server := fakeGitHub(t, "acme", []string{"web"}, map[string]string{"web": manifest})
		defer server.Close()
		if _, err := execute(t, "collect",
			"--org", "acme",
			"--token", "test-token",
			"--api-url", server.URL,
			"--no-input",
			"--output", out); err != nil {
			t.Fatalf("collect: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	if got, want := run(`{"dependencies":{"react":"18.0.0"}}`), "Dependency,Usage\nreact,1\n"; got != want {
		t.Fatalf("first run = %q, want %q", got, want)
	}
	if got, want := run(`{"dependencies":{"vue":"3.0.0"}}`), "Dependency,Usage\nvue,1\n"; got != want {
		t.Errorf("second run = %q, want %q", got, want)
	}

	var files []string
	filepath.WalkDir(os.Getenv("XDG_CACHE_HOME"), func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if len(files) != 0 {
		t.Errorf("default settings left files on disk: %v", files)
	}
}

func TestCollectMissingInput(t *testing.T) {
	isolate(t)
	captureUI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no organization", []string{"collect", "--token", "x", "--no-input"}, "organization is required"},
		{"no token", []string{"collect", "--org", "acme", "--no-input"}, "token is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCollectRejectsBadFlags(t *testing.T) {
	isolate(t)
	captureUI(t)

	tests := map[string][]string{
		"format":  {"--format", "xml"},
		"backend": {"--cache", "s3"},
		"org":     {"--org", "-acme"},
	}
	for name, extra := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"collect", "--token", "x", "--no-input", "--org", "acme"}, extra...)
			if _, err := execute(t, args...); err == nil {
				t.Error("collect should fail")
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "orgdeps version") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(out, "orgdeps") {
			t.Errorf("%s completion does not mention orgdeps", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestLoadReport(t *testing.T) {
	dir := t.TempDir()
	r := &report.Report{Organization: "acme", Entries: []report.Entry{{Name: "lodash", Count: 2}}}

	jsonPath := filepath.Join(dir, "r.json")
	if err := report.ExportJSON(r, jsonPath); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "r.csv")
	if err := report.ExportCSV(r.Entries, csvPath); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, csvPath} {
		got, err := loadReport(path)
		if err != nil {
			t.Fatalf("loadReport(%s): %v", path, err)
		}
		if len(got.Entries) != 1 || got.Entries[0] != r.Entries[0] {
			t.Errorf("loadReport(%s) = %+v", path, got.Entries)
		}
	}

	if _, err := loadReport(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("missing file should fail")
	}
}
