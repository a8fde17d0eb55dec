package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
)

// fakeTMDB serves the handful of endpoints the CLI calls
func fakeTMDB(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "inception" {
			fmt.Fprint(w, `{"page":1,"results":[],"total_pages":0,"total_results":0}`)
			return
		}
		fmt.Fprint(w, `{"page":1,"total_pages":1,"total_results":1,"results":[
			{"id":27205,"title":"Inception","release_date":"2010-07-16","vote_average":8.4,"genre_ids":[28,878]}]}`)
	})
	mux.HandleFunc("/movie/27205", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":27205,"title":"Inception","release_date":"2010-07-16","vote_average":8.4,
			"runtime":148,"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}],
			"belongs_to_collection":null}`)
	})
	mux.HandleFunc("/movie/999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
	})
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`)
	})
	mux.HandleFunc("/genre/tv/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"genres":[{"id":10759,"name":"Action & Adventure"}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a config pointing at baseURL with storage in a temp dir
func writeConfig(t *testing.T, baseURL, apiKey string) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Catalog.BaseURL = baseURL
	cfg.Catalog.APIKey = apiKey
	cfg.Storage.Path = filepath.Join(dir, "reel.db")
	cfg.Logging.File = filepath.Join(dir, "reel.log")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, path))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCmd(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	out, err := runCLI(t, "", "--config", cfgPath, "search", "inception")
	require.NoError(t, err)
	assert.Contains(t, out, "Inception")
	assert.Contains(t, out, "2010")
	assert.Contains(t, out, "84%")

	out, err = runCLI(t, "", "--config", cfgPath, "search", "zzzzqqq")
	require.NoError(t, err)
	assert.Contains(t, out, "No movies found.")
}

func TestSearchCmd_BlankQueryOrBadPageMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		t.Errorf("unexpected catalog request: %s", r.URL)
	}))
	t.Cleanup(srv.Close)
	cfgPath := writeConfig(t, srv.URL, "key")

	out, err := runCLI(t, "", "--config", cfgPath, "search", "   ")
	require.NoError(t, err)
	assert.Contains(t, out, "No movies found.")

	_, err = runCLI(t, "", "--config", cfgPath, "search", "inception", "--page", "0")
	assert.Error(t, err)
	_, err = runCLI(t, "", "--config", cfgPath, "search", "inception", "--page=-2")
	assert.Error(t, err)

	assert.Zero(t, hits.Load())
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "")

	_, err := runCLI(t, "", "--config", cfgPath, "search", "inception")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestShowCmd(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	out, err := runCLI(t, "", "--config", cfgPath, "show", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "Inception")
	assert.Contains(t, out, "148 min")
	assert.Contains(t, out, "Action, Science Fiction")

	_, err = runCLI(t, "", "--config", cfgPath, "show", "999")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = runCLI(t, "", "--config", cfgPath, "show", "abc")
	assert.Error(t, err)
}

func TestShowCmd_Open(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a unix command as the browser")
	}
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	cfg.UI.Browser = "true"
	require.NoError(t, config.SaveConfig(cfg, cfgPath))

	_, err = runCLI(t, "", "--config", cfgPath, "show", "--open", "27205")
	require.NoError(t, err)

	cfg.UI.Browser = "no-such-browser-xyz"
	require.NoError(t, config.SaveConfig(cfg, cfgPath))
	_, err = runCLI(t, "", "--config", cfgPath, "show", "--open", "27205")
	assert.Error(t, err)
}

func TestGenresCmd(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	out, err := runCLI(t, "", "--config", cfgPath, "genres")
	require.NoError(t, err)
	assert.Contains(t, out, "Comedy")

	out, err = runCLI(t, "", "--config", cfgPath, "genres", "--tv")
	require.NoError(t, err)
	assert.Contains(t, out, "Action & Adventure")
}

func TestFavCmds_PersistAcrossRuns(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	out, err := runCLI(t, "", "--config", cfgPath, "fav", "add", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Inception")

	out, err = runCLI(t, "", "--config", cfgPath, "fav", "add", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "already a favorite")

	out, err = runCLI(t, "", "--config", cfgPath, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Inception")
	assert.Equal(t, 1, strings.Count(out, "27205"))

	out, err = runCLI(t, "", "--config", cfgPath, "fav", "list", "--filter", "incp")
	require.NoError(t, err)
	assert.Contains(t, out, "Inception")

	out, err = runCLI(t, "", "--config", cfgPath, "fav", "list", "--filter", "alien")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites.")

	out, err = runCLI(t, "", "--config", cfgPath, "search", "inception")
	require.NoError(t, err)
	assert.Contains(t, out, "♥")

	out, err = runCLI(t, "", "--config", cfgPath, "fav", "rm", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 27205")

	out, err = runCLI(t, "", "--config", cfgPath, "fav", "rm", "27205")
	require.NoError(t, err)
	assert.Contains(t, out, "not a favorite")
}

func TestFavCmds_Ephemeral(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	_, err := runCLI(t, "", "--config", cfgPath, "--ephemeral", "fav", "add", "27205")
	require.NoError(t, err)

	out, err := runCLI(t, "", "--config", cfgPath, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites.")
}

func TestThemeCmd(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1", "")

	out, err := runCLI(t, "", "--config", cfgPath, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = runCLI(t, "", "--config", cfgPath, "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = runCLI(t, "", "--config", cfgPath, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = runCLI(t, "", "--config", cfgPath, "theme", "LIGHT")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = runCLI(t, "", "--config", cfgPath, "theme", "neon")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reel", "config.yaml")

	out, err := runCLI(t, "\nmy-api-key\n", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "cannot be empty")
	assert.Contains(t, out, "Configuration saved")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "my-api-key", cfg.Catalog.APIKey)

	out, err = runCLI(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "******-key")
	assert.NotContains(t, out, "my-api-key")
}

func TestConfigInit_EOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, "", "--config", path, "config", "init")
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestResetCmd(t *testing.T) {
	srv := fakeTMDB(t)
	cfgPath := writeConfig(t, srv.URL, "key")

	_, err := runCLI(t, "", "--config", cfgPath, "fav", "add", "27205")
	require.NoError(t, err)
	_, err = runCLI(t, "", "--config", cfgPath, "theme", "dark")
	require.NoError(t, err)

	_, err = runCLI(t, "", "--config", cfgPath, "reset")
	assert.Error(t, err)

	_, err = runCLI(t, "", "--config", cfgPath, "reset", "--yes")
	require.NoError(t, err)

	out, err := runCLI(t, "", "--config", cfgPath, "fav", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites.")

	out, err = runCLI(t, "", "--config", cfgPath, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "reel version dev")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "(not set)", redact(""))
	assert.Equal(t, "****", redact("abc"))
	assert.Equal(t, "****5678", redact("12345678"))
}
