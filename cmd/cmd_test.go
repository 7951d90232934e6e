package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipengqi/reginv/pkg/config"
	"github.com/shipengqi/reginv/pkg/filelock"
	"github.com/shipengqi/reginv/pkg/inventory"
	"github.com/shipengqi/reginv/pkg/sink"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := NewReginvCommand()
	c.SetOutput(&buf)
	c.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "reginv.log")))
	err := c.Execute()
	return buf.String(), err
}

func fakeRegistry(t *testing.T, catalogStatus int) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/":
			_, _ = fmt.Fprint(w, `{}`)
		case "/v2/_catalog":
			if catalogStatus != http.StatusOK {
				w.WriteHeader(catalogStatus)
				return
			}
			_, _ = fmt.Fprint(w, `{"repositories":["app","web"]}`)
		case "/v2/app/tags/list":
			_, _ = fmt.Fprint(w, `{"tags":["v1"]}`)
		case "/v2/web/tags/list":
			_, _ = fmt.Fprint(w, `{"tags":["latest","stable"]}`)
		case "/v2/app/manifests/v1":
			w.Header().Set("Docker-Content-Digest", "sha256:"+strings.Repeat("1", 64))
			_, _ = fmt.Fprint(w, `{"config":{"size":24},"layers":[{"size":1000}]}`)
		case "/v2/web/manifests/latest", "/v2/web/manifests/stable":
			w.Header().Set("Docker-Content-Digest", "sha256:"+strings.Repeat("2", 64))
			_, _ = fmt.Fprint(w, `{"config":{"size":48},"layers":[{"size":2000}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestExportLine(t *testing.T) {
	url := fakeRegistry(t, http.StatusOK)
	out, err := execute(t, "export", "--backend", "registry", "--registry", url)
	require.NoError(t, err)
	assert.Equal(t, "app,v1,1024\nweb,latest,2048\n", out)
}

func TestExportCSV(t *testing.T) {
	url := fakeRegistry(t, http.StatusOK)
	file := filepath.Join(t.TempDir(), "inventory.csv")

	t.Run("writes header and rows", func(t *testing.T) {
		out, err := execute(t, "export", "-b", "registry", "--registry", url, "-f", "csv", "-o", file)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, sink.TabularHeader+"\n"+
			"app,v1,1024,<unknown>\n"+
			"web,latest,stable,2048,<unknown>\n", string(data))
		assert.False(t, filelock.Check(file+_lockSuffix))
	})

	t.Run("locked output", func(t *testing.T) {
		require.NoError(t, filelock.Lock(file+_lockSuffix))
		defer filelock.UnLock(file + _lockSuffix)

		_, err := execute(t, "export", "-b", "registry", "--registry", url, "-f", "csv", "-o", file)
		require.Error(t, err)
		assert.True(t, errors.Is(err, filelock.ErrLocked))
		assert.Contains(t, err.Error(), "already running")
	})
}

func TestExportServiceFailure(t *testing.T) {
	url := fakeRegistry(t, http.StatusForbidden)
	out, err := execute(t, "export", "--backend", "registry", "--registry", url)
	var serr *inventory.ServiceError
	require.True(t, errors.As(err, &serr))
	assert.Empty(t, out)
}

func TestExportInvalidConfig(t *testing.T) {
	_, err := execute(t, "export", "--format", "csv")
	assert.EqualError(t, err, "format csv needs an output file")

	_, err = execute(t, "export", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestResolveConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "reginv.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
backend: registry
format: csv
file: from-file.csv
registry:
  url: registry.example.com
  username: bot
`), 0644))

	o := &exportOptions{conf: config.Default()}
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	addExportFlags(flags, o)
	require.NoError(t, flags.Parse([]string{"--config", file, "--file", "from-flag.csv", "-u", "admin"}))

	conf, err := resolveConfig(flags, o)
	require.NoError(t, err)
	assert.Equal(t, config.BackendRegistry, conf.Backend)
	assert.Equal(t, sink.FormatCSV, conf.Format)
	assert.Equal(t, "from-flag.csv", conf.File)
	assert.Equal(t, "admin", conf.Registry.Username)
	assert.Equal(t, "registry.example.com", conf.Registry.URL)
}

func TestRandom(t *testing.T) {
	out, err := execute(t, "random", "--min", "5", "--max", "5", "--count", "2", "--seed", "1")
	require.NoError(t, err)
	assert.Equal(t, "Generating 2 random number(s) between 5 and 5:\nRandom number 1: 5\nRandom number 2: 5\n", out)

	_, err = execute(t, "random", "--min", "9", "--max", "1")
	assert.Error(t, err)
}

func TestParameterName(t *testing.T) {
	defer func() { stdin = os.Stdin }()

	t.Run("from args", func(t *testing.T) {
		var out bytes.Buffer
		name, err := parameterName([]string{"/app/key"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "/app/key", name)
		assert.Empty(t, out.String())
	})

	t.Run("from prompt", func(t *testing.T) {
		stdin = strings.NewReader("/app/token\n")
		var out bytes.Buffer
		name, err := parameterName(nil, &out)
		require.NoError(t, err)
		assert.Equal(t, "/app/token", name)
		assert.Equal(t, "Enter parameter name: ", out.String())
	})
}
