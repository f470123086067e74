package adc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ingest/pkg/errors"
)

// isolate points HOME at an empty directory and clears the env override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvCredentials, "")
	return home
}

func writeCreds(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFindFile(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		isolate(t)
		path, source := FindFile("")
		assert.Empty(t, path)
		assert.Empty(t, source)
	})

	t.Run("explicit wins", func(t *testing.T) {
		home := isolate(t)
		explicit := writeCreds(t, filepath.Join(home, "sa.json"), `{"type":"service_account"}`)
		env := writeCreds(t, filepath.Join(home, "env.json"), `{"type":"service_account"}`)
		t.Setenv(EnvCredentials, env)

		path, source := FindFile(explicit)
		assert.Equal(t, explicit, path)
		assert.Equal(t, SourceConfig, source)
	})

	t.Run("env before default", func(t *testing.T) {
		home := isolate(t)
		writeCreds(t, filepath.Join(home, ".config/gcloud/application_default_credentials.json"), `{"type":"authorized_user"}`)
		env := writeCreds(t, filepath.Join(home, "env.json"), `{"type":"service_account"}`)
		t.Setenv(EnvCredentials, env)

		path, source := FindFile(filepath.Join(home, "missing.json"))
		assert.Equal(t, env, path)
		assert.Equal(t, SourceEnv, source)
	})

	t.Run("gcloud default", func(t *testing.T) {
		home := isolate(t)
		want := writeCreds(t, filepath.Join(home, ".config/gcloud/application_default_credentials.json"), `{"type":"authorized_user"}`)

		path, source := FindFile("")
		assert.Equal(t, want, path)
		assert.Equal(t, SourceDefault, source)
	})
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{"service account", `{"type":"service_account","client_email":"bot@p.iam.gserviceaccount.com"}`, true},
		{"user", `{"type":"authorized_user","client_id":"123"}`, true},
		{"missing type", `{"client_id":"123"}`, false},
		{"unknown type", `{"type":"external_account"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCreds(t, filepath.Join(dir, tt.name+".json"), tt.content)
			file, err := ParseFile(path)
			if tt.valid {
				require.NoError(t, err)
				assert.NotEmpty(t, file.Type)
				return
			}
			assert.True(t, errors.IsValidationError(err))
		})
	}

	t.Run("bad json", func(t *testing.T) {
		path := writeCreds(t, filepath.Join(dir, "bad.json"), `{`)
		_, err := ParseFile(path)
		var parseErr *errors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("unreadable", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(dir, "absent.json"))
		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})
}

func TestParseINIValue(t *testing.T) {
	content := "[core]\naccount = troy@example.org\nproject=ingest-dev\n\n[compute]\nregion = us-west1\n"
	assert.Equal(t, "ingest-dev", parseINIValue(content, "project"))
	assert.Equal(t, "troy@example.org", parseINIValue(content, "account"))
	assert.Empty(t, parseINIValue(content, "region"))
	assert.Empty(t, parseINIValue("[compute]\nproject = nope\n", "project"))
}

func TestReadConfig(t *testing.T) {
	home := isolate(t)
	writeCreds(t, filepath.Join(home, ".config/gcloud/active_config"), "work\n")
	writeCreds(t, filepath.Join(home, ".config/gcloud/configurations/config_work"), "[core]\nproject = from-gcloud\n")

	assert.Equal(t, "from-gcloud", ReadConfig("project"))
}

func TestInspect(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		isolate(t)
		d := Inspect("")
		assert.Equal(t, StateMissing, d.State)
		assert.True(t, errors.IsAPIKeyError(d.Err))

		_, err := d.ClientOptions("scope")
		var authErr *errors.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, d.Brief(), "missing")
	})

	t.Run("invalid", func(t *testing.T) {
		home := isolate(t)
		path := writeCreds(t, filepath.Join(home, "bad.json"), `{"type":"nope"}`)
		d := Inspect(path)
		assert.Equal(t, StateInvalid, d.State)
		assert.Equal(t, path, d.Path)
		require.Error(t, d.Err)
	})

	t.Run("service account", func(t *testing.T) {
		home := isolate(t)
		path := writeCreds(t, filepath.Join(home, "sa.json"),
			`{"type":"service_account","project_id":"terms","client_email":"bot@terms.iam.gserviceaccount.com"}`)

		d := Inspect(path)
		require.Equal(t, StateConfigured, d.State)
		assert.Equal(t, "Service Account", d.Type)
		assert.Equal(t, "bot@terms.iam.gserviceaccount.com", d.Account)
		assert.Equal(t, "terms", d.Project)
		assert.Equal(t, "project_id", d.ProjectSource)
		assert.False(t, d.LastAuth.IsZero())

		opts, err := d.ClientOptions("a", "b")
		require.NoError(t, err)
		assert.Len(t, opts, 2)
		assert.Contains(t, d.Brief(), "Service Account")
	})

	t.Run("user credentials carry quota project", func(t *testing.T) {
		home := isolate(t)
		writeCreds(t, filepath.Join(home, ".config/gcloud/configurations/config_default"), "[core]\nproject = from-gcloud\n")
		path := writeCreds(t, filepath.Join(home, ".config/gcloud/application_default_credentials.json"),
			`{"type":"authorized_user","client_id":"42"}`)

		d := Inspect("")
		require.Equal(t, StateConfigured, d.State)
		assert.Equal(t, path, d.Path)
		assert.Equal(t, "(client ID: 42)", d.Account)
		assert.Equal(t, "from-gcloud", d.Project)
		assert.Equal(t, "gcloud config", d.ProjectSource)

		opts, err := d.ClientOptions("a")
		require.NoError(t, err)
		assert.Len(t, opts, 3)
	})
}
