// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/sc4cleanitol/cleanitol/internal/config"
	"github.com/sc4cleanitol/cleanitol/internal/testutil"
	"github.com/sc4cleanitol/cleanitol/pkg/dbpf"
	"github.com/sc4cleanitol/cleanitol/pkg/tgi"
)

type testEnv struct {
	app     *App
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	plugins string
	output  string
}

// newTestEnv returns an App over a static configuration pointing at fresh
// plugins and output folders.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		plugins: filepath.Join(dir, "Plugins"),
		output:  filepath.Join(dir, "BSC_Cleanitol"),
	}
	testutil.MustMkdirAll(t, env.plugins, 0o755)

	cfg := config.DefaultConfig()
	cfg.UserPlugins = config.FolderPath(env.plugins)
	cfg.SystemPlugins = ""
	cfg.OutputDir = config.FolderPath(env.output)
	cfg.ColorScheme = config.ColorSchemeDark

	env.app = NewApp(Dependencies{
		Config: config.NewStaticProvider(cfg),
		Now:    testutil.NewFakeClock(testutil.DefaultTestTime).Now,
		Stdout: env.stdout,
		Stderr: env.stderr,
	})
	return env
}

// execute runs the command tree with args and returns the command error.
func (e *testEnv) execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand(e.app)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.SetArgs(args)
	return root.ExecuteContext(t.Context())
}

// writeScript writes a script file next to the plugins folder.
func (e *testEnv) writeScript(t *testing.T, lines string) string {
	t.Helper()
	return testutil.MustWriteFile(t, filepath.Join(filepath.Dir(e.plugins), "script.txt"), lines)
}

// packageBytes builds a DBPF 1.0 package with a 7.0 index listing ids.
func packageBytes(ids ...tgi.TGI) []byte {
	le := binary.LittleEndian
	buf := make([]byte, dbpf.HeaderSize+20*len(ids))
	copy(buf, dbpf.Magic)
	le.PutUint32(buf[4:], 1)
	le.PutUint32(buf[32:], 7)
	le.PutUint32(buf[36:], uint32(len(ids)))
	le.PutUint32(buf[40:], dbpf.HeaderSize)
	le.PutUint32(buf[44:], uint32(len(ids)*20))
	for i, id := range ids {
		rec := buf[dbpf.HeaderSize+20*i:]
		le.PutUint32(rec[0:], id.Type)
		le.PutUint32(rec[4:], id.Group)
		le.PutUint32(rec[8:], id.Instance)
	}
	return buf
}
