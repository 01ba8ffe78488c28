package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllBuiltins(t *testing.T) {
	want := []string{"cd", "exit", "export", "help", "history", "jobs", "monitor", "pwd", "stats", "type", "unset", "which"}
	assert.Equal(t, want, ListBuiltins())

	for name, builtin := range AllBuiltins {
		assert.NotNil(t, builtin.Main, name)
		assert.NotEmpty(t, builtin.Short, name)
	}
}

func TestHelp(t *testing.T) {
	ts := newTestShell(t, nil)

	require.Equal(t, 0, ts.run("help"))

	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
	g.Assert(t, "help", ts.stdout.Bytes())
}

func TestHelp_topic(t *testing.T) {
	ts := newTestShell(t, nil)

	assert.Equal(t, 0, ts.run("help cd"))
	assert.Contains(t, ts.stdout.String(), "usage: cd [DIR]\n")

	assert.Equal(t, 1, ts.run("help nope"))
	assert.Contains(t, ts.stderr.String(), `no help topics match "nope"`)
}

func TestCdPwd(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(wd) })

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	ts := newTestShell(t, nil)

	assert.Equal(t, 0, ts.run("cd "+dir))
	assert.Equal(t, dir, ts.Env.Getenv(EnvPWD))

	assert.Equal(t, 0, ts.run("pwd"))
	assert.Equal(t, dir+"\n", ts.stdout.String())

	assert.Equal(t, 1, ts.run("cd "+filepath.Join(dir, "missing")))
	assert.Equal(t, 1, ts.run("cd a b"))
	assert.Contains(t, ts.stderr.String(), "too many arguments")

	// HOME is /tmp
	assert.Equal(t, 0, ts.run("cd"))
	assert.Equal(t, 0, ts.run("pwd"))
	assert.NotEqual(t, dir+"\n", ts.stdout.String())
}

func TestExit(t *testing.T) {
	ts := newTestShell(t, nil)

	assert.Equal(t, 1, ts.run("exit nope"))
	assert.False(t, ts.Quit)

	assert.Equal(t, 3, ts.run("exit 3"))
	assert.True(t, ts.Quit)

	ts.Quit = false
	ts.run("rm x")
	assert.Equal(t, 1, ts.run("exit"), "defaults to the last status")
}

func TestHistory(t *testing.T) {
	ts := newTestShell(t, nil)

	ts.run("pwd")
	ts.run("jobs")
	assert.Equal(t, 0, ts.run("history"))
	assert.Equal(t, "    1  pwd\n    2  jobs\n    3  history\n", ts.stdout.String())

	assert.Equal(t, 0, ts.run("history -c"))
	assert.Empty(t, ts.History())
}

func TestExport_list(t *testing.T) {
	ts := newTestShell(t, nil)
	ts.Env.Clearenv()

	assert.Equal(t, 0, ts.run("export B=2 A=1 C"))
	assert.Equal(t, 0, ts.run("export"))
	assert.Equal(t, "export A=1\nexport B=2\nexport C=\n", ts.stdout.String())
}

func memBin(t *testing.T, ts *testShell, paths ...string) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fsys, p, nil, 0755))
	}
	ts.Fs = fsys
	require.NoError(t, ts.Env.Setenv(EnvPath, "/bin:/usr/bin"))
}

func TestWhich(t *testing.T) {
	ts := newTestShell(t, nil)
	memBin(t, ts, "/bin/ls", "/usr/bin/ls", "/usr/bin/sort")

	assert.Equal(t, 0, ts.run("which ls sort"))
	assert.Equal(t, "/bin/ls\n/usr/bin/sort\n", ts.stdout.String())

	assert.Equal(t, 1, ts.run("which nope"))
	assert.Contains(t, ts.stderr.String(), "which: nope:")
}

func TestType(t *testing.T) {
	ts := newTestShell(t, nil)
	memBin(t, ts, "/bin/ls", "/bin/rm", "/usr/bin/python3")

	cases := map[string]struct {
		line   string
		status int
		stdout string
	}{
		"builtin":   {line: "type cd", stdout: "cd is a shell builtin\n"},
		"program":   {line: "type ls", stdout: "ls is /bin/ls\n"},
		"path only": {line: "type -p ls", stdout: "/bin/ls\n"},
		"denied":    {line: "type rm", stdout: "rm is /bin/rm (denied: policy violation: dangerous command: \"rm\" (blocked))\n"},
		"script":    {line: "type job.py", stdout: "job.py is a .py script run by /usr/bin/python3\n"},
		"missing":   {line: "type nope", status: 1},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.status, ts.run(tc.line))
			assert.Equal(t, tc.stdout, ts.stdout.String())
		})
	}
}

func TestJobs(t *testing.T) {
	ts := newTestShell(t, nil)

	assert.Equal(t, 0, ts.run("jobs"))
	assert.Equal(t, "0 of 10 background processes active\n", ts.stdout.String())
}

func TestStats(t *testing.T) {
	requireBinaries(t, "echo")
	ts := newTestShell(t, nil)

	ts.run("echo one")
	ts.run("echo two")
	assert.Equal(t, 0, ts.run("stats"))
	assert.Regexp(t, `(?m)^COMMAND\s+COUNT\s+TOTAL\s+LAST$`, ts.stdout.String())
	assert.Regexp(t, `(?m)^echo\s+2\s+`, ts.stdout.String())
}

func TestMonitor(t *testing.T) {
	requireBinaries(t, "echo")
	ts := newTestShell(t, nil)

	assert.Equal(t, 0, ts.run("monitor echo captured"))
	assert.Equal(t, "captured\n", ts.stdout.String())

	assert.Equal(t, 1, ts.run("monitor"))
	assert.Contains(t, ts.stderr.String(), "missing operand")

	assert.Equal(t, 1, ts.run("monitor sudo ls"))
	assert.Contains(t, ts.stderr.String(), "dangerous command")
}
