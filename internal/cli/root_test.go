package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filternet/internal/config"
	"filternet/internal/session"
)

func newTestRuntime() *runtime {
	return &runtime{
		cfg: &config.Config{
			AppName:    "FilterNet VPN",
			AppVersion: "1.0.0",
			APIBaseURL: config.DefaultAPIBaseURL,
			MockMode:   true,
			DemoMode:   true,
		},
		kv:      session.NewMemoryKV(),
		profile: "cli:test",
	}
}

// run executes one command line against rt with a fresh command tree, the
// way each invocation of the binary would
func run(t *testing.T, rt *runtime, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd("test", rt)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, rt *runtime, args ...string) string {
	t.Helper()
	out, _, err := run(t, rt, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func TestCommandsRequireSignIn(t *testing.T) {
	rt := newTestRuntime()
	for _, args := range [][]string{
		{"clients"},
		{"services", "yourznag-gmail-com-1"},
		{"members"},
		{"limits", "member_1"},
		{"bedtime", "list", "member_1"},
		{"digest", "--preview"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := run(t, rt, args...)
			assert.ErrorIs(t, err, errNotSignedIn)
		})
	}
}

func TestLoginFlags(t *testing.T) {
	rt := newTestRuntime()

	_, _, err := run(t, rt, "login")
	assert.EqualError(t, err, "pass --demo or --credential")

	_, _, err = run(t, rt, "login", "--demo", "--credential", "x")
	assert.EqualError(t, err, "use either --demo or --credential")

	_, _, err = run(t, rt, "login", "--credential", "not-a-jwt")
	assert.Error(t, err)
	out := mustRun(t, rt, "status")
	assert.Contains(t, out, "State:   logged_out")
}

func TestDemoLoginStatusAndLogout(t *testing.T) {
	rt := newTestRuntime()

	out := mustRun(t, rt, "login", "--demo")
	assert.Equal(t, "Signed in as Demo User (demo)\n", out)

	out = mustRun(t, rt, "status")
	assert.Contains(t, out, "Backend: mock data")
	assert.Contains(t, out, "State:   logged_in")
	assert.Contains(t, out, "User:    Demo User <demo@filternet.com>")
	assert.True(t, strings.HasPrefix(rt.ws.Store.GetToken(t.Context()), "demo_token_"))

	out = mustRun(t, rt, "logout")
	assert.Equal(t, "Signed out\n", out)

	out = mustRun(t, rt, "status")
	assert.Contains(t, out, "State:   logged_out")
	assert.NotContains(t, out, "User:")
}

func TestDemoLoginDisabledWhenGoogleIsConfigured(t *testing.T) {
	rt := newTestRuntime()
	rt.cfg.DemoMode = false
	rt.cfg.GoogleClientID = "1234.apps.googleusercontent.com"

	_, _, err := run(t, rt, "login", "--demo")
	assert.EqualError(t, err, "demo sign-in is disabled")
}

func TestCredentialLogin(t *testing.T) {
	rt := newTestRuntime()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "1234567890",
		"email": "parent@example.com",
		"name":  "Pat Parent",
	}).SignedString([]byte("not-google"))
	require.NoError(t, err)

	out := mustRun(t, rt, "login", "--credential", token)
	assert.Equal(t, "Signed in as Pat Parent <parent@example.com>\n", out)
	assert.Equal(t, token, rt.ws.Store.GetToken(t.Context()))
}

func TestClientsAndToggles(t *testing.T) {
	rt := newTestRuntime()
	mustRun(t, rt, "login", "--demo")

	out := mustRun(t, rt, "clients")
	assert.Contains(t, out, "yourznag-gmail-com-1")
	assert.Contains(t, out, "Naga_Home")
	assert.Contains(t, out, "2 devices, 2 Active, 7 services blocked")

	out = mustRun(t, rt, "block", "yourznag-gmail-com-2", "netflix")
	assert.Equal(t, "Netflix blocked\n", out)

	out = mustRun(t, rt, "allow", "yourznag-gmail-com-2", "youtube")
	assert.Equal(t, "YouTube allowed\n", out)

	out = mustRun(t, rt, "services", "yourznag-gmail-com-2")
	assert.Contains(t, out, "Streaming Services")
	assert.Regexp(t, `netflix\s+Netflix\s+blocked`, out)
	assert.Regexp(t, `youtube\s+YouTube\s+allowed`, out)
	assert.Regexp(t, `instagram\s+Instagram\s+blocked`, out)

	out = mustRun(t, rt, "clients")
	assert.Contains(t, out, "7 services blocked")
}

func TestToggleFailures(t *testing.T) {
	rt := newTestRuntime()
	mustRun(t, rt, "login", "--demo")

	_, _, err := run(t, rt, "block", "yourznag-gmail-com-1", "myspace")
	assert.EqualError(t, err, `unknown service "myspace"`)

	_, _, err = run(t, rt, "block", "bad id", "instagram")
	assert.EqualError(t, err, "client: invalid client")

	_, _, err = run(t, rt, "block", "ghost", "instagram")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load services")
}

func TestMembersAndLimits(t *testing.T) {
	rt := newTestRuntime()
	mustRun(t, rt, "login", "--demo")

	out := mustRun(t, rt, "members")
	assert.Regexp(t, `member_1\s+Sarah\s+12\s+teen\s+2`, out)
	assert.Regexp(t, `member_3\s+Dad\s+40\s+adult\s+1`, out)

	out = mustRun(t, rt, "limits", "member_1")
	assert.Contains(t, out, "Today: 135 of 180 minutes")
	assert.Regexp(t, `YouTube\s+27\s+60\s+33 min left`, out)
	assert.Regexp(t, `Gaming Apps\s+30\s+30\s+Limit reached`, out)
}

func TestBedtime(t *testing.T) {
	rt := newTestRuntime()
	mustRun(t, rt, "login", "--demo")

	out := mustRun(t, rt, "bedtime", "list", "member_1")
	assert.Regexp(t, `schedule_1\s+22:00-07:00\s+Every day\s+true`, out)

	out = mustRun(t, rt, "bedtime", "off", "schedule_1")
	assert.Equal(t, "Bedtime schedule deactivated\n", out)

	out = mustRun(t, rt, "bedtime", "list", "member_1")
	assert.Regexp(t, `schedule_1\s+22:00-07:00\s+Every day\s+false`, out)

	_, stderr, err := run(t, rt, "bedtime", "on", "schedule_404")
	assert.Error(t, err)
	assert.Equal(t, "Failed to update schedule\n", stderr)
}

func TestDigest(t *testing.T) {
	rt := newTestRuntime()
	mustRun(t, rt, "login", "--demo")

	out := mustRun(t, rt, "digest", "--preview")
	assert.Contains(t, out, "Subject: FilterNet VPN: 47 sites blocked today")
	assert.Contains(t, out, "Hi Demo User,")

	_, _, err := run(t, rt, "digest", "--preview", "--to", "nobody")
	assert.EqualError(t, err, "email: invalid email format")

	_, _, err = run(t, rt, "digest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestProfileName(t *testing.T) {
	assert.True(t, strings.HasPrefix(profileName(), "cli:"))
}
