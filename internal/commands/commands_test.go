package commands_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/elmledger/internal/commands"
	"github.com/cleared-dev/elmledger/internal/config"
	"github.com/cleared-dev/elmledger/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// runElmledger executes the CLI in-process and returns stdout.
func runElmledger(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

// fakeBank serves the provider API with one mapped and one unmapped account.
func fakeBank(t *testing.T, failList bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		if failList {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"accounts": [
			{"id": "acc_llc_checking", "name": "LLC Checking", "balance": 100},
			{"id": "acc_llc_credit", "name": "LLC Credit Card", "balance": 12}
		]}`))
	})
	mux.HandleFunc("/accounts/acc_llc_checking/balance", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"balance": 31500}`))
	})
	mux.HandleFunc("/accounts/acc_llc_checking/transactions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transactions": [{"date": "2025-04-01", "description": "Rental Income Received", "debit": 3500, "credit": 0}]}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Account not found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// chdir changes the working directory to dir and restores it when the
// test finishes (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// project creates an initialized project directory and changes into it.
func project(t *testing.T, bank *httptest.Server, driver string) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	_, err := runElmledger(t, "init", "--provider-url", bank.URL, "--store", driver)
	require.NoError(t, err)
	return dir
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	out, err := runElmledger(t, "init", dir, "--provider-url", "http://bank.test/api/db")
	require.NoError(t, err)
	assert.Contains(t, out, "elmledger.yaml")

	cfg, err := config.Load(filepath.Join(dir, "elmledger.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://bank.test/api/db", cfg.Provider.BaseURL)
	assert.Equal(t, "bolt", cfg.Store.Driver)

	info, err := os.Stat(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "data/")

	_, err = runElmledger(t, "init", dir)
	assert.Error(t, err, "second init should refuse to overwrite")

	_, err = runElmledger(t, "init", dir, "--force", "--store", "sqlite")
	require.NoError(t, err)
	cfg, err = config.Load(filepath.Join(dir, "elmledger.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)

	_, err = runElmledger(t, "init", dir, "--force", "--store", "redis")
	assert.Error(t, err)
}

func TestRefreshAndShow(t *testing.T) {
	for _, driver := range []string{"bolt", "sqlite", "file"} {
		t.Run(driver, func(t *testing.T) {
			project(t, fakeBank(t, false), driver)

			out, err := runElmledger(t, "refresh")
			require.NoError(t, err)
			assert.Contains(t, out, "LLC Checking")
			assert.Contains(t, out, "$31500.00")
			assert.NotContains(t, out, "LLC Credit Card")

			out, err = runElmledger(t, "show", "llcBank")
			require.NoError(t, err)
			assert.Contains(t, out, "Rental Income Received")
			assert.Contains(t, out, "Central hub for all business income and expenses.")

			out, err = runElmledger(t, "show", "--json")
			require.NoError(t, err)
			var st model.Store
			require.NoError(t, json.Unmarshal([]byte(out), &st))
			assert.True(t, st.Complete())
			assert.Len(t, st[model.SlotLLCBank].Transactions, 1)
		})
	}
}

func TestRefreshJSON(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")

	out, err := runElmledger(t, "refresh", "--json")
	require.NoError(t, err)

	var st model.Store
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.True(t, st[model.SlotLLCBank].Balance.Valid)
	assert.Equal(t, "HELOC Loan", st[model.SlotHELOCLoan].Name)
}

func TestRefreshDryRun(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")

	_, err := runElmledger(t, "refresh", "--dry-run")
	require.NoError(t, err)

	_, err = runElmledger(t, "show")
	assert.Error(t, err, "dry run should not persist")
}

func TestRefreshFailure(t *testing.T) {
	project(t, fakeBank(t, true), "bolt")

	_, err := runElmledger(t, "refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Error: 500")

	_, err = runElmledger(t, "show")
	assert.Error(t, err)
}

func TestRenameKeepsLiveData(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")

	_, err := runElmledger(t, "rename", "llcBank", "--name", "Operating")
	require.Error(t, err, "rename needs a prior refresh")

	_, err = runElmledger(t, "refresh")
	require.NoError(t, err)

	out, err := runElmledger(t, "rename", "llcBank", "--name", "Operating")
	require.NoError(t, err)
	assert.Contains(t, out, `"Operating"`)

	_, err = runElmledger(t, "refresh")
	require.NoError(t, err)

	out, err = runElmledger(t, "show", "llcBank")
	require.NoError(t, err)
	assert.Contains(t, out, "Operating (llcBank)")
	assert.Contains(t, out, "$31500.00")

	_, err = runElmledger(t, "rename", "llcCredit", "--name", "x")
	assert.Error(t, err)
	_, err = runElmledger(t, "rename", "llcBank")
	assert.Error(t, err)
}

func TestTerms(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")
	_, err := runElmledger(t, "refresh")
	require.NoError(t, err)

	out, err := runElmledger(t, "terms", "memberLoan",
		"--principal", "15000", "--rate", "4.5", "--years", "8",
		"--share", "Julie=10000", "--share", "David=5000")
	require.NoError(t, err)
	assert.Contains(t, out, "$15000.00 at 4.5% over 8 years")
	assert.Contains(t, out, "Julie: $10000.00")

	_, err = runElmledger(t, "terms", "memberLoan",
		"--principal", "15000", "--rate", "4.5", "--years", "8", "--share", "Julie=1")
	assert.Error(t, err)

	_, err = runElmledger(t, "terms", "llcBank", "--principal", "1", "--rate", "1", "--years", "1")
	assert.Error(t, err)

	_, err = runElmledger(t, "terms", "memberLoan", "--principal", "abc", "--rate", "1", "--years", "1")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := project(t, fakeBank(t, false), "bolt")
	_, err := runElmledger(t, "refresh")
	require.NoError(t, err)

	out, err := runElmledger(t, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "slot,name,kind,balance,transactions,subtitle", lines[0])
	assert.Contains(t, out, "llcBank,LLC Checking,asset,31500.00,1,Central hub for all business income and expenses.")

	path := filepath.Join(dir, "summary.csv")
	_, err = runElmledger(t, "export", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestStatus(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")

	out, err := runElmledger(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "acc_llc_checking")
	assert.Contains(t, out, "llcBank")
	assert.Contains(t, out, "unmapped")
	assert.Contains(t, out, "1 of 2 accounts mapped")

	_, err = runElmledger(t, "show")
	assert.Error(t, err, "status should not persist")
}

func TestHistory(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")

	out, err := runElmledger(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity yet.")

	_, err = runElmledger(t, "refresh")
	require.NoError(t, err)
	_, err = runElmledger(t, "refresh", "--dry-run")
	require.NoError(t, err)
	_, err = runElmledger(t, "rename", "llcBank", "--name", "Operating")
	require.NoError(t, err)
	_, err = runElmledger(t, "terms", "memberLoan", "--principal", "15000", "--rate", "5", "--years", "10")
	require.NoError(t, err)

	out, err = runElmledger(t, "history")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "refresh"), "dry runs are not recorded")
	assert.Contains(t, out, `name "Operating"`)
	assert.Contains(t, out, "$15000.00 at 5% over 10 years")
	assert.Less(t, strings.Index(out, "terms"), strings.Index(out, "rename"), "newest first")

	out, err = runElmledger(t, "history", "llcBank")
	require.NoError(t, err)
	assert.Contains(t, out, "rename")
	assert.Contains(t, out, "refresh")
	assert.NotContains(t, out, "memberLoan")

	out, err = runElmledger(t, "history", "-n", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "rename")
}

func TestEnvOverridesConfig(t *testing.T) {
	dir := project(t, fakeBank(t, false), "bolt")
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte(
		"ELMLEDGER_STORE_DRIVER=file\nELMLEDGER_STORE_PATH=data/env.json\n"+
			`ELMLEDGER_ACCOUNT_OVERRIDES='{"acc_llc_credit": "llcSavings"}'`+"\n"), 0o644))
	t.Cleanup(func() {
		for _, k := range []string{config.EnvStoreDriver, config.EnvStorePath, config.EnvAccountOverrides} {
			os.Unsetenv(k)
		}
	})

	out, err := runElmledger(t, "--env-file", envPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 2 accounts mapped")

	_, err = runElmledger(t, "--env-file", envPath, "refresh")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "env.json"))
	assert.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	project(t, fakeBank(t, false), "bolt")
	_, err := runElmledger(t, "--log-level", "loud", "show")
	assert.Error(t, err)
}

func TestMissingExplicitConfig(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := runElmledger(t, "--config", "nope.yaml", "show")
	assert.Error(t, err)
}
