package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/cli"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/config"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

type harness struct {
	t   *testing.T
	cfg *config.Config
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "test.db")
	cfg.Logging.Level = "error"
	return &harness{t: t, cfg: cfg, dir: dir}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	cmd := cli.NewRootCmd(h.cfg)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()

	out, err := h.run(args...)
	require.NoError(h.t, err, "abtest %s", strings.Join(args, " "))
	return out
}

func (h *harness) json(args ...string) map[string]any {
	h.t.Helper()

	var doc map[string]any
	out := h.mustRun(append(args, "--format", "json")...)
	require.NoError(h.t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()

	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func conversionCSV(rows map[string][2]int) string {
	var b strings.Builder
	b.WriteString("arm,value\n")
	for _, arm := range []string{"control", "treatment"} {
		counts := rows[arm]
		for i := 0; i < counts[1]; i++ {
			v := "0"
			if i < counts[0] {
				v = "1"
			}
			b.WriteString(arm + "," + v + "\n")
		}
	}
	return b.String()
}

func TestProportion(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("proportion", "--control", "850/10000", "--treatment", "950/10000")
	assert.Contains(t, out, "Z-TEST")
	assert.Contains(t, out, "8.50%")
	assert.Contains(t, out, "9.50%")

	doc := h.json("proportion", "--control", "850/10000", "--treatment", "950/10000")
	z := doc["z_test"].(map[string]any)
	assert.Equal(t, 2.4708, z["z_score"])
	assert.Equal(t, 0.0135, z["p_value"])
}

func TestProportion_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("proportion", "--control", "850/10000")
	assert.Error(t, err, "missing --treatment")

	_, err = h.run("proportion", "--control", "850", "--treatment", "950/10000")
	assert.Error(t, err)

	_, err = h.run("proportion", "--control", "20/10", "--treatment", "5/10")
	assert.ErrorIs(t, err, stats.ErrInvalidSample)

	_, err = h.run("proportion", "--control", "1/10", "--treatment", "5/10", "--format", "yaml")
	assert.Error(t, err)
}

func TestMean(t *testing.T) {
	h := newHarness(t)

	doc := h.json("mean", "--control", "1,2,3,4,5", "--treatment", "2,4,6,8,10")
	tt := doc["t_test"].(map[string]any)
	assert.Equal(t, 1.8974, tt["t_statistic"])
	assert.Equal(t, "large", tt["effect_size"])

	controlFile := h.writeFile("control.csv", "seconds\n1\n2\n3\n4\n5\n")
	treatmentFile := h.writeFile("treatment.csv", "seconds\n2\n4\n6\n8\n10\n")
	fromFiles := h.json("mean", "--control-file", controlFile, "--treatment-file", treatmentFile, "--column", "seconds")
	assert.Equal(t, doc, fromFiles)

	_, err := h.run("mean", "--control", "1,2,3")
	assert.Error(t, err)

	_, err = h.run("mean", "--control", "1", "--treatment", "2,3")
	assert.ErrorIs(t, err, stats.ErrInvalidSample)
}

func TestPower(t *testing.T) {
	h := newHarness(t)

	doc := h.json("power", "--baseline", "0.10", "--mde", "0.08")
	p := doc["power_analysis"].(map[string]any)
	assert.Equal(t, 22855.0, p["sample_size_per_variant"])
	assert.Equal(t, 45710.0, p["total_sample_size"])

	out := h.mustRun("power", "--baseline", "0.10", "--mde", "0.08")
	assert.Contains(t, out, "22,855")

	_, err := h.run("power", "--baseline", "0.10")
	assert.ErrorIs(t, err, stats.ErrInvalidConfiguration)

	_, err = h.run("power", "--baseline", "0.10", "--mde", "0.08", "--alpha", "0")
	assert.ErrorIs(t, err, stats.ErrInvalidConfiguration)
	_, err = h.run("power", "--baseline", "0.10", "--mde", "0.08", "--power", "0")
	assert.ErrorIs(t, err, stats.ErrInvalidConfiguration)
}

func TestBootstrap_Reproducible(t *testing.T) {
	h := newHarness(t)

	args := []string{"bootstrap",
		"--control", "10,12,11,13,9,10,11,12",
		"--treatment", "12,14,13,15,11,12,13,14",
		"--iterations", "3000", "--seed", "11",
	}
	one := h.json(append(args, "--workers", "1")...)
	four := h.json(append(args, "--workers", "4")...)
	assert.Equal(t, one, four)

	bs := one["bootstrap"].(map[string]any)
	assert.Equal(t, 3000.0, bs["n_iterations"])
	assert.Greater(t, bs["median_lift"].(float64), 0.0)

	_, err := h.run("bootstrap", "--control", "1,2", "--treatment", "3,4", "--iterations", "0")
	assert.ErrorIs(t, err, stats.ErrInvalidConfiguration)
}

func TestExperimentLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("list")
	assert.Contains(t, out, "No experiments yet.")

	data := h.writeFile("signup.csv", conversionCSV(map[string][2]int{
		"control":   {85, 1000},
		"treatment": {95, 1000},
	}))
	out = h.mustRun("import", "signup", "--file", data)
	assert.Contains(t, out, "Imported 2000 observations into 'signup'")

	out = h.mustRun("list")
	assert.Contains(t, out, "signup")
	assert.Contains(t, out, "CONVERSION")
	assert.Contains(t, out, "2,000")

	doc := h.json("analyze", "signup")
	assert.Equal(t, "signup", doc["experiment"])
	z := doc["z_test"].(map[string]any)
	assert.Equal(t, 8.5, z["control_rate"])
	assert.Equal(t, 9.5, z["treatment_rate"])
	assert.NotContains(t, doc, "bootstrap")

	doc = h.json("analyze", "signup", "--bootstrap", "--iterations", "500", "--seed", "1")
	assert.Contains(t, doc, "bootstrap")

	csv := h.mustRun("export", "signup")
	assert.True(t, strings.HasPrefix(csv, "arm,value\ncontrol,1\n"))
	assert.Equal(t, 2001, strings.Count(csv, "\n"))

	_, err := h.run("delete", "signup")
	assert.Error(t, err, "delete requires --force")

	out = h.mustRun("delete", "signup", "--force")
	assert.Contains(t, out, "Deleted experiment 'signup'")

	_, err = h.run("analyze", "signup")
	assert.ErrorContains(t, err, "not found")
}

func TestImport_ControlAndAppend(t *testing.T) {
	h := newHarness(t)

	data := h.writeFile("orders.csv", "variant,amount\nb,12.5\na,10\nb,14\na,11\n")
	h.mustRun("import", "orders", "--file", data, "--kind", "continuous",
		"--arm-column", "variant", "--value-column", "amount", "--control", "a")

	out := h.mustRun("list")
	assert.Contains(t, out, "a, b")

	// Second import appends to the existing arms
	h.mustRun("import", "orders", "--file", data,
		"--arm-column", "variant", "--value-column", "amount")
	out = h.mustRun("export", "orders")
	assert.Equal(t, "arm,value\na,10\na,11\na,10\na,11\nb,12.5\nb,14\nb,12.5\nb,14\n", out)

	_, err := h.run("import", "orders2", "--file", data, "--kind", "continuous",
		"--arm-column", "variant", "--value-column", "amount", "--control", "z")
	assert.ErrorContains(t, err, "control arm")

	_, err = h.run("import", "orders3", "--file", data,
		"--arm-column", "variant", "--value-column", "amount")
	assert.Error(t, err, "conversion experiments only accept 0 or 1")
}

func TestExport_XLSXRoundTrip(t *testing.T) {
	h := newHarness(t)

	h.mustRun("create", "revenue", "--arms", "control,treatment", "--kind", "continuous")
	data := h.writeFile("revenue.csv", "arm,value\ncontrol,1\ncontrol,2\ncontrol,3\ntreatment,2\ntreatment,4\ntreatment,6\n")
	h.mustRun("import", "revenue", "--file", data)

	xlsx := filepath.Join(h.dir, "revenue.xlsx")
	out := h.mustRun("export", "revenue", "--output", xlsx)
	assert.Contains(t, out, "Exported 6 observations")

	h.mustRun("import", "copy", "--file", xlsx, "--kind", "continuous")
	assert.Equal(t, h.json("analyze", "revenue")["t_test"], h.json("analyze", "copy")["t_test"])

	_, err := h.run("export", "revenue", "--output", "revenue.json")
	assert.Error(t, err)
}

func TestCreate_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("create", "one", "--arms", "only")
	assert.ErrorContains(t, err, "at least 2 arms")

	h.mustRun("create", "dup")
	_, err = h.run("create", "dup")
	assert.Error(t, err)

	_, err = h.run("create", "bad", "--kind", "ratio")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("token")
	assert.ErrorContains(t, err, "no token configured")

	out := h.mustRun("token", "--generate")
	assert.Regexp(t, regexp.MustCompile(`AB_TOKEN=[0-9a-f]{32}\n`), out)

	h.cfg.Server.Token = "abc"
	out = h.mustRun("token")
	assert.Contains(t, out, "Dashboard: http://localhost:8080/dashboard?token=abc")

	out = h.mustRun("token", "--url", "https://ab.example.com")
	assert.Contains(t, out, "https://ab.example.com/dashboard?token=abc")
}

func TestDemo(t *testing.T) {
	h := newHarness(t)

	doc := h.json("demo")
	for _, key := range []string{"z_test", "t_test", "power_analysis", "bootstrap"} {
		assert.Contains(t, doc, key)
	}
	bs := doc["bootstrap"].(map[string]any)
	assert.Equal(t, 5000.0, bs["n_iterations"])

	assert.Equal(t, doc, h.json("demo"), "demo output is seeded")

	md := h.mustRun("demo", "--format", "markdown")
	assert.Contains(t, md, "# Experiment report: demo")
}
