package tests

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"
)

func buildSanaBinary(t *testing.T) string {
	t.Helper()
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	binPath := filepath.Join(t.TempDir(), "sana")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build sana binary: %v\n%s", err, string(out))
	}
	return binPath
}

func runSana(t *testing.T, binPath, dbPath string, args ...string) (string, string, int) {
	t.Helper()
	allArgs := append([]string{"--db", dbPath}, args...)
	cmd := exec.Command(binPath, allArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("run sana command: %v", err)
	}
	return stdout.String(), stderr.String(), exitErr.ExitCode()
}

func initDB(t *testing.T, binPath, dbPath string) {
	t.Helper()
	_, stderr, exit := runSana(t, binPath, dbPath, "init")
	if exit != 0 {
		t.Fatalf("init db failed: exit=%d stderr=%s", exit, stderr)
	}
}

func signupTestUser(t *testing.T, binPath, dbPath string) {
	t.Helper()
	_, stderr, exit := runSana(t, binPath, dbPath,
		"signup",
		"--name", "Alex",
		"--age", "34",
		"--email", "alex@example.com",
		"--password", "hunter2",
	)
	if exit != 0 {
		t.Fatalf("signup failed: exit=%d stderr=%s", exit, stderr)
	}
}

var addedIDPattern = regexp.MustCompile(`Added .+ \(([0-9a-f-]+)\)`)

// addedMedicineID pulls the generated id out of "med add" output so
// later commands can reference it.
func addedMedicineID(t *testing.T, stdout string) string {
	t.Helper()
	m := addedIDPattern.FindStringSubmatch(stdout)
	if m == nil {
		t.Fatalf("no medicine id in output: %s", stdout)
	}
	return m[1]
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
