package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	if testing.Short() {
		t.Skip("builds binaries")
	}
	tempDir := t.TempDir()

	// 1. Build a coins-hello extension printing its environment.
	helloSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	for _, name := range []string{%q, %q, %q, %q} {
		fmt.Printf("%%s=%%s\n", name, os.Getenv(name))
	}
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvAPIURL, EnvAPIKey, EnvTTL, EnvVerbose)

	srcFile := filepath.Join(tempDir, "hello.go")
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write coins-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", filepath.Join(tempDir, ExtensionPrefix+"hello"), srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile coins-hello: %v", err)
	}

	// 2. Build the coins binary.
	coinsBinary := filepath.Join(tempDir, "coins")
	build = exec.Command("go", "build", "-o", coinsBinary, "../coins")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile coins binary: %v", err)
	}

	// 3. Run the extension through coins, with global flags.
	run := exec.Command(coinsBinary, "-api-url", "http://localhost:9999", "-api-key", "secret", "-ttl", "90s", "-v", "hello", "world")
	run.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}
	var stdout, stderr bytes.Buffer
	run.Stdout = &stdout
	run.Stderr = &stderr
	if err := run.Run(); err != nil {
		t.Fatalf("coins command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{
		EnvAPIURL + "=http://localhost:9999",
		EnvAPIKey + "=secret",
		EnvTTL + "=1m30s",
		EnvVerbose + "=true",
		"args=[world]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, output)
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("does-not-exist", nil); found || code != 0 {
		t.Errorf("RunExtension() = %v, %d, want false, 0", found, code)
	}
}
