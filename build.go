// build.go - Palmer Penguins Dashboard build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, web, replicate, penguinctl, data, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const module = "penguindash"

var (
	rootDir string
	distDir string

	// Executable names (key = source dir name under cmd/, value = output name)
	executables = map[string]string{
		"web":        "penguins-web",
		"replicate":  "replicate",
		"penguinctl": "penguinctl",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s; run build.go from the repository root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	rows := flag.Int("rows", 5000, "Rows produced by the data target")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	var err error
	switch *target {
	case "all":
		err = buildAll(*verbose)
	case "web", "replicate", "penguinctl":
		err = buildExecutable(*target, *verbose)
	case "data":
		err = generateData(*rows, *verbose)
	case "test":
		err = runTests(*verbose)
	case "clean":
		err = os.RemoveAll(distDir)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "   Palmer Penguins Dashboard - Build      " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func buildAll(verbose bool) error {
	printInfo("Building all components...")
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("create dist: %w", err)
	}
	for name := range executables {
		if err := buildExecutable(name, verbose); err != nil {
			return err
		}
	}
	return copyData(verbose)
}

func buildExecutable(name string, verbose bool) error {
	out := executables[name]
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", out))

	ldflags := fmt.Sprintf("-s -w -X %s/internal/app.BuildTime=%s", module, time.Now().UTC().Format(time.RFC3339))
	args := []string{"build", "-ldflags", ldflags, "-o", filepath.Join(distDir, out), "./cmd/" + name}
	return runCommand(verbose, "go", args...)
}

// copyData ships the bundled dataset next to the binaries
func copyData(verbose bool) error {
	src := filepath.Join(rootDir, "data", "palmer_penguins.csv")
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	dst := filepath.Join(distDir, "data")
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	if verbose {
		printInfo("Copying " + src)
	}
	return os.WriteFile(filepath.Join(dst, "palmer_penguins.csv"), data, 0644)
}

func generateData(rows int, verbose bool) error {
	printInfo(fmt.Sprintf("Generating a %d row dataset...", rows))
	out := filepath.Join("data", fmt.Sprintf("palmer_penguins_%d.csv", rows))
	return runCommand(verbose, "go", "run", "./cmd/replicate", "-rows", fmt.Sprint(rows), "-out", out)
}

func runTests(verbose bool) error {
	printInfo("Running tests...")
	args := []string{"test", "./..."}
	if verbose {
		args = append(args, "-v")
	}
	return runCommand(true, "go", args...)
}

func runCommand(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = rootDir
	if verbose {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all         Build every binary into dist/")
	fmt.Println("  web         Build the dashboard server")
	fmt.Println("  replicate   Build the dataset replication tool")
	fmt.Println("  penguinctl  Build the terminal summary tool")
	fmt.Println("  data        Generate a larger dataset with replicate (-rows)")
	fmt.Println("  test        Run all tests")
	fmt.Println("  clean       Remove dist/")
}
