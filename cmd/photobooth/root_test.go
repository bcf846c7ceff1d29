package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"photobooth/internal/app"
	"photobooth/internal/config"
	"photobooth/internal/logger"
	"photobooth/internal/repository/sqlite"
)

// resetFlags restores every flag to its default so runs don't leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// executeCommand is a helper to run a cobra command and capture its output
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
}

// ============================================================================
// QR
// ============================================================================

func TestQRCmd_Terminal(t *testing.T) {
	out, _, err := executeCommand(t, "qr", "http://192.168.1.20:3000/share/photo/1")
	if err != nil {
		t.Fatalf("qr failed: %v", err)
	}
	if strings.Count(out, "\n") < 10 {
		t.Errorf("Expected a multi-line QR code, got %q", out)
	}
}

func TestQRCmd_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")

	_, _, err := executeCommand(t, "qr", "hello", "--png", path, "--size", "128")
	if err != nil {
		t.Fatalf("qr failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected PNG file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Expected PNG signature")
	}
}

func TestQRCmd_RequiresArgument(t *testing.T) {
	if _, _, err := executeCommand(t, "qr"); err == nil {
		t.Error("Expected error without text argument")
	}
}

// ============================================================================
// Migrate & import
// ============================================================================

func TestMigrateCmd_UpAndVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "photobooth.db")

	out, _, err := executeCommand(t, "migrate", "version", "--db", dbPath, "--driver", "sqlite")
	if err != nil {
		t.Fatalf("migrate version failed: %v", err)
	}
	if !strings.Contains(out, "No migrations applied") {
		t.Errorf("Expected fresh database to have no version, got %q", out)
	}

	if _, _, err := executeCommand(t, "migrate", "up", "--db", dbPath, "--driver", "sqlite"); err != nil {
		t.Fatalf("migrate up failed: %v", err)
	}

	out, _, err = executeCommand(t, "migrate", "version", "--db", dbPath, "--driver", "sqlite")
	if err != nil {
		t.Fatalf("migrate version failed: %v", err)
	}
	if !strings.Contains(out, "Version: 1 (dirty: false)") {
		t.Errorf("Expected version 1, got %q", out)
	}

	out, _, err = executeCommand(t, "migrate", "up", "--db", dbPath, "--driver", "sqlite")
	if err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("Expected no-change message, got %q", out)
	}
}

func TestImportCmd(t *testing.T) {
	imagesDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "photobooth.db")

	writeJPEG(t, filepath.Join(imagesDir, "one.jpg"))
	writeJPEG(t, filepath.Join(imagesDir, "two.JPEG"))
	os.WriteFile(filepath.Join(imagesDir, "notes.txt"), []byte("skip me"), 0644)
	os.WriteFile(filepath.Join(imagesDir, "empty.png"), nil, 0644)

	out, _, err := executeCommand(t, "import", imagesDir, "--db", dbPath, "--driver", "sqlite")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Successfully imported 2 images") {
		t.Errorf("Expected 2 imported, got %q", out)
	}
	if !strings.Contains(out, "Skipped 1 files") {
		t.Errorf("Expected 1 skipped, got %q", out)
	}

	db, err := sqlite.New(sqlite.Options{Driver: sqlite.DriverPure, Path: dbPath})
	if err != nil {
		t.Fatalf("Failed to open imported database: %v", err)
	}
	defer db.Close()

	photos, err := sqlite.NewPhotoRepository(db).List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("Expected 2 photos, got %d", len(photos))
	}
	for _, p := range photos {
		if !strings.HasPrefix(p.DataURL, "data:image/jpeg;base64,") {
			t.Errorf("Expected jpeg data URL for %s, got %.30s", p.Filename, p.DataURL)
		}
	}
}

func TestImportCmd_MissingDir(t *testing.T) {
	_, _, err := executeCommand(t, "import", filepath.Join(t.TempDir(), "nope"), "--driver", "sqlite")
	if err == nil {
		t.Error("Expected error for missing directory")
	}
}

// ============================================================================
// Capture
// ============================================================================

func TestCaptureCmd_SingleWithoutServer(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "shot.jpg")

	out, _, err := executeCommand(t, "capture",
		"--device", "pattern", "--no-save",
		"--countdown", "2", "--tick", "1ms",
		"--filter", "grayscale", "--out", outFile)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	for _, want := range []string{"Filter: grayscale", "Taking in 2s", "📥", "photobooth_photo.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("Expected JPEG at %s: %v", outFile, err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Expected a decodable JPEG: %v", err)
	}
}

func TestCaptureCmd_CollageStrip(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "collage.jpg")

	out, _, err := executeCommand(t, "capture",
		"--device", "pattern", "--no-save",
		"--mode", "collage", "--layout", "strip",
		"--countdown", "1", "--tick", "1ms", "--pause", "0s",
		"--out", outFile)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if !strings.Contains(out, "(4/4)") {
		t.Errorf("Expected four shots, got %q", out)
	}

	f, err := os.Open(outFile)
	if err != nil {
		t.Fatalf("Expected collage file: %v", err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width >= cfg.Height {
		t.Errorf("Expected a vertical strip, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCaptureCmd_InvalidMode(t *testing.T) {
	if _, _, err := executeCommand(t, "capture", "--device", "pattern", "--mode", "burst"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestCaptureCmd_SavesToServer(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DBDriver:         "sqlite",
		DBPath:           filepath.Join(dir, "photobooth.db"),
		DBMaxOpenConns:   1,
		NetworkIP:        "127.0.0.1",
		StaticDirectory:  dir,
		MaxBodyBytes:     10 << 20,
		PhotoListLimit:   100,
		CollageListLimit: 50,
	}
	a, err := app.NewApp(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	server := httptest.NewServer(a.Handler())
	defer server.Close()

	out, _, err := executeCommand(t, "capture",
		"--device", "pattern", "--server", server.URL,
		"--countdown", "1", "--tick", "1ms")
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	for _, want := range []string{"Saved photo #1", "/share/photo/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}
