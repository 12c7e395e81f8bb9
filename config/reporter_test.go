package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReportClose_WritesEntries(t *testing.T) {
	dir := t.TempDir()

	conf := &ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	logName := filepath.Join(dir, "run.log")
	if err := os.WriteFile(logName, []byte("log line"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}

	r.Store("final.log", logName)
	r.Store("missing.log", filepath.Join(dir, "does-not-exist.log"))
	r.StoreData("trace.yaml", []byte("steps: []"))
	r.StoreData("trace.yaml", []byte("steps: [1]"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readArchive(t, conf.Destination)

	if files["final.log"] != "log line" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("missing file should be skipped")
	}
	if files["trace.yaml"] != "steps: []" {
		t.Errorf("trace.yaml = %q", files["trace.yaml"])
	}
	if files["trace-1.yaml"] != "steps: [1]" {
		t.Errorf("trace-1.yaml = %q", files["trace-1.yaml"])
	}
	manifest := files["MANIFEST"]
	for _, name := range []string{"final.log", "trace.yaml", "trace-1.yaml", "<9 bytes>"} {
		if !strings.Contains(manifest, name) {
			t.Errorf("MANIFEST does not mention %q:\n%s", name, manifest)
		}
	}
}

func TestReportStoreData_CopiesInput(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	data := []byte("abc")
	r.StoreData("x.txt", data)
	data[0] = 'z'
	if got := string(r.entries["x.txt"].data); got != "abc" {
		t.Errorf("stored data changed with caller buffer: %q", got)
	}
}

func TestReportStore_PanicsOnDifferentPath(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "/tmp/a.log")
	r.Store("final.log", "/tmp/a.log")

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r.Store("final.log", "/tmp/b.log")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("a", "b")
	r.StoreData("a", nil)
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
