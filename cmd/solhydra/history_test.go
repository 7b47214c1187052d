package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/solhydra/internal/database"
)

// runHistoryArgs executes the history command and returns stdout.
func runHistoryArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seedHistory records two runs in a database under a temp dir.
func seedHistory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, ws := range []string{"/work/first", "/work/second"} {
		_, err := db.SaveRun(context.Background(), &database.RunRecord{
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Workspace:  ws,
			ReportPath: ws + "/solhydra_report.html",
			Format:     "html",
			Units:      []string{"MyToken.sol"},
			Tools:      []string{"mythril", "solium"},
			Size:       1024,
			Digest:     database.Digest([]byte(ws)),
		})
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	return dir
}

// TestHistoryCmd tests listing recorded runs.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("no database yet", func(t *testing.T) {
		t.Parallel()
		out, err := runHistoryArgs(t, "--db-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No report runs recorded yet.") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("lists newest first", func(t *testing.T) {
		t.Parallel()
		out, err := runHistoryArgs(t, "--db-dir", seedHistory(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := strings.Index(out, "/work/first/")
		second := strings.Index(out, "/work/second/")
		if first < 0 || second < 0 || second > first {
			t.Errorf("expected both runs, newest first, got %q", out)
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()
		out, err := runHistoryArgs(t, "--db-dir", seedHistory(t), "-n", "1", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []database.RunRecord
		if err := json.Unmarshal([]byte(out), &runs); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(runs) != 1 || runs[0].Workspace != "/work/second" {
			t.Errorf("expected only the latest run, got %+v", runs)
		}
	})

	t.Run("shows one run", func(t *testing.T) {
		t.Parallel()
		out, err := runHistoryArgs(t, "--db-dir", seedHistory(t), "--id", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Run 1", "/work/first", "mythril, solium", database.Digest([]byte("/work/first"))} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()
		_, err := runHistoryArgs(t, "--db-dir", seedHistory(t), "--id", "99")
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})
}
