package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func gather(t *testing.T, r *Registry) string {
	t.Helper()
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 32<<10)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestObserveOperation(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ObserveOperation("add", 2*time.Millisecond, nil)
	r.ObserveOperation("add", time.Millisecond, nil)
	r.ObserveOperation("div", time.Millisecond, errors.New("division by zero"))

	got := gather(t, r)
	for _, want := range []string{
		`abacus_operations_total{op="add",outcome="ok"} 2`,
		`abacus_operations_total{op="div",outcome="error"} 1`,
		`abacus_operation_duration_seconds_count{op="add"} 2`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestRecordMulPath(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RecordMulPath("schoolbook")
	r.RecordMulPath("schoolbook")
	r.RecordMulPath("ntt")

	got := gather(t, r)
	if !strings.Contains(got, `abacus_mul_path_total{path="schoolbook"} 2`) {
		t.Errorf("schoolbook path count missing:\n%s", got)
	}
	if !strings.Contains(got, `abacus_mul_path_total{path="ntt"} 1`) {
		t.Error("ntt path count missing")
	}
}

func TestUpdateMemory(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.UpdateMemory(MemorySnapshot{HeapAlloc: 12345})
	if got := gather(t, r); !strings.Contains(got, "abacus_heap_alloc_bytes 12345") {
		t.Errorf("heap gauge not updated:\n%s", got)
	}
}
