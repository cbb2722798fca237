package extract

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/BalwinderCa/cvgenix/llamaparse"
)

func TestLlamaBackendMissingCredential(t *testing.T) {
	t.Setenv(llamaparse.EnvAPIKey, "")

	b := NewLlamaBackend(nil)

	start := time.Now()
	res, err := b.Extract(context.Background(), Request{FilePath: "resume.pdf"})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Extract() error = nil without credential")
	}
	if res.Success {
		t.Error("Success = true without credential")
	}
	if res.Err != "LLAMA_CLOUD_API_KEY environment variable not set" {
		t.Errorf("Err = %q, want the exact credential message", res.Err)
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("credential failure took %v, must be immediate", elapsed)
	}
}

func TestLlamaBackendInvalidSchema(t *testing.T) {
	b := NewLlamaBackend(nil)

	res, err := b.Extract(context.Background(), Request{FilePath: "resume.pdf", Schema: "{broken"})
	if err == nil {
		t.Fatal("Extract() error = nil for invalid schema")
	}
	if res.Success {
		t.Error("Success = true")
	}
	if !strings.Contains(res.Err, "invalid JSON schema format") {
		t.Errorf("Err = %q", res.Err)
	}
}

func TestOrchestratorIsolatesMissingCredential(t *testing.T) {
	t.Setenv(llamaparse.EnvAPIKey, "")
	path := writeTempPDF(t)

	// A local backend succeeds while the cloud backend fails on the missing
	// credential; the request as a whole must still succeed.
	local := successBackend("local", "plenty of resume content extracted locally")
	r := NewRegistry()
	r.Register(local)
	r.Register(NewLlamaBackend(nil))

	orch := NewOrchestrator(r, nil)
	report := orch.Extract(context.Background(), Request{FilePath: path, Format: FormatText})

	if !report.Success {
		t.Fatalf("Success = false: %s", report.Error)
	}
	if report.Method != "local" {
		t.Errorf("Method = %q", report.Method)
	}
	attempt := report.AllResults["llamaparse"]
	if attempt.Success {
		t.Error("cloud attempt recorded as success without credential")
	}
	if !strings.Contains(attempt.Error, "LLAMA_CLOUD_API_KEY") {
		t.Errorf("cloud attempt error = %q, must name the variable", attempt.Error)
	}
}

func TestLlamaBackendCanExtract(t *testing.T) {
	b := NewLlamaBackend(nil)
	if !b.CanExtract("resume.pdf") {
		t.Error("CanExtract rejected a PDF")
	}
	if b.CanExtract("resume.docx") {
		t.Error("CanExtract accepted a DOCX")
	}
}
