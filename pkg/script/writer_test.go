package script

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/contentfactory-ai/platform/pkg/common/logger"
	"github.com/contentfactory-ai/platform/pkg/common/models"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestGenerateWithoutAPIKeyUsesTemplate(t *testing.T) {
	writer := NewWriter("", "command-r-08-2024", nil)

	script, err := writer.Generate(context.Background(), models.Product{
		Name:        "Wireless Earbuds",
		Description: "Noise cancelling with 24h battery",
		Price:       "$59.99",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	for _, want := range []string{"Wireless Earbuds", "$59.99", "Noise cancelling"} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
	if !strings.Contains(script, "Tap the link") {
		t.Errorf("script missing call to action:\n%s", script)
	}
}

func TestGenerateEmptyName(t *testing.T) {
	writer := NewWriter("", "command-r-08-2024", nil)

	_, err := writer.Generate(context.Background(), models.Product{Name: "   "})
	if !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("err = %v, want ErrEmptyScript", err)
	}
}

func TestTemplateScriptOmitsEmptySections(t *testing.T) {
	script, err := templateScript(models.Product{Name: "Mystery Box"})
	if err != nil {
		t.Fatalf("templateScript returned error: %v", err)
	}
	if strings.Contains(script, "only") {
		t.Errorf("script mentions price without one:\n%s", script)
	}
	if !strings.Contains(script, "Mystery Box") {
		t.Errorf("script missing product name:\n%s", script)
	}
}

func TestTemplateScriptTruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("a", 400)
	script, err := templateScript(models.Product{Name: "Gadget", Description: long})
	if err != nil {
		t.Fatalf("templateScript returned error: %v", err)
	}
	if strings.Contains(script, strings.Repeat("a", 181)) {
		t.Error("description was not truncated")
	}
}

func TestTemplateScriptTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", 200)
	script, err := templateScript(models.Product{Name: "Kaffeemühle", Description: long})
	if err != nil {
		t.Fatalf("templateScript returned error: %v", err)
	}
	if !utf8.ValidString(script) {
		t.Error("truncation split a multi-byte character")
	}
	if strings.Contains(script, strings.Repeat("ü", 181)) {
		t.Error("description was not truncated")
	}
}

func TestNewWriterClientConstruction(t *testing.T) {
	if w := NewWriter("", "command-r-08-2024", nil); w.client != nil {
		t.Error("writer without an API key constructed a client")
	}
	if w := NewWriter("test-key", "command-r-08-2024", &http.Client{}); w.client == nil {
		t.Error("writer with an API key did not construct a client")
	}
}
