package vanilla

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSServesStylesheetAndUploadScript(t *testing.T) {
	css, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(css), "--bf-primary-color") {
		t.Fatalf("expected stylesheet to consume theme variables")
	}

	js, err := fs.ReadFile(AssetsFS(), UploadScriptName)
	if err != nil {
		t.Fatalf("expected upload script to be readable: %v", err)
	}
	if !strings.Contains(string(js), "/uploads/") || !strings.Contains(string(js), "data-max-bytes") {
		t.Fatalf("expected upload script to post to the upload route with the rendered size limit")
	}

	form, err := fs.ReadFile(AssetsFS(), FormScriptName)
	if err != nil {
		t.Fatalf("expected form script to be readable: %v", err)
	}
	if !strings.Contains(string(form), "data-first-invalid") {
		t.Fatalf("expected form script to scroll to the first invalid field")
	}
}

func TestTemplatesFSIncludesComponents(t *testing.T) {
	for _, name := range []string{"heading", "input", "number", "textarea", "select", "toggle", "upload", "qrcode"} {
		if _, err := fs.Stat(TemplatesFS(), "templates/components/"+name+".tmpl"); err != nil {
			t.Fatalf("component template %q missing: %v", name, err)
		}
	}
}
