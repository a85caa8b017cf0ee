package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false) // json=true, tty=false

	data := map[string]any{
		"tex_path": "out/cv.tex",
		"compiler": "tectonic",
	}

	if err := printer.Success(data); err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}

	if result["tex_path"] != "out/cv.tex" {
		t.Errorf("tex_path = %v, want %q", result["tex_path"], "out/cv.tex")
	}
	if result["compiler"] != "tectonic" {
		t.Errorf("compiler = %v, want %q", result["compiler"], "tectonic")
	}
}

func TestPrinter_JSON_Error(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(NewError("data file not found: cv.yaml"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}

	if result["error"] != "data file not found: cv.yaml" {
		t.Errorf("error = %v", result["error"])
	}
	if code, ok := result["code"].(float64); !ok || int(code) != ExitFailure {
		t.Errorf("code = %v, want %d", result["code"], ExitFailure)
	}
	if _, ok := result["detail"]; ok {
		t.Error("detail should be omitted when empty")
	}
}

func TestPrinter_JSON_ErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(NewError("tectonic failed with exit code 1").WithDetail("! Undefined control sequence."))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["detail"] != "! Undefined control sequence." {
		t.Errorf("detail = %v", result["detail"])
	}
}

func TestPrinter_Human_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	if err := printer.Success(map[string]any{"message": "PDF generated: out/cv.pdf"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	if !strings.Contains(buf.String(), "PDF generated: out/cv.pdf") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Human_SuccessSortedKeys(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	if err := printer.Success(map[string]any{"b": 2, "a": 1}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	if buf.String() != "a: 1\nb: 2\n" {
		t.Errorf("output = %q, want sorted keys", buf.String())
	}
}

func TestPrinter_Human_ErrorToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printer := NewPrinter(&stdout, false, false).WithStderr(&stderr)

	printer.Error(NewError("latexmk failed with exit code 12").WithDetail("! Missing $ inserted."))

	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	out := stderr.String()
	if !strings.Contains(out, "Error: latexmk failed with exit code 12") {
		t.Errorf("stderr should contain the message: %q", out)
	}
	if !strings.Contains(out, "! Missing $ inserted.") {
		t.Errorf("stderr should contain the detail: %q", out)
	}
}

func TestPrinter_Progress(t *testing.T) {
	var stdout, stderr bytes.Buffer
	human := NewPrinter(&stdout, false, false).WithStderr(&stderr)
	human.Progress("Rendering template template.tex.j2...")

	if stdout.Len() != 0 {
		t.Errorf("progress went to stdout: %q", stdout.String())
	}
	if stderr.String() != "Rendering template template.tex.j2...\n" {
		t.Errorf("stderr = %q", stderr.String())
	}

	var jsonOut bytes.Buffer
	NewPrinter(&jsonOut, true, false).Progress("ignored")
	if jsonOut.Len() != 0 {
		t.Errorf("JSON mode should not print progress: %q", jsonOut.String())
	}
}

func TestPrinter_Print(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Print("Hello, %s!", "world")

	if buf.String() != "Hello, world!" {
		t.Errorf("output = %q, want %q", buf.String(), "Hello, world!")
	}
}

func TestPrinter_Println(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Println("Hello")

	if buf.String() != "Hello\n" {
		t.Errorf("output = %q, want %q", buf.String(), "Hello\n")
	}
}

func TestPrinter_IsJSON(t *testing.T) {
	var buf bytes.Buffer

	if !NewPrinter(&buf, true, false).IsJSON() {
		t.Error("IsJSON() should return true for JSON printer")
	}
	if NewPrinter(&buf, false, false).IsJSON() {
		t.Error("IsJSON() should return false for human printer")
	}
}

func TestPrinter_Warn(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Warn("%s already exists", "cv.yaml")

	out := buf.String()
	if !strings.Contains(out, "Warning") || !strings.Contains(out, "cv.yaml already exists") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	NewPrinter(&buf, true, false).Warn("skipped %d files", 2)

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["warning"] != "skipped 2 files" {
		t.Errorf("warning = %v", result["warning"])
	}
}

func TestPrinter_WriteJSON_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, true, false).WriteJSON(map[string]string{"out": `50\% \& Co`}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `\\& Co`) {
		t.Errorf("ampersand should not be HTML-escaped: %s", buf.String())
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table([]string{"Name", "Status"}, [][]string{
		{"tectonic", "available"},
		{"latexmk", "missing"},
	})

	want := "Name      Status\ntectonic  available\nlatexmk   missing\n"
	if buf.String() != want {
		t.Errorf("Table() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestPrinter_KeyValue(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).KeyValue("Compiler", "tectonic")

	if buf.String() != "Compiler: tectonic\n" {
		t.Errorf("KeyValue() = %q", buf.String())
	}
}

func TestErrorJSON_Format(t *testing.T) {
	var result map[string]any
	if err := json.Unmarshal(ErrorJSON("boom", ExitFailure, ""), &result); err != nil {
		t.Fatalf("ErrorJSON produced invalid JSON: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("ErrorJSON keys = %v, want error and code only", result)
	}
}
