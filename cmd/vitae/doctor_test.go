package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDoctor_JSON(t *testing.T) {
	dir := isolate(t)
	writeProject(t, dir)
	fakeCompilers(t, "latexmk")

	stdout, _, err := execute(t, "doctor", "--json")
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}

	var result doctorResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if result.Summary.Failed != 0 {
		t.Errorf("Failed = %d, want 0: %+v", result.Summary.Failed, result)
	}
	if result.Summary.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1 (tectonic missing)", result.Summary.Warnings)
	}
	if len(result.Inputs) != 2 {
		t.Errorf("Inputs = %+v, want data and template checks", result.Inputs)
	}
}

func TestGatherDoctorChecks(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		template   string
		compilers  []string
		compiler   string
		wantFailed []string
	}{
		{
			name:      "all good",
			data:      "name: x\n",
			template:  `\VAR{name}`,
			compilers: []string{"tectonic"},
		},
		{
			name:       "missing inputs",
			compilers:  []string{"tectonic"},
			wantFailed: []string{"data", "template"},
		},
		{
			name:       "data root is a list",
			data:       "- a\n",
			template:   `\VAR{name}`,
			compilers:  []string{"tectonic"},
			wantFailed: []string{"data"},
		},
		{
			name:       "malformed template",
			data:       "name: x\n",
			template:   `\BLOCK{if name}unclosed`,
			compilers:  []string{"tectonic"},
			wantFailed: []string{"template"},
		},
		{
			name:       "no compiler",
			data:       "name: x\n",
			template:   `\VAR{name}`,
			wantFailed: []string{"compiler"},
		},
		{
			name:       "forced compiler missing",
			data:       "name: x\n",
			template:   `\VAR{name}`,
			compilers:  []string{"tectonic"},
			compiler:   "latexmk",
			wantFailed: []string{"compiler"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.data != "" {
				writeFile(t, dir, "cv.yaml", tt.data)
			}
			if tt.template != "" {
				writeFile(t, dir, "template.tex.j2", tt.template)
			}
			fakeCompilers(t, tt.compilers...)
			if tt.compiler != "" {
				t.Setenv("VITAE_COMPILER", tt.compiler)
			}

			stdout, _, err := execute(t, "doctor", "--json")
			if err != nil {
				t.Fatalf("doctor failed: %v", err)
			}
			var result doctorResult
			if err := json.Unmarshal([]byte(stdout), &result); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, stdout)
			}

			var failed []string
			for _, check := range append(result.Inputs, result.Compilers...) {
				if check.Status == checkFail {
					failed = append(failed, check.Name)
				}
			}
			if strings.Join(failed, ",") != strings.Join(tt.wantFailed, ",") {
				t.Errorf("failed checks = %v, want %v", failed, tt.wantFailed)
			}
		})
	}
}

func TestDoctor_Human(t *testing.T) {
	dir := isolate(t)
	writeProject(t, dir)
	fakeCompilers(t)

	stdout, _, err := execute(t, "doctor", "--quiet")
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}

	for _, want := range []string{"vitae doctor", "COMPILERS", "XX  compiler", "1 failed"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "INPUTS") {
		t.Errorf("--quiet should hide an all-pass section:\n%s", stdout)
	}
}
