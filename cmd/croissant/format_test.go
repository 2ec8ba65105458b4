package main

import (
	"bytes"
	"strings"
	"testing"

	"croissant/internal/batch"
)

func sampleReport() *batch.Report {
	two := 2
	return &batch.Report{
		RunID:  "5f0c0a6e-0000-4000-8000-000000000000",
		Source: "requests.txt",
		Chain:  []string{"+", "-"},
		Style:  "standard",
		Results: []batch.Line{
			{Line: 1, Expr: "5 - 3", Status: batch.StatusHandled, Value: &two, Output: "5-3= 2"},
			{Line: 2, Expr: "2 * 4", Status: batch.StatusUnhandled},
			{Line: 4, Expr: "x", Status: batch.StatusFailed, Code: "INVALID_INPUT", Error: "bad"},
		},
		Stats: batch.Stats{Total: 3, Handled: 1, Unhandled: 1, Failed: 1},
	}
}

func TestFormatReportHuman(t *testing.T) {
	var buf bytes.Buffer
	got := formatReportHuman(sampleReport(), newStyles(&buf, false))

	wantLines := []string{
		"Batch report  requests.txt",
		"Run:    5f0c0a6e-0000-4000-8000-000000000000",
		"Chain:  + -",
		"Style:  standard",
		"     1  5 - 3  5-3= 2",
		"     2  2 * 4  unhandled",
		"     4  x      INVALID_INPUT: bad",
		"3 requests: 1 handled, 1 unhandled, 1 failed",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("plain output should carry no escape codes:\n%q", got)
	}
}

func TestFormatReportHuman_Color(t *testing.T) {
	var buf bytes.Buffer
	got := formatReportHuman(sampleReport(), newStyles(&buf, true))

	if !strings.Contains(got, "\x1b[") {
		t.Errorf("colored output should carry escape codes:\n%q", got)
	}
}

func TestFormatReportHuman_StrictAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	got := formatReportHuman(&batch.Report{Strict: true, Style: "legacy"}, newStyles(&buf, false))

	if !strings.Contains(got, "Chain:  (empty)") {
		t.Errorf("empty chain should be labeled:\n%s", got)
	}
	if !strings.Contains(got, "Style:  legacy (strict)") {
		t.Errorf("strict mode should be shown:\n%s", got)
	}
	if !strings.Contains(got, "0 requests: 0 handled, 0 unhandled, 0 failed") {
		t.Errorf("summary missing:\n%s", got)
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer

	if !useColor("always", &buf) {
		t.Error("always should enable color")
	}
	if useColor("never", &buf) {
		t.Error("never should disable color")
	}
	if useColor("auto", &buf) {
		t.Error("auto should not color a buffer")
	}
}
