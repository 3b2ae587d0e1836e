package main

import (
	"os"
	"path/filepath"
	"testing"
)

const cleanDocument = `---
layout: post
title: Optional Chaining in Practice
---

# Optional Chaining in Practice

A [useful reference](https://v8.dev/features/optional-chaining) and a fence:

` + "```js\nconst city = user?.address?.city;\n```" + `
`

const untitledDocument = `---
layout: post
author: example
---

Body without a title header.
`

func writeContentDir(t *testing.T, name, source string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func TestRunAuditCleanContentExitsZero(t *testing.T) {
	dir := writeContentDir(t, "2019-09-12-optional-chaining.md", cleanDocument)

	code, err := runAudit([]string{"-content-dir", dir})
	if err != nil {
		t.Fatalf("runAudit returned error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunAuditSchemaViolationFails(t *testing.T) {
	dir := writeContentDir(t, "untitled.md", untitledDocument)

	code, err := runAudit([]string{"-content-dir", dir})
	if err != nil {
		t.Fatalf("runAudit returned error: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1 for schema violation, got %d", code)
	}
}

func TestParseSeverity(t *testing.T) {
	if sev, err := parseSeverity("warn"); err != nil || sev != "warning" {
		t.Fatalf("expected warn to map to warning, got %q (%v)", sev, err)
	}
	if _, err := parseSeverity("fatal"); err == nil {
		t.Fatal("expected unknown severity to error")
	}
}
