package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jack/project"
)

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFmtCmdStdin(t *testing.T) {
	out, err := execute(t, newFmtCmd(), "class A{field int x;}")
	if err != nil {
		t.Fatalf("fmt error: %v", err)
	}
	if diff := cmp.Diff("class A {\n    field int x;\n}\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFmtCmdWrite(t *testing.T) {
	path := writeJack(t, filepath.Join(t.TempDir(), "A.jack"), "class A{field int x;}")
	if _, err := execute(t, newFmtCmd(), "", "-w", path); err != nil {
		t.Fatalf("fmt -w error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("class A {\n    field int x;\n}\n", string(got)); diff != "" {
		t.Errorf("rewritten file mismatch (-want +got):\n%s", diff)
	}
}

func TestFmtCmdRejects(t *testing.T) {
	if _, err := execute(t, newFmtCmd(), "class A {}", "-w"); err == nil {
		t.Error("fmt -w without a file succeeded")
	}
	if _, err := execute(t, newFmtCmd(), "", "A.java"); err == nil {
		t.Error("fmt accepted a non-.jack file")
	}
}

func TestTokensCmd(t *testing.T) {
	out, err := execute(t, newTokensCmd(), "let x")
	if err != nil {
		t.Fatalf("tokens error: %v", err)
	}
	want := "1:1-1:4\tlet\n" +
		"1:5-1:6\tIdentifier\t\"x\"\n" +
		"1:6-1:6\tEOF\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTokensCmdLenient(t *testing.T) {
	out, err := execute(t, newTokensCmd(), "x #")
	if err == nil {
		t.Fatal("tokens succeeded on an unrecognized character")
	}
	if !strings.Contains(err.Error(), "<stdin>:1:3: unrecognized character '#'") {
		t.Errorf("error = %v", err)
	}
	if !strings.HasPrefix(out, "1:1-1:2\tIdentifier\t\"x\"\n") {
		t.Errorf("tokens before the error were not printed:\n%s", out)
	}

	if _, err := execute(t, newTokensCmd(), "x #", "--lenient"); err != nil {
		t.Errorf("lenient tokens error: %v", err)
	}
}

func TestParseCmd(t *testing.T) {
	out, err := execute(t, newParseCmd(), "class A {}", "-f", "tree")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := "Class [1:1-1:11]\n  Identifier \"A\" [1:7-1:8]\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if _, err := execute(t, newParseCmd(), "class A {}", "-f", "xml"); err == nil {
		t.Error("parse accepted an unknown format")
	}
	if _, err := execute(t, newParseCmd(), "class A {"); err == nil {
		t.Error("parse accepted an unterminated class")
	}
}

func TestInitCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "game")
	out, err := execute(t, newInitCmd(), "", dir)
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	path := filepath.Join(dir, project.ConfigFile)
	if out != "Created "+path+"\n" {
		t.Errorf("output = %q", out)
	}

	proj, err := project.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(project.Default(), proj.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := execute(t, newInitCmd(), "", dir); err == nil {
		t.Error("init overwrote an existing jack.toml")
	}
}

func TestGrammarCmd(t *testing.T) {
	out, err := execute(t, newGrammarCmd(), "", "--check")
	if err != nil {
		t.Fatalf("grammar --check error: %v", err)
	}
	if !strings.HasPrefix(out, "29 productions, start Class\n") {
		t.Errorf("summary = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "\n  WhileStatement\n") {
		t.Errorf("production list lacks WhileStatement:\n%s", out)
	}

	src, err := execute(t, newGrammarCmd(), "")
	if err != nil {
		t.Fatalf("grammar error: %v", err)
	}
	if !strings.HasPrefix(src, "Class ") {
		t.Errorf("grammar source starts with %q", strings.SplitN(src, "\n", 2)[0])
	}
}
