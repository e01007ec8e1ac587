package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExtractCodeReturnsFirstFencedBlock(t *testing.T) {
	response := "Here you go:\n\n```rust\nfn a() {\n    1\n}\n```\n\nAnd another:\n```\nfn b() {}\n```\n"
	if got := ExtractCode(response); got != "fn a() {\n    1\n}" {
		t.Fatalf("expected first block body, got %q", got)
	}
}

func TestExtractCodeAcceptsAnyLanguageHint(t *testing.T) {
	for _, hint := range []string{"", "python", "go", "tsx"} {
		response := "```" + hint + "\nx = 1\n```"
		if got := ExtractCode(response); got != "x = 1" {
			t.Fatalf("hint %q: expected x = 1, got %q", hint, got)
		}
	}
}

func TestExtractCodeFallsBackToRawResponse(t *testing.T) {
	if got := ExtractCode("\n\n    def f():\n        pass\n\n"); got != "    def f():\n        pass" {
		t.Fatalf("expected raw response without surrounding blank lines, got %q", got)
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	got := Render("{structure_name} in {language}: {user_request}\n{structure_code}", Vars{
		StructureName: "foo",
		Language:      "rust",
		UserRequest:   "make it faster",
		StructureCode: "fn foo() {}",
	})
	want := "foo in rust: make it faster\nfn foo() {}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderAppendsFeedbackSection(t *testing.T) {
	got := Render("{user_request}", Vars{UserRequest: "fix", Feedback: "error[E0308]: mismatched types"})
	if !strings.HasPrefix(got, "fix\n\n") || !strings.HasSuffix(got, "error[E0308]: mismatched types") {
		t.Fatalf("expected feedback section appended, got %q", got)
	}

	inline := Render("{user_request} [{feedback}]", Vars{UserRequest: "fix", Feedback: "bad"})
	if inline != "fix [bad]" {
		t.Fatalf("expected inline feedback, got %q", inline)
	}
}

func TestDefaultRequestsCoverEveryMode(t *testing.T) {
	modes := RequestModes()
	if len(modes) != 6 {
		t.Fatalf("expected 6 default request templates, got %v", modes)
	}
	for _, mode := range modes {
		if !strings.Contains(DefaultRequests[mode], PlaceholderUserRequest) {
			t.Fatalf("template %s does not include the user request", mode)
		}
	}
}

func TestCommandClientBuildsFluentInvocation(t *testing.T) {
	var gotName, gotStdin string
	var gotArgs []string
	client := &CommandClient{
		Command: "fluent",
		Runner: func(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
			gotName, gotStdin, gotArgs = name, stdin, args
			return "```\nok\n```\n", "", nil
		},
	}

	out, err := client.Generate(context.Background(), Request{
		Flow:        "coder",
		Prompt:      "rewrite",
		ContextFile: "src/main.rs",
		Stdin:       "make it better",
		Parse:       true,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "```\nok\n```\n" {
		t.Fatalf("expected raw output, got %q", out)
	}
	want := []string{"coder", "rewrite", "--additional-context-file", "src/main.rs", "-p"}
	if gotName != "fluent" || strings.Join(gotArgs, "|") != strings.Join(want, "|") {
		t.Fatalf("expected fluent %v, got %s %v", want, gotName, gotArgs)
	}
	if gotStdin != "make it better" {
		t.Fatalf("expected instruction on stdin, got %q", gotStdin)
	}
}

func TestCommandClientFailures(t *testing.T) {
	cases := []struct {
		name   string
		stdout string
		err    error
		want   error
	}{
		{name: "exit status", err: errors.New("exit status 1"), want: nil},
		{name: "empty", stdout: "  \n", want: ErrEmptyResponse},
		{name: "invalid utf8", stdout: "\xff\xfe", want: ErrInvalidUTF8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &CommandClient{
				Command: "fluent",
				Runner: func(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
					return tc.stdout, "boom", tc.err
				},
			}
			_, err := client.Generate(context.Background(), Request{Flow: "f", Prompt: "p"})
			var genErr *GeneratorError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GeneratorError, got %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCommandClientTimeout(t *testing.T) {
	client := &CommandClient{
		Command: "fluent",
		Timeout: 10 * time.Millisecond,
		Runner: func(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
			<-ctx.Done()
			return "", "", ctx.Err()
		},
	}
	_, err := client.Generate(context.Background(), Request{Flow: "f", Prompt: "p"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
