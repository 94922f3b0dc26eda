package render

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains []string
	}{
		{
			name:     "heading and list",
			content:  "# Welcome\n\n- one\n- two\n",
			contains: []string{`<h1 id="welcome">Welcome</h1>`, "<li>one</li>", "<li>two</li>"},
		},
		{
			name:     "emphasis",
			content:  "Some **bold** text",
			contains: []string{"<strong>bold</strong>"},
		},
		{
			name:     "raw html passes through",
			content:  "<p class=\"lead\">Hello</p>",
			contains: []string{`<p class="lead">Hello</p>`},
		},
		{
			name:     "gfm table",
			content:  "| a | b |\n|---|---|\n| 1 | 2 |\n",
			contains: []string{"<table>", "<td>1</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTML(tt.content)
			if err != nil {
				t.Fatalf("HTML() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Expected %q in output:\n%s", want, got)
				}
			}
		})
	}
}
