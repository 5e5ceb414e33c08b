package domain_test

import (
	"testing"

	"golang-chat-blast/internal/domain"
)

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	ctx := map[string]string{"nome": "Ana", "empresa": "Acme"}

	tests := []struct {
		name string
		tmpl string
		ctx  map[string]string
		want string
	}{
		{
			name: "plain text untouched",
			tmpl: "no placeholders here",
			ctx:  ctx,
			want: "no placeholders here",
		},
		{
			name: "case insensitive placeholders",
			tmpl: "Hello {Nome} from {EMPRESA}",
			ctx:  ctx,
			want: "Hello Ana from Acme",
		},
		{
			name: "unmatched placeholder renders empty",
			tmpl: "Hi {nome} of {cidade}",
			ctx:  ctx,
			want: "Hi Ana of ",
		},
		{
			name: "nil context blanks everything",
			tmpl: "{nome}{empresa}",
			ctx:  nil,
			want: "",
		},
		{
			name: "repeated placeholder",
			tmpl: "{nome}, yes you, {nome}",
			ctx:  ctx,
			want: "Ana, yes you, Ana",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := domain.RenderTemplate(tt.tmpl, tt.ctx)
			if got != tt.want {
				t.Fatalf("RenderTemplate(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestRenderTemplateIdempotent(t *testing.T) {
	t.Parallel()

	ctx := map[string]string{"nome": "Ana"}
	once := domain.RenderTemplate("Hi {nome}", ctx)
	twice := domain.RenderTemplate(once, ctx)
	if once != twice {
		t.Fatalf("rendering is not idempotent: %q vs %q", once, twice)
	}
}
