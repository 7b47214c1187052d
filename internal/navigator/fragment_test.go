package navigator

import "testing"

// TestGrammarIDs tests id construction.
func TestGrammarIDs(t *testing.T) {
	t.Parallel()

	g := NewGrammar("")

	if got := g.TabID("mytoken"); got != "contract-tab-mytoken" {
		t.Errorf("unexpected tab id %q", got)
	}
	if got := g.NavButtonID("mytoken"); got != "contract-nav-button-mytoken" {
		t.Errorf("unexpected nav button id %q", got)
	}
	if got := g.ContentID("mytoken", "solidity-coverage"); got != "contract-content-mytoken-output-solidity-coverage" {
		t.Errorf("unexpected content id %q", got)
	}
	if got := Href("x"); got != "#x" {
		t.Errorf("unexpected href %q", got)
	}
	if got := NewGrammar("unit").TabID("a"); got != "unit-tab-a" {
		t.Errorf("unexpected custom token id %q", got)
	}
}

// TestGrammarParse tests fragment parsing.
func TestGrammarParse(t *testing.T) {
	t.Parallel()

	g := NewGrammar("")

	tests := []struct {
		name     string
		fragment string
		want     Event
	}{
		{
			name:     "outer",
			fragment: "#contract-tab-mytoken",
			want:     OuterSelect{Slug: "mytoken"},
		},
		{
			name:     "outer without hash",
			fragment: "contract-tab-mytoken",
			want:     OuterSelect{Slug: "mytoken"},
		},
		{
			name:     "outer with hyphenated slug",
			fragment: "#contract-tab-crowd-sale",
			want:     OuterSelect{Slug: "crowd-sale"},
		},
		{
			name:     "inner",
			fragment: "#contract-content-mytoken-output-flatten",
			want:     InnerSelect{Slug: "mytoken", Key: "flatten"},
		},
		{
			name:     "inner with hyphenated key",
			fragment: "#contract-content-crowd-sale-output-solidity-analyzer",
			want:     InnerSelect{Slug: "crowd-sale", Key: "solidity-analyzer"},
		},
		{
			name:     "unrecognized",
			fragment: "#random",
			want:     Unrecognized{Fragment: "#random"},
		},
		{
			name:     "nav button id is not a fragment",
			fragment: "#contract-nav-button-mytoken",
			want:     Unrecognized{Fragment: "#contract-nav-button-mytoken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := g.Parse(tt.fragment)
			switch want := tt.want.(type) {
			case InnerSelect:
				in, ok := got.(InnerSelect)
				if !ok {
					t.Fatalf("expected InnerSelect, got %#v", got)
				}
				if in.Slug != want.Slug || in.Key != want.Key {
					t.Errorf("expected %s/%s, got %s/%s", want.Slug, want.Key, in.Slug, in.Key)
				}
			default:
				if got != tt.want {
					t.Errorf("expected %#v, got %#v", tt.want, got)
				}
			}
		})
	}

	t.Run("ids round trip", func(t *testing.T) {
		t.Parallel()
		ev := g.Parse(Href(g.ContentID("vault", "mythril")))
		in, ok := ev.(InnerSelect)
		if !ok || in.Slug != "vault" || in.Key != "mythril" {
			t.Errorf("expected vault/mythril, got %#v", ev)
		}
		if out, ok := g.Parse(Href(g.TabID("vault"))).(OuterSelect); !ok || out.Slug != "vault" {
			t.Errorf("expected OuterSelect vault, got %#v", out)
		}
	})
}
