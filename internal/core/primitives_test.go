package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apm-run/apm/internal/types"
)

func TestMergeCollectionsLocalShadowsDependency(t *testing.T) {
	local := types.PrimitiveCollection{
		Instructions: []types.Instruction{
			{Name: "go-style", ApplyTo: "**/*.go", SourcePath: "project/go-style.instructions.md"},
		},
	}
	dependency := types.PrimitiveCollection{
		Instructions: []types.Instruction{
			{Name: "go-style", ApplyTo: "**/*.go", SourcePath: "apm_modules/acme/shared/go-style.instructions.md"},
			{Name: "py-style", ApplyTo: "**/*.py", SourcePath: "apm_modules/acme/shared/py-style.instructions.md"},
		},
	}

	merged := MergeCollections(local, dependency)

	if len(merged.Instructions) != 2 {
		t.Fatalf("expected 2 merged instructions, got %d: %+v", len(merged.Instructions), merged.Instructions)
	}
	for _, inst := range merged.Instructions {
		if inst.Name != "go-style" {
			continue
		}
		if diff := cmp.Diff("project/go-style.instructions.md", inst.SourcePath); diff != "" {
			t.Fatalf("local go-style should have shadowed dependency's copy (-want +got):\n%s", diff)
		}
	}
}

func TestMergeCollectionsDeterministicOrder(t *testing.T) {
	a := types.PrimitiveCollection{
		Chatmodes: []types.Chatmode{{Name: "z", SourcePath: "z.chatmode.md"}},
	}
	b := types.PrimitiveCollection{
		Chatmodes: []types.Chatmode{{Name: "a", SourcePath: "a.chatmode.md"}},
	}

	merged := MergeCollections(a, b)
	if diff := cmp.Diff([]string{"a.chatmode.md", "z.chatmode.md"}, []string{merged.Chatmodes[0].SourcePath, merged.Chatmodes[1].SourcePath}); diff != "" {
		t.Fatalf("expected sorted output regardless of merge order (-want +got):\n%s", diff)
	}
}

func TestMergeCollectionsEmpty(t *testing.T) {
	merged := MergeCollections()
	if len(merged.Chatmodes) != 0 || len(merged.Instructions) != 0 || len(merged.Contexts) != 0 || len(merged.Workflows) != 0 {
		t.Fatalf("expected empty collection, got %+v", merged)
	}
}
