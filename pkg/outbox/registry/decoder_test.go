package registry

import (
	"encoding/json"
	"testing"

	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
)

func TestDecoderRegistry(t *testing.T) {
	reg := NewDecoderRegistry()
	reg.Register(enums.EventUserRegistered, 1, func(payload json.RawMessage) (interface{}, error) {
		var decoded map[string]string
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	})

	input := json.RawMessage(`{"email":"buyer@example.com"}`)
	output, err := reg.Decode(enums.EventUserRegistered, 1, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outMap, ok := output.(map[string]string); !ok || outMap["email"] != "buyer@example.com" {
		t.Fatalf("unexpected output %+v", output)
	}
}

func TestDecoderRegistryUnknownVersion(t *testing.T) {
	reg := NewDecoderRegistry()
	if _, err := reg.Decode(enums.EventOrderCreated, 2, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unregistered decoder")
	}
}
