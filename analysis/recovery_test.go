package analysis

import (
	"reflect"
	"testing"
)

func TestRecoverJSONFencedWithTrailingComma(t *testing.T) {
	raw := "```json\n{\"a\":1,}\n```"

	obj := RecoverJSON(raw)
	if obj == nil {
		t.Fatal("Expected recovered object, got nil")
	}

	expected := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(obj, expected) {
		t.Errorf("Expected %v, got %v", expected, obj)
	}
}

func TestRecoverJSONProseWrapped(t *testing.T) {
	raw := "Sure! Here is the result: ```json {\"medicines\": [], \"interactions\": [], \"note\": \"x\"}``` Hope this helps!"

	obj := RecoverJSON(raw)
	if obj == nil {
		t.Fatal("Expected recovered object, got nil")
	}

	expected := map[string]any{
		"medicines":    []any{},
		"interactions": []any{},
		"note":         "x",
	}
	if !reflect.DeepEqual(obj, expected) {
		t.Errorf("Expected %v, got %v", expected, obj)
	}
}

func TestRecoverJSONNoBraces(t *testing.T) {
	inputs := []string{
		"",
		"no json here",
		"**Error:** Empty response from model.",
		"```json\n```",
		"}{",
	}

	for _, input := range inputs {
		if obj := RecoverJSON(input); obj != nil {
			t.Errorf("Expected nil for %q, got %v", input, obj)
		}
	}
}

func TestRecoverJSONSingleQuoteFallback(t *testing.T) {
	raw := "{'disease': 'Common cold', 'probability': 0.5}"

	obj := RecoverJSON(raw)
	if obj == nil {
		t.Fatal("Expected recovered object, got nil")
	}

	if obj["disease"] != "Common cold" {
		t.Errorf("Expected disease Common cold, got %v", obj["disease"])
	}
	if obj["probability"] != 0.5 {
		t.Errorf("Expected probability 0.5, got %v", obj["probability"])
	}
}

func TestRecoverJSONEquivalentToCleanInput(t *testing.T) {
	fenced := "```json\n{\"predictions\": [{\"disease\": \"Migraine\", \"probability\": 0.6,}],}\n```"
	clean := "{\"predictions\": [{\"disease\": \"Migraine\", \"probability\": 0.6}]}"

	fromFenced := RecoverJSON(fenced)
	fromClean := RecoverJSON(clean)

	if fromFenced == nil || fromClean == nil {
		t.Fatal("Expected both inputs to parse")
	}
	if !reflect.DeepEqual(fromFenced, fromClean) {
		t.Errorf("Fenced input %v differs from clean input %v", fromFenced, fromClean)
	}
}

func TestRecoverJSONNestedTrailingCommas(t *testing.T) {
	raw := "{\"medicines\": [{\"name\": \"Augmentin\", \"side_effects\": [\"nausea\",],},], \"note\": \"ok\",}"

	obj := RecoverJSON(raw)
	if obj == nil {
		t.Fatal("Expected recovered object, got nil")
	}

	medicines, ok := obj["medicines"].([]any)
	if !ok || len(medicines) != 1 {
		t.Fatalf("Expected one medicine, got %v", obj["medicines"])
	}
	if obj["note"] != "ok" {
		t.Errorf("Expected note ok, got %v", obj["note"])
	}
}

func TestRecoverJSONGarbageInsideBraces(t *testing.T) {
	if obj := RecoverJSON("{this is not json at all}"); obj != nil {
		t.Errorf("Expected nil for unparseable braces content, got %v", obj)
	}
}
