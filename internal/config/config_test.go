package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Server.Port != 20318 {
		t.Fatalf("unexpected default port %d", cfg.Server.Port)
	}
	if cfg.Schema.FuzzyThreshold != 0.6 {
		t.Fatalf("unexpected fuzzy threshold %v", cfg.Schema.FuzzyThreshold)
	}
	if cfg.Policy.GlobalSpareRatio != 0.15 || cfg.Policy.GlobalMinimum != 1 {
		t.Fatalf("unexpected policy defaults: %+v", cfg.Policy)
	}
	if cfg.Output.GroupOrder != GroupOrderFirstSeen {
		t.Fatalf("unexpected group order %q", cfg.Output.GroupOrder)
	}

	required := map[string]bool{}
	for _, f := range cfg.Schema.Fields {
		required[f.Name] = f.Required
	}
	for _, name := range []string{"equipment_id", "quantity_on_hand", "spare_quantity", "part_code", "part_description"} {
		if !required[name] {
			t.Fatalf("field %q should be required", name)
		}
	}
	if required["unit_price"] {
		t.Fatalf("unit_price should be optional")
	}
}

func TestSpareRatio(t *testing.T) {
	t.Parallel()

	p := PolicyConfig{
		GlobalSpareRatio: 0.15,
		PartRatios:       map[string]float64{"P-900": 0.5},
	}

	if got := p.SpareRatio("P-900"); got != 0.5 {
		t.Fatalf("per-part override want=0.5 got=%v", got)
	}
	if got := p.SpareRatio("P-100"); got != 0.15 {
		t.Fatalf("global ratio want=0.15 got=%v", got)
	}
}

func TestFieldByName(t *testing.T) {
	t.Parallel()

	schema := DefaultConfig().Schema

	field, ok := schema.FieldByName("part_code")
	if !ok || field.Name != "part_code" {
		t.Fatalf("part_code should exist")
	}
	if _, ok := schema.FieldByName("nope"); ok {
		t.Fatalf("unknown field should not be found")
	}
}

func TestConfigTomlRoundtrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Server.Port = 9000
	cfg.Policy.PartRatios["P-900"] = 0.5
	cfg.Output.GroupOrder = GroupOrderPriority
	cfg.Output.Priority = []string{"Press"}

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	loaded := DefaultConfig()
	if err := toml.Unmarshal(data, loaded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if loaded.Server.Port != 9000 {
		t.Fatalf("port did not survive roundtrip: %d", loaded.Server.Port)
	}
	if loaded.Policy.PartRatios["P-900"] != 0.5 {
		t.Fatalf("part ratios did not survive roundtrip: %v", loaded.Policy.PartRatios)
	}
	if loaded.Output.GroupOrder != GroupOrderPriority || len(loaded.Output.Priority) != 1 {
		t.Fatalf("output config did not survive roundtrip: %+v", loaded.Output)
	}
	if len(loaded.Schema.Fields) != len(cfg.Schema.Fields) {
		t.Fatalf("schema fields did not survive roundtrip")
	}
}
