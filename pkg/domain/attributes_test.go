package domain

import "testing"

func TestSpeciesTraitsLookup(t *testing.T) {
	if got := SpeciesChicken.BaseWeight(); got != 2.0 {
		t.Fatalf("chicken base weight = %v, want 2.0", got)
	}
	if got := SpeciesChicken.Product(); got != ProductEggs {
		t.Fatalf("chicken product = %v, want eggs", got)
	}
	if got := SpeciesCow.Product(); got != ProductMilk {
		t.Fatalf("cow product = %v, want milk", got)
	}
	if got := SpeciesSheep.Product(); got != ProductWool {
		t.Fatalf("sheep product = %v, want wool", got)
	}
	if SpeciesGoat.Icon() == "" {
		t.Fatalf("goat icon must be set")
	}
}

func TestSpeciesTraitsUnknown(t *testing.T) {
	var unknown Species = "dragon"
	if traits := unknown.Traits(); traits != (SpeciesTraits{}) {
		t.Fatalf("unknown species must yield zero traits, got %+v", traits)
	}
}

func TestAllSpeciesCovered(t *testing.T) {
	for _, sp := range AllSpecies() {
		if sp.Icon() == "" {
			t.Fatalf("species %s missing icon", sp)
		}
		if sp.Product() == "" {
			t.Fatalf("species %s missing product mapping", sp)
		}
	}
}

func TestCropTypeInfoLookup(t *testing.T) {
	if got := CropTomato.CommonName(); got != "Tomato" {
		t.Fatalf("tomato common name = %q", got)
	}
	if CropPumpkin.Emoji() == "" {
		t.Fatalf("pumpkin emoji must be set")
	}
	if info := CropType("kudzu").Info(); info != (CropTypeInfo{}) {
		t.Fatalf("unknown crop type must yield zero info, got %+v", info)
	}
}

func TestProductTypeDefaults(t *testing.T) {
	cases := map[ProductType]string{
		ProductEggs:  "pcs",
		ProductMilk:  "L",
		ProductMeat:  "kg",
		ProductWool:  "kg",
		ProductHoney: "kg",
	}
	for product, unit := range cases {
		if got := product.DefaultUnit(); got != unit {
			t.Fatalf("%s default unit = %q, want %q", product, got, unit)
		}
	}
}

func TestEventTypeInfoLookup(t *testing.T) {
	for _, et := range []EventType{
		EventVaccination, EventFeeding, EventHarvest, EventPlanting,
		EventMaintenance, EventBreeding, EventVeterinary, EventMarket, EventOther,
	} {
		info := et.Info()
		if info.Icon == "" || info.Color == "" {
			t.Fatalf("event type %s missing display attributes", et)
		}
	}
}
