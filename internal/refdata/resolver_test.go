package refdata

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/report"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func testMaterials() []model.Material {
	return []model.Material{
		{MaterialID: "MAT-ETH", Name: "Perfumer's Alcohol", IngredientMatch: "perfumers alcohol",
			CostPerML: nd("0.004"), HasKnownCost: true},
		{MaterialID: "MAT-OUD", Name: "Oud Resin", IngredientMatch: "oud resin",
			HasKnownCost: false},
		{MaterialID: "MAT-BTL-30", Name: "Bottle 30ml", IngredientMatch: "bottle 30ml",
			CostPerUnit: nd("1.15"), HasKnownCost: true},
	}
}

func TestNormalizeIngredient(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Oud Resin", "oud resin"},
		{"  oud   RESIN ", "oud resin"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeIngredient(tt.in); got != tt.want {
			t.Errorf("NormalizeIngredient(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildResolvesByMaterialID(t *testing.T) {
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "something unrelated", Percent: nd("0.80"), MaterialID: "MAT-ETH"},
	}

	rep := report.New()
	r := Build(nil, testMaterials(), recipes, rep)

	ingredients, ok := r.Recipe("R-OUD", 30)
	if !ok || len(ingredients) != 1 {
		t.Fatalf("Expected 1 ingredient, got %d (ok=%v)", len(ingredients), ok)
	}
	wantKey, _ := r.MaterialKeyByID("MAT-ETH")
	if ingredients[0].MaterialKey != wantKey {
		t.Errorf("Expected material id to take precedence, got key %d", ingredients[0].MaterialKey)
	}
}

func TestBuildResolvesByIngredientMatch(t *testing.T) {
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "  OUD resin ", Percent: nd("0.20")},
	}

	r := Build(nil, testMaterials(), recipes, report.New())

	ingredients, _ := r.Recipe("R-OUD", 30)
	wantKey, _ := r.MaterialKeyByID("MAT-OUD")
	if ingredients[0].MaterialKey != wantKey {
		t.Errorf("Expected normalized name match, got key %d", ingredients[0].MaterialKey)
	}
}

func TestBuildUnresolvedIngredient(t *testing.T) {
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "unicorn tears", Percent: nd("0.05")},
	}

	rep := report.New()
	r := Build(nil, testMaterials(), recipes, rep)

	ingredients, _ := r.Recipe("R-OUD", 30)
	if ingredients[0].MaterialKey != NoMaterial {
		t.Errorf("Expected NoMaterial, got %d", ingredients[0].MaterialKey)
	}
	if n := rep.Count(report.UnresolvedReference); n != 1 {
		t.Errorf("Expected 1 unresolved-reference finding, got %d", n)
	}
}

func TestBuildSkipsNonFinalVariants(t *testing.T) {
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "tester", BatchSizeML: 30,
			IngredientMatch: "perfumers alcohol", Percent: nd("0.80")},
	}

	r := Build(nil, testMaterials(), recipes, report.New())
	if _, ok := r.Recipe("R-OUD", 30); ok {
		t.Error("Expected tester variant to be excluded from costing")
	}
}

func TestBuildReportsKnownUnknownCosts(t *testing.T) {
	rep := report.New()
	Build(nil, testMaterials(), nil, rep)

	if n := rep.Count(report.KnownUnknownCost); n != 1 {
		t.Errorf("Expected 1 known-unknown-cost finding, got %d", n)
	}
}

func TestProductLookups(t *testing.T) {
	skuMap := []model.SKUMapping{
		{InternalSKU: "AKH-OUD-30", LineItemName: "Royal Oud - 30ml", RecipeID: "R-OUD", SizeML: 30},
	}

	r := Build(skuMap, nil, nil, report.New())

	if m, ok := r.ProductByLineItem("Royal Oud - 30ml"); !ok || m.InternalSKU != "AKH-OUD-30" {
		t.Errorf("ProductByLineItem failed: %+v ok=%v", m, ok)
	}
	if _, ok := r.ProductByLineItem("Unknown Product"); ok {
		t.Error("Expected miss for unmapped line item")
	}
	if m, ok := r.ProductBySKU("AKH-OUD-30"); !ok || m.SizeML != 30 {
		t.Errorf("ProductBySKU failed: %+v ok=%v", m, ok)
	}
}

func TestRecipeBatchSizesAreDistinct(t *testing.T) {
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "perfumers alcohol", Percent: nd("0.80")},
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 50,
			IngredientMatch: "perfumers alcohol", Percent: nd("0.80")},
	}

	r := Build(nil, testMaterials(), recipes, report.New())

	if ing, ok := r.Recipe("R-OUD", 30); !ok || len(ing) != 1 {
		t.Errorf("Expected 30ml recipe with 1 ingredient, got %d (ok=%v)", len(ing), ok)
	}
	if ing, ok := r.Recipe("R-OUD", 50); !ok || len(ing) != 1 {
		t.Errorf("Expected 50ml recipe with 1 ingredient, got %d (ok=%v)", len(ing), ok)
	}
	if _, ok := r.Recipe("R-OUD", 100); ok {
		t.Error("Expected miss for unknown batch size")
	}
}
