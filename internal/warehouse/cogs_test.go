package warehouse

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/refdata"
	"github.com/akhdar/akhdar-bi/internal/report"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestEstimateCOGSUnknownIngredientPoisons(t *testing.T) {
	// One ingredient at unknown cost and one at $0.03/ml, 2ml each: the
	// line is flagged incomplete but the known component still prices.
	materials := []model.Material{
		{MaterialID: "MAT-MYST", Name: "Mystery Musk", IngredientMatch: "mystery musk",
			HasKnownCost: false},
		{MaterialID: "MAT-CITRUS", Name: "Citrus Oil", IngredientMatch: "citrus oil",
			CostPerML: nd("0.03"), HasKnownCost: true},
	}
	recipes := []model.RecipeLine{
		{RecipeID: "R-X", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "mystery musk", AmountML: nd("2")},
		{RecipeID: "R-X", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "citrus oil", AmountML: nd("2")},
	}
	res := refdata.Build(nil, materials, recipes, report.New())

	est := EstimateCOGS(res, model.SKUMapping{RecipeID: "R-X", SizeML: 30})

	if !est.HasMissingCost {
		t.Error("Expected has_missing_cost true with an unknown ingredient")
	}
	if !est.EstimatedCOGS.Equal(dec("0.06")) {
		t.Errorf("Expected known component 0.06, got %s", est.EstimatedCOGS)
	}
	if len(est.Details) != 2 {
		t.Fatalf("Expected 2 detail records, got %d", len(est.Details))
	}
	if est.Details[0].HasKnownCost {
		t.Error("Expected unknown ingredient detail to be flagged unknown")
	}
	if !est.Details[1].HasKnownCost {
		t.Error("Expected known ingredient detail to be flagged known")
	}
	if !est.Details[1].LineCost.Equal(dec("0.06")) {
		t.Errorf("Expected detail line cost 0.06, got %s", est.Details[1].LineCost)
	}
}

func TestEstimateCOGSPercentOfBatch(t *testing.T) {
	materials := []model.Material{
		{MaterialID: "MAT-ETH", IngredientMatch: "perfumers alcohol",
			CostPerML: nd("0.004"), HasKnownCost: true},
	}
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "perfumers alcohol", Percent: nd("0.80")},
	}
	res := refdata.Build(nil, materials, recipes, report.New())

	est := EstimateCOGS(res, model.SKUMapping{RecipeID: "R-OUD", SizeML: 30})

	// 80% of 30ml at $0.004/ml.
	if !est.EstimatedCOGS.Equal(dec("0.096")) {
		t.Errorf("Expected 0.096, got %s", est.EstimatedCOGS)
	}
	if est.HasMissingCost {
		t.Error("Expected complete cost estimate")
	}
	if !est.Details[0].AmountML.Equal(dec("24")) {
		t.Errorf("Expected 24ml resolved amount, got %s", est.Details[0].AmountML)
	}
}

func TestEstimateCOGSPackagingPerUnit(t *testing.T) {
	materials := []model.Material{
		{MaterialID: "MAT-BTL", IngredientMatch: "bottle 30ml",
			CostPerUnit: nd("1.15"), HasKnownCost: true},
	}
	recipes := []model.RecipeLine{
		{RecipeID: "R-OUD", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "bottle 30ml", AmountML: nd("1")},
	}
	res := refdata.Build(nil, materials, recipes, report.New())

	est := EstimateCOGS(res, model.SKUMapping{RecipeID: "R-OUD", SizeML: 30})

	if !est.EstimatedCOGS.Equal(dec("1.15")) {
		t.Errorf("Expected 1.15, got %s", est.EstimatedCOGS)
	}
}

func TestEstimateCOGSMissingRecipe(t *testing.T) {
	res := refdata.Build(nil, nil, nil, report.New())

	est := EstimateCOGS(res, model.SKUMapping{RecipeID: "R-NONE", SizeML: 30})

	if !est.HasMissingCost {
		t.Error("Expected has_missing_cost true for missing recipe")
	}
	if !est.EstimatedCOGS.IsZero() {
		t.Errorf("Expected zero cogs, got %s", est.EstimatedCOGS)
	}
	if len(est.Details) != 0 {
		t.Errorf("Expected no details, got %d", len(est.Details))
	}
}

func TestEstimateCOGSUnresolvedMaterial(t *testing.T) {
	recipes := []model.RecipeLine{
		{RecipeID: "R-X", Variant: "final", BatchSizeML: 30,
			IngredientMatch: "unicorn tears", AmountML: nd("1")},
	}
	res := refdata.Build(nil, nil, recipes, report.New())

	est := EstimateCOGS(res, model.SKUMapping{RecipeID: "R-X", SizeML: 30})

	if !est.HasMissingCost {
		t.Error("Expected has_missing_cost true for unresolved material")
	}
	if len(est.Details) != 1 {
		t.Fatalf("Expected 1 detail record, got %d", len(est.Details))
	}
	if est.Details[0].MaterialKey != 0 {
		t.Errorf("Expected no material key on unresolved detail, got %d", est.Details[0].MaterialKey)
	}
}
