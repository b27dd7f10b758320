package warehouse

import (
	"github.com/shopspring/decimal"

	"github.com/akhdar/akhdar-bi/internal/model"
	"github.com/akhdar/akhdar-bi/internal/refdata"
)

// CogsEstimate is the costed recipe expansion for one unit of one
// product: the summed per-unit cost plus one detail record per
// ingredient. A single unknown-cost ingredient poisons the whole
// estimate's completeness flag; the known components are still reported
// individually in the details.
type CogsEstimate struct {
	EstimatedCOGS  decimal.Decimal
	HasMissingCost bool
	Details        []model.CogsDetail
}

// EstimateCOGS expands a product's recipe into ingredient quantities
// and prices them against the material arena. A product whose recipe
// cannot be found costs zero and is flagged incomplete.
func EstimateCOGS(res *refdata.Resolver, mapping model.SKUMapping) CogsEstimate {
	ingredients, ok := res.Recipe(mapping.RecipeID, mapping.SizeML)
	if !ok || len(ingredients) == 0 {
		return CogsEstimate{EstimatedCOGS: decimal.Zero, HasMissingCost: true}
	}

	est := CogsEstimate{EstimatedCOGS: decimal.Zero}
	batchSize := decimal.NewFromInt(int64(mapping.SizeML))

	for _, ing := range ingredients {
		detail := model.CogsDetail{
			IngredientName: ing.Name,
			AmountML:       ingredientAmount(ing, batchSize),
			LineCost:       decimal.Zero,
		}

		if ing.MaterialKey == refdata.NoMaterial {
			est.HasMissingCost = true
			est.Details = append(est.Details, detail)
			continue
		}

		mat := res.Material(ing.MaterialKey)
		detail.MaterialKey = ing.MaterialKey + 1 // dim keys are arena order, 1-based
		switch {
		case !mat.HasKnownCost:
			est.HasMissingCost = true
		case mat.CostPerML.Valid:
			detail.CostPerML = mat.CostPerML
			detail.LineCost = detail.AmountML.Mul(mat.CostPerML.Decimal)
			detail.HasKnownCost = true
		case mat.CostPerUnit.Valid:
			// Packaging is one unit per bottle regardless of volume.
			detail.CostPerML = mat.CostPerUnit
			detail.LineCost = mat.CostPerUnit.Decimal
			detail.HasKnownCost = true
		default:
			// Flagged known but carrying no usable figure.
			est.HasMissingCost = true
		}

		est.EstimatedCOGS = est.EstimatedCOGS.Add(detail.LineCost)
		est.Details = append(est.Details, detail)
	}

	return est
}

// ingredientAmount resolves an ingredient's absolute volume: a fixed
// amount when the sheet carries one, otherwise percent of the batch
// volume.
func ingredientAmount(ing refdata.Ingredient, batchSize decimal.Decimal) decimal.Decimal {
	if ing.AmountML.Valid {
		return ing.AmountML.Decimal
	}
	if ing.Percent.Valid {
		return ing.Percent.Decimal.Mul(batchSize)
	}
	return decimal.Zero
}
