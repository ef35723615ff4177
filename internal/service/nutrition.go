package service

import "github.com/deppfellow/mealplanner/internal/model"

// lineNutrition is the contribution of one ingredient line. Gram
// ingredients carry values per 100 g, unit ingredients per single unit.
func lineNutrition(line model.IngredientLine) model.Nutrition {
	factor := line.Quantity
	if line.MeasureType == model.MeasureGram {
		factor = line.Quantity / 100
	}
	return line.Nutrition.Scale(factor)
}

// sumLines is the weighted sum of every ingredient line.
func sumLines(lines []model.IngredientLine) model.Nutrition {
	var total model.Nutrition
	for _, line := range lines {
		total = total.Add(lineNutrition(line))
	}
	return total
}

// foodNutrition sums the food's ingredient lines, or falls back to its own
// per 100 g facts when it has none. The result is unrounded.
func foodNutrition(food model.Food, lines []model.IngredientLine) model.FoodNutrition {
	if len(lines) == 0 {
		return model.FoodNutrition{
			FoodID:    food.ID,
			Basis:     model.BasisPer100g,
			Nutrition: food.Per100g(),
		}
	}
	return model.FoodNutrition{
		FoodID:    food.ID,
		Basis:     model.BasisIngredients,
		Nutrition: sumLines(lines),
	}
}

// extraFoodNutrition prefers ingredient lines over declared facts. The
// result is unrounded.
func extraFoodNutrition(extra model.ExtraFood, lines []model.IngredientLine) (model.NutritionBasis, model.Nutrition) {
	if len(lines) == 0 {
		return model.BasisDeclared, extra.NutritionFacts.Resolve()
	}
	return model.BasisIngredients, sumLines(lines)
}
