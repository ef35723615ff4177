package email

import (
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/shopspring/decimal"
)

// PreviewData holds sample data for every template, used to render
// previews without a database.
var PreviewData = map[Template]any{
	TemplatePlanShare: &model.WeeklyPlan{
		Plan: model.Plan{
			ID:          1,
			Title:       "Lean week",
			Description: "High protein, low sugar",
			Objective:   "Lose 2kg",
		},
		WeeklyPlan: []model.WeeklyDay{
			{
				DayID: 1,
				Day:   "monday",
				Meals: []model.WeeklyMeal{
					{MomentID: 1, Moment: "breakfast", Food: &model.FoodSummary{ID: 3, Name: "Oatmeal", Price: decimal.RequireFromString("2.50")}},
					{MomentID: 2, Moment: "lunch"},
				},
			},
		},
	},
}

// Preview renders templateName with its PreviewData.
func Preview(templateName Template) (string, error) {
	return Render(templateName, PreviewData[templateName])
}
