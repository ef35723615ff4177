package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNutritionRound(t *testing.T) {
	n := Nutrition{Calories: 1.005, Protein: 2.344, Carbs: -0.125, Fiber: 0.004}.Round()

	assert.Equal(t, 1.01, n.Calories)
	assert.Equal(t, 2.34, n.Protein)
	assert.Equal(t, -0.13, n.Carbs)
	assert.Equal(t, 0.0, n.Fiber)
}
