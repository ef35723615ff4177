package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/mealplanner/internal/model"
)

// SendPlanShareEmail mails the full weekly grid of plan to a recipient.
func (c *Client) SendPlanShareEmail(ctx context.Context, to string, plan *model.WeeklyPlan) error {
	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("Your meal plan: %s", plan.Title),
		TemplatePlanShare,
		plan,
	)
}
