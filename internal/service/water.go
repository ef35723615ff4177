package service

import (
	"context"
	"time"

	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/lib/utils"
	"github.com/deppfellow/mealplanner/internal/model"
)

// MaxWaterHistoryDays bounds GetWaterHistory, both ends included.
const MaxWaterHistoryDays = 366

// WaterStore is implemented by repository.WaterRepository.
type WaterStore interface {
	UpsertGoal(ctx context.Context, userID string, dailyGoalML int) (*model.WaterGoal, error)
	GetGoal(ctx context.Context, userID string) (*model.WaterGoal, error)
	LogConsumption(ctx context.Context, userID string, amountML int, consumedAt time.Time) (*model.WaterConsumption, error)
	DeleteConsumption(ctx context.Context, userID string, entryID int64) error
	ListConsumptions(ctx context.Context, userID string, from, to time.Time) ([]model.WaterConsumption, error)
	DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]model.WaterDayTotal, error)
}

// WaterService tracks daily water intake against a goal.
type WaterService struct {
	store WaterStore
	now   func() time.Time
}

func NewWaterService(store WaterStore) *WaterService {
	return &WaterService{store: store, now: time.Now}
}

// PutWaterGoal creates or replaces the goal.
func (s *WaterService) PutWaterGoal(ctx context.Context, userID string, dailyGoalML int) (*model.WaterGoal, error) {
	return s.store.UpsertGoal(ctx, userID, dailyGoalML)
}

func (s *WaterService) GetWaterGoal(ctx context.Context, userID string) (*model.WaterGoal, error) {
	return s.store.GetGoal(ctx, userID)
}

// LogWater records an intake; a nil consumedAt means now.
func (s *WaterService) LogWater(ctx context.Context, userID string, amountML int, consumedAt *time.Time) (*model.WaterConsumption, error) {
	at := s.now().UTC()
	if consumedAt != nil {
		at = consumedAt.UTC()
	}
	return s.store.LogConsumption(ctx, userID, amountML, at)
}

func (s *WaterService) DeleteWaterEntry(ctx context.Context, userID string, entryID int64) error {
	return s.store.DeleteConsumption(ctx, userID, entryID)
}

// GetDailyWater reports the intakes of the UTC day of date against the goal.
func (s *WaterService) GetDailyWater(ctx context.Context, userID string, date time.Time) (*model.DailyWater, error) {
	from := utils.StartOfDay(date)
	to := from.AddDate(0, 0, 1)

	entries, err := s.store.ListConsumptions(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	goal, err := s.optionalGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	daily := &model.DailyWater{
		Date:    from.Format(utils.DateLayout),
		Entries: entries,
		GoalML:  goal,
	}
	if daily.Entries == nil {
		daily.Entries = []model.WaterConsumption{}
	}
	for _, e := range entries {
		daily.TotalML += e.AmountML
	}

	if goal != nil && *goal > 0 {
		daily.RemainingML = max(*goal-daily.TotalML, 0)
		daily.Progress = float64(daily.TotalML) / float64(*goal)
	}

	return daily, nil
}

// GetWaterHistory returns one total per day from..to inclusive, days
// without intake reporting 0.
func (s *WaterService) GetWaterHistory(ctx context.Context, userID string, from, to time.Time) (*model.WaterHistory, error) {
	from = utils.StartOfDay(from)
	to = utils.StartOfDay(to)

	if to.Before(from) {
		return nil, errs.NewBadRequestError("'to' must not be before 'from'", true, nil, nil, nil)
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if days > MaxWaterHistoryDays {
		code := "HISTORY_RANGE_TOO_LARGE"
		return nil, errs.NewBadRequestError("History range must not exceed 366 days", true, &code, nil, nil)
	}

	totals, err := s.store.DailyTotals(ctx, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	goal, err := s.optionalGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int, len(totals))
	for _, t := range totals {
		byDate[t.Day.Format(utils.DateLayout)] = t.TotalML
	}

	history := &model.WaterHistory{
		From:   from.Format(utils.DateLayout),
		To:     to.Format(utils.DateLayout),
		GoalML: goal,
		Days:   make([]model.WaterDayTotal, 0, days),
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(utils.DateLayout)
		history.Days = append(history.Days, model.WaterDayTotal{
			Day:     d,
			Date:    date,
			TotalML: byDate[date],
		})
	}

	return history, nil
}

// optionalGoal returns nil when the user has no goal.
func (s *WaterService) optionalGoal(ctx context.Context, userID string) (*int, error) {
	goal, err := s.store.GetGoal(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &goal.DailyGoalML, nil
}
