package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/deppfellow/mealplanner/internal/errs"
	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var (
	testDays = []model.WeekDay{
		{ID: 1, Name: "monday"}, {ID: 2, Name: "tuesday"}, {ID: 3, Name: "wednesday"},
		{ID: 4, Name: "thursday"}, {ID: 5, Name: "friday"}, {ID: 6, Name: "saturday"},
		{ID: 7, Name: "sunday"},
	}
	testMoments = []model.MealMoment{
		{ID: 1, Name: "breakfast", Position: 1},
		{ID: 2, Name: "lunch", Position: 2},
		{ID: 3, Name: "snack", Position: 3},
		{ID: 4, Name: "dinner", Position: 4},
	}
)

func noRows(table string) error {
	return fmt.Errorf("failed to collect row from table:%s: %w", table, pgx.ErrNoRows)
}

type fakeCatalog struct {
	dayCalls int
}

func (f *fakeCatalog) ListDays(ctx context.Context) ([]model.WeekDay, error) {
	f.dayCalls++
	return testDays, nil
}

func (f *fakeCatalog) ListMoments(ctx context.Context) ([]model.MealMoment, error) {
	return testMoments, nil
}

type slotKey struct {
	planID   int64
	dayID    int
	momentID int
}

type fakePlans struct {
	plans     map[int64]*model.Plan
	slots     map[slotKey]int64
	foods     map[int64]model.Food
	nextID    int64
	generated []model.PlanSlot
	assigned  map[string]int64
}

func newFakePlans(foods ...model.Food) *fakePlans {
	f := &fakePlans{
		plans:    map[int64]*model.Plan{},
		slots:    map[slotKey]int64{},
		foods:    map[int64]model.Food{},
		nextID:   1,
		assigned: map[string]int64{},
	}
	for _, food := range foods {
		f.foods[food.ID] = food
	}
	return f
}

func (f *fakePlans) ListPlans(ctx context.Context) ([]model.Plan, error) {
	out := []model.Plan{}
	for _, p := range f.plans {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlans) GetPlanByID(ctx context.Context, planID int64) (*model.Plan, error) {
	p, ok := f.plans[planID]
	if !ok {
		return nil, noRows("plans")
	}
	return p, nil
}

func (f *fakePlans) CreatePlan(ctx context.Context, params repository.CreatePlanParams) (*model.Plan, error) {
	p := &model.Plan{ID: f.nextID, Title: params.Title, Description: params.Description, Objective: params.Objective}
	f.plans[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakePlans) UpdatePlan(ctx context.Context, planID int64, params repository.UpdatePlanParams) (*model.Plan, error) {
	p, ok := f.plans[planID]
	if !ok {
		return nil, noRows("plans")
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	return p, nil
}

func (f *fakePlans) DeletePlan(ctx context.Context, planID int64) error {
	if _, ok := f.plans[planID]; !ok {
		return noRows("plans")
	}
	delete(f.plans, planID)
	return nil
}

func (f *fakePlans) GetWeeklyRows(ctx context.Context, planID int64) ([]model.WeeklyPlanRow, error) {
	var rows []model.WeeklyPlanRow
	for _, d := range testDays {
		for _, m := range testMoments {
			row := model.WeeklyPlanRow{DayID: d.ID, DayName: d.Name, MealMomentID: m.ID, MealMomentName: m.Name}
			if foodID, ok := f.slots[slotKey{planID, d.ID, m.ID}]; ok {
				food := f.foods[foodID]
				row.FoodID = &food.ID
				row.FoodName = &food.Name
				row.FoodDescription = &food.Description
				row.FoodPrice = &food.Price
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakePlans) InsertSlot(ctx context.Context, slot model.PlanSlot) error {
	key := slotKey{slot.PlanID, slot.DayID, slot.MealMomentID}
	if _, taken := f.slots[key]; taken {
		code := "PLAN_SLOT_TAKEN"
		return errs.NewConflictError("slot taken", true, &code)
	}
	f.slots[key] = slot.FoodID
	return nil
}

func (f *fakePlans) UpdateSlot(ctx context.Context, slot model.PlanSlot) error {
	key := slotKey{slot.PlanID, slot.DayID, slot.MealMomentID}
	if _, ok := f.slots[key]; !ok {
		code := "PLAN_SLOT_NOT_FOUND"
		return errs.NewNotFoundError("Meal entry not found in plan", true, &code)
	}
	f.slots[key] = slot.FoodID
	return nil
}

func (f *fakePlans) DeleteSlot(ctx context.Context, planID int64, dayID, momentID int) error {
	delete(f.slots, slotKey{planID, dayID, momentID})
	return nil
}

func (f *fakePlans) GeneratePlan(ctx context.Context, userID string, params repository.CreatePlanParams, slots []model.PlanSlot) (*model.Plan, error) {
	p, _ := f.CreatePlan(ctx, params)
	for _, s := range slots {
		f.slots[slotKey{p.ID, s.DayID, s.MealMomentID}] = s.FoodID
	}
	f.generated = slots
	f.assigned[userID] = p.ID
	return p, nil
}

func (f *fakePlans) ExistingFoodIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range ids {
		if _, ok := f.foods[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

type fakeFoods struct {
	plans   *fakePlans
	lines   map[int64][]model.IngredientLine
	created *model.PlanSlot
}

func (f *fakeFoods) GetFoodByID(ctx context.Context, foodID int64) (*model.Food, error) {
	food, ok := f.plans.foods[foodID]
	if !ok {
		return nil, noRows("foods")
	}
	return &food, nil
}

func (f *fakeFoods) ListFoodsByIDs(ctx context.Context, ids []int64) ([]model.Food, error) {
	var out []model.Food
	for _, id := range ids {
		if food, ok := f.plans.foods[id]; ok {
			out = append(out, food)
		}
	}
	return out, nil
}

func (f *fakeFoods) ListFoodsByPlan(ctx context.Context, planID int64) ([]model.Food, error) {
	seen := map[int64]bool{}
	out := []model.Food{}
	for key, foodID := range f.plans.slots {
		if key.planID == planID && !seen[foodID] {
			seen[foodID] = true
			out = append(out, f.plans.foods[foodID])
		}
	}
	return out, nil
}

func (f *fakeFoods) ListIngredientLines(ctx context.Context, foodIDs []int64) (map[int64][]model.IngredientLine, error) {
	out := map[int64][]model.IngredientLine{}
	for _, id := range foodIDs {
		if lines, ok := f.lines[id]; ok {
			out[id] = lines
		}
	}
	return out, nil
}

func (f *fakeFoods) ListFoods(ctx context.Context, searchName string) ([]model.Food, error) {
	return nil, nil
}

func (f *fakeFoods) CreateFood(ctx context.Context, params repository.CreateFoodParams, ingredients []model.IngredientQuantity, link *model.PlanSlot) (*model.Food, error) {
	food := model.Food{ID: 100, Name: params.Name, Price: params.Price}
	f.plans.foods[food.ID] = food
	f.created = link
	return &food, nil
}

func (f *fakeFoods) UpdateFood(ctx context.Context, foodID int64, params repository.UpdateFoodParams) (*model.Food, error) {
	return f.GetFoodByID(ctx, foodID)
}

func (f *fakeFoods) DeleteFood(ctx context.Context, foodID int64) error {
	return nil
}

type fakeUsers struct {
	plans *fakePlans
	users map[string]*model.User
}

func (f *fakeUsers) GetUser(ctx context.Context, userID string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, noRows("users")
	}
	return u, nil
}

func (f *fakeUsers) GetUserPlan(ctx context.Context, userID string) (*model.Plan, error) {
	u, ok := f.users[userID]
	if !ok || u.PlanID == nil {
		return nil, noRows("plans")
	}
	return f.plans.GetPlanByID(ctx, *u.PlanID)
}

func (f *fakeUsers) AssignPlan(ctx context.Context, userID string, planID int64) (*model.PlanAssignment, error) {
	u, ok := f.users[userID]
	if !ok {
		u = &model.User{ID: userID}
		f.users[userID] = u
	}
	u.PlanID = &planID
	return &model.PlanAssignment{PlanID: planID, UpdatedAt: time.Now()}, nil
}

type fakeExtras struct {
	extras []model.ExtraFood
	lines  map[int64][]model.IngredientLine
	filter repository.ExtraFoodFilter
}

func (f *fakeExtras) ListExtraFoods(ctx context.Context, userID string, filter repository.ExtraFoodFilter) ([]model.ExtraFood, error) {
	f.filter = filter
	var out []model.ExtraFood
	for _, e := range f.extras {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExtras) ListIngredientLines(ctx context.Context, ids []int64) (map[int64][]model.IngredientLine, error) {
	return f.lines, nil
}

func (f *fakeExtras) CreateExtraFood(ctx context.Context, params repository.CreateExtraFoodParams, ingredients []model.IngredientQuantity) (*model.ExtraFood, error) {
	e := model.ExtraFood{ID: int64(len(f.extras) + 1), UserID: params.UserID, Name: params.Name, MealMomentID: params.MealMomentID}
	f.extras = append(f.extras, e)
	return &e, nil
}

func (f *fakeExtras) GetExtraFoodByID(ctx context.Context, id int64) (*model.ExtraFood, error) {
	for _, e := range f.extras {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, noRows("extra_foods")
}

func (f *fakeExtras) DeleteExtraFood(ctx context.Context, userID string, id int64) error {
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type testEnv struct {
	catalog  *CatalogService
	plans    *fakePlans
	foods    *fakeFoods
	users    *fakeUsers
	extras   *fakeExtras
	tasks    *fakeEnqueuer
	planSvc  *PlanService
	userSvc  *UserService
	foodSvc  *FoodService
	extraSvc *ExtraFoodService
}

func newTestEnv(foods ...model.Food) *testEnv {
	logger := zerolog.Nop()
	plans := newFakePlans(foods...)
	foodStore := &fakeFoods{plans: plans, lines: map[int64][]model.IngredientLine{}}
	users := &fakeUsers{plans: plans, users: map[string]*model.User{}}
	extras := &fakeExtras{}
	tasks := &fakeEnqueuer{}
	catalog := NewCatalogService(&fakeCatalog{}, nil)
	planSvc := NewPlanService(plans, foodStore, catalog, tasks, &logger)

	return &testEnv{
		catalog:  catalog,
		plans:    plans,
		foods:    foodStore,
		users:    users,
		extras:   extras,
		tasks:    tasks,
		planSvc:  planSvc,
		userSvc:  NewUserService(users, planSvc, extras),
		foodSvc:  NewFoodService(foodStore, plans, catalog),
		extraSvc: NewExtraFoodService(extras, catalog),
	}
}
