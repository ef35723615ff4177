package handler

import (
	"time"

	"github.com/deppfellow/mealplanner/internal/model"
	"github.com/deppfellow/mealplanner/internal/server"
	"github.com/deppfellow/mealplanner/internal/service"
	"github.com/deppfellow/mealplanner/internal/validation"
	"github.com/labstack/echo/v4"
)

// WaterHandler serves water goals and intake logs.
type WaterHandler struct {
	Handler
	waterService *service.WaterService
}

func NewWaterHandler(s *server.Server, waterService *service.WaterService) *WaterHandler {
	return &WaterHandler{
		Handler:      NewHandler(s),
		waterService: waterService,
	}
}

type PutWaterGoalRequest struct {
	UserID      string `param:"user_id" json:"-" validate:"required,max=255"`
	DailyGoalML int    `json:"daily_goal_ml" validate:"required,gt=0,max=20000"`
}

func (r *PutWaterGoalRequest) Validate() error {
	return validation.Struct(r)
}

// LogWaterRequest defaults ConsumedAt to now.
type LogWaterRequest struct {
	UserID     string     `param:"user_id" json:"-" validate:"required,max=255"`
	AmountML   int        `json:"amount_ml" validate:"required,gt=0,max=10000"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

func (r *LogWaterRequest) Validate() error {
	return validation.Struct(r)
}

type DeleteWaterEntryRequest struct {
	UserID  string `param:"user_id" json:"-" validate:"required,max=255"`
	EntryID int64  `param:"entry_id" json:"-" validate:"required,min=1"`
}

func (r *DeleteWaterEntryRequest) Validate() error {
	return validation.Struct(r)
}

// DailyWaterRequest defaults to today (UTC) without ?date.
type DailyWaterRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	Date   string `query:"date" json:"-"`

	date time.Time
}

func (r *DailyWaterRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	r.date = parseDateField(&problems, "date", r.Date, time.Now().UTC())
	return validationResult(problems)
}

// WaterHistoryRequest covers from through to, both inclusive.
type WaterHistoryRequest struct {
	UserID string `param:"user_id" json:"-" validate:"required,max=255"`
	From   string `query:"from" json:"-" validate:"required"`
	To     string `query:"to" json:"-" validate:"required"`

	from, to time.Time
}

func (r *WaterHistoryRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	r.from = parseDateField(&problems, "from", r.From, time.Time{})
	r.to = parseDateField(&problems, "to", r.To, time.Time{})
	return validationResult(problems)
}

func (h *WaterHandler) GetWaterGoal(c echo.Context, req *UserRequest) (*model.WaterGoal, error) {
	return h.waterService.GetWaterGoal(c.Request().Context(), req.UserID)
}

func (h *WaterHandler) PutWaterGoal(c echo.Context, req *PutWaterGoalRequest) (*model.WaterGoal, error) {
	return h.waterService.PutWaterGoal(c.Request().Context(), req.UserID, req.DailyGoalML)
}

func (h *WaterHandler) LogWater(c echo.Context, req *LogWaterRequest) (*model.WaterConsumption, error) {
	return h.waterService.LogWater(c.Request().Context(), req.UserID, req.AmountML, req.ConsumedAt)
}

func (h *WaterHandler) DeleteWaterEntry(c echo.Context, req *DeleteWaterEntryRequest) error {
	return h.waterService.DeleteWaterEntry(c.Request().Context(), req.UserID, req.EntryID)
}

// GetDailyWater reports intake on one day against the goal.
func (h *WaterHandler) GetDailyWater(c echo.Context, req *DailyWaterRequest) (*model.DailyWater, error) {
	return h.waterService.GetDailyWater(c.Request().Context(), req.UserID, req.date)
}

// GetWaterHistory lists one total per day in the range, zero included.
func (h *WaterHandler) GetWaterHistory(c echo.Context, req *WaterHistoryRequest) (*model.WaterHistory, error) {
	return h.waterService.GetWaterHistory(c.Request().Context(), req.UserID, req.from, req.to)
}
