// Package plan provides the plan and subscription management endpoints.
package plan

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	planctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/plan"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the plan endpoints.
	Path = handler.APIPrefix + "/plans"

	// SubscriptionsPath is the base path of the subscription endpoints.
	SubscriptionsPath = handler.APIPrefix + "/subscriptions"

	defaultPageSize = 25
	maxPageSize     = 100
)

// Request is the body for creating or updating a plan.
type Request struct {
	Name         string   `json:"name" validate:"required,min=1,max=100"`
	Description  string   `json:"description" validate:"max=255"`
	MonthlyPrice int64    `json:"monthlyPrice" validate:"min=0"`
	YearlyPrice  int64    `json:"yearlyPrice" validate:"min=0"`
	Features     []string `json:"features"`
	TrialDays    int      `json:"trialDays" validate:"min=0"`
	Status       string   `json:"status"`
	SortOrder    int      `json:"sortOrder"`
	IsPopular    bool     `json:"isPopular"`
}

func (r *Request) fields() planctl.Fields {
	return planctl.Fields{
		Name:         r.Name,
		Description:  r.Description,
		MonthlyPrice: r.MonthlyPrice,
		YearlyPrice:  r.YearlyPrice,
		Features:     r.Features,
		TrialDays:    r.TrialDays,
		Status:       models.PlanStatus(r.Status),
		SortOrder:    r.SortOrder,
		IsPopular:    r.IsPopular,
	}
}

// SubscribeRequest is the body for creating a subscription.
type SubscribeRequest struct {
	UserID   string `json:"userId" validate:"required"`
	PlanID   string `json:"planId" validate:"required"`
	Interval string `json:"interval" validate:"omitempty,oneof=month year"`
}

// StatusRequest is the body for a subscription status transition.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Service is the plan handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the plan handler.
var Handler = Service{}

// Init initializes the plan handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	view := auth.RequirePermission(authService, auth.PermPlansView)
	manage := auth.RequirePermission(authService, auth.PermPlansManage)

	app.Get(Path, view, s.List)
	app.Get(Path+"/:id", view, s.Get)
	app.Post(Path, manage, s.Post)
	app.Put(Path+"/:id", manage, s.Put)
	app.Delete(Path+"/:id", manage, s.Delete)

	subView := auth.RequirePermission(authService, auth.PermSubscriptionsView)
	subManage := auth.RequirePermission(authService, auth.PermSubscriptionsManage)

	app.Get(SubscriptionsPath, subView, s.ListSubscriptions)
	app.Get(SubscriptionsPath+"/:id", subView, s.GetSubscription)
	app.Post(SubscriptionsPath, subManage, s.Subscribe)
	app.Put(SubscriptionsPath+"/:id/status", subManage, s.SetSubscriptionStatus)
}

// List returns all plans in pricing order.
func (s *Service) List(c *fiber.Ctx) error {
	plans, err := planctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list plans")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, plans)
}

// Get returns one plan with its live subscription count.
func (s *Service) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	stored, err := planctl.Get(s.db, id)
	if errors.Is(err, planctl.ErrPlanNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Plan not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	count, err := planctl.LiveSubscriptionsCount(s.db, id)
	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, fiber.Map{
		"plan":              stored,
		"liveSubscriptions": count,
	})
}

// Post creates a plan.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := planctl.Create(s.db, req.fields())
	if errors.Is(err, planctl.ErrPlanInvalidStatus) {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create plan")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "plan.create", created.ID, "Created plan "+created.Name)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a plan.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := planctl.Update(s.db, c.Params("id"), req.fields())

	switch {
	case errors.Is(err, planctl.ErrPlanNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Plan not found")
	case errors.Is(err, planctl.ErrPlanInvalidStatus):
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to update plan")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "plan.update", updated.ID, "Updated plan "+updated.Name)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Delete removes a plan without live subscriptions.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := planctl.Delete(s.db, id)

	switch {
	case errors.Is(err, planctl.ErrPlanNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Plan not found")
	case errors.Is(err, planctl.ErrPlanInUse):
		return handler.RespondError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to delete plan")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "plan.delete", id, "Deleted plan")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// ListSubscriptions returns a page of subscriptions.
func (s *Service) ListSubscriptions(c *fiber.Ctx) error {
	limit, offset := handler.PageParams(c, defaultPageSize, maxPageSize)

	subscriptions, total, err := planctl.ListSubscriptions(s.db,
		models.SubscriptionStatus(c.Query("status")), c.Query("planId"), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list subscriptions")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.RespondList(c, subscriptions, handler.ListMeta{Total: total, Limit: limit, Offset: offset})
}

// GetSubscription returns one subscription.
func (s *Service) GetSubscription(c *fiber.Ctx) error {
	stored, err := planctl.GetSubscription(s.db, c.Params("id"))
	if errors.Is(err, planctl.ErrSubscriptionNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Subscription not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Subscribe creates a subscription for a user on a plan.
func (s *Service) Subscribe(c *fiber.Ctx) error {
	var req SubscribeRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := planctl.Subscribe(s.db, req.UserID, req.PlanID, models.BillingInterval(req.Interval))
	if errors.Is(err, planctl.ErrPlanNotFound) {
		return handler.RespondError(c, fiber.StatusBadRequest, "Plan not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create subscription")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "subscription.create", created.ID, "Created subscription")

	return handler.Respond(c, fiber.StatusCreated, created)
}

// SetSubscriptionStatus transitions a subscription's lifecycle state.
func (s *Service) SetSubscriptionStatus(c *fiber.Ctx) error {
	var req StatusRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := planctl.SetSubscriptionStatus(s.db, c.Params("id"),
		models.SubscriptionStatus(req.Status))

	switch {
	case errors.Is(err, planctl.ErrSubscriptionNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Subscription not found")
	case errors.Is(err, planctl.ErrSubscriptionInvalidStatus):
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to update subscription")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "subscription.status", updated.ID, "Set subscription status to "+string(updated.Status))

	return handler.Respond(c, fiber.StatusOK, updated)
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "plan", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
