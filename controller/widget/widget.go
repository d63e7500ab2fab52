// Package widget exposes the conversion widget over HTTP.
package widget

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/kylycht/flux/model"
	core "github.com/kylycht/flux/widget"
	"github.com/rs/zerolog/log"
)

// State interface describes the widget operations the API drives
type State interface {
	View() core.View
	SetAmount(anchor model.Anchor, text string) error
	SetFrom(code string) error
	SetTo(code string) error
	Swap()
	Options() []model.Currency
	Chart() model.Chart
	History() []model.HistoryEntry
	ClearHistory()
	Restore(id string) (model.HistoryEntry, error)
	ToggleTheme() model.Theme
}

// Side of the widget a request refers to
const (
	SideFrom = "from"
	SideTo   = "to"
)

func New(state State) *Controller {
	return &Controller{state: state}
}

type Controller struct {
	state State
}

// AmountRequest sets the amount typed into one side
type AmountRequest struct {
	Side  string `json:"side" example:"from"`
	Value string `json:"value" example:"100"`
}

// CurrencyRequest selects the currency of one side
type CurrencyRequest struct {
	Side string `json:"side" example:"to"`
	Code string `json:"code" example:"KZT"`
}

// ThemeResponse carries the current theme
type ThemeResponse struct {
	Theme model.Theme `json:"theme"`
}

// Register mounts the widget routes on router
func (c *Controller) Register(router fiber.Router) {
	router.Get("/state", c.GetState)
	router.Put("/amount", c.SetAmount)
	router.Put("/currency", c.SetCurrency)
	router.Post("/swap", c.Swap)
	router.Get("/currencies", c.Currencies)
	router.Get("/chart", c.Chart)
	router.Get("/history", c.History)
	router.Delete("/history", c.ClearHistory)
	router.Post("/history/:id/restore", c.Restore)
	router.Post("/theme/toggle", c.ToggleTheme)
}

// GetState godoc
//
//	@Summary	Current widget state
//	@Tags		widget
//	@Produce	json
//	@Success	200	{object}	core.View
//	@Router		/api/state [get]
func (c *Controller) GetState(ctx *fiber.Ctx) error {
	return ctx.JSON(c.state.View())
}

// SetAmount godoc
//
//	@Summary		Set the amount of one side
//	@Description	the edited side becomes authoritative, the other one is derived
//	@Tags			widget
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AmountRequest	true	"amount"
//	@Success		200		{object}	core.View
//	@Failure		400		{object}	map[string]string
//	@Router			/api/amount [put]
func (c *Controller) SetAmount(ctx *fiber.Ctx) error {
	var req AmountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}

	anchor, err := anchorOf(req.Side)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err := c.state.SetAmount(anchor, req.Value); err != nil {
		return badRequest(ctx, err)
	}

	return ctx.JSON(c.state.View())
}

// SetCurrency godoc
//
//	@Summary		Select the currency of one side
//	@Description	changing the source currency refreshes the rates in the background
//	@Tags			widget
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CurrencyRequest	true	"currency"
//	@Success		200		{object}	core.View
//	@Failure		400		{object}	map[string]string
//	@Router			/api/currency [put]
func (c *Controller) SetCurrency(ctx *fiber.Ctx) error {
	var req CurrencyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}

	anchor, err := anchorOf(req.Side)
	if err != nil {
		return badRequest(ctx, err)
	}

	if anchor == model.Source {
		err = c.state.SetFrom(req.Code)
	} else {
		err = c.state.SetTo(req.Code)
	}
	if err != nil {
		return badRequest(ctx, err)
	}

	return ctx.JSON(c.state.View())
}

// Swap godoc
//
//	@Summary	Swap source and target currencies
//	@Tags		widget
//	@Produce	json
//	@Success	202	{object}	core.View
//	@Router		/api/swap [post]
func (c *Controller) Swap(ctx *fiber.Ctx) error {
	c.state.Swap()
	return ctx.Status(http.StatusAccepted).JSON(c.state.View())
}

// Currencies godoc
//
//	@Summary	Selectable currencies, priority codes first
//	@Tags		widget
//	@Produce	json
//	@Success	200	{array}	model.Currency
//	@Router		/api/currencies [get]
func (c *Controller) Currencies(ctx *fiber.Ctx) error {
	return ctx.JSON(c.state.Options())
}

// Chart godoc
//
//	@Summary	Rate trend of the current pair
//	@Tags		widget
//	@Produce	json
//	@Success	200	{object}	model.Chart
//	@Router		/api/chart [get]
func (c *Controller) Chart(ctx *fiber.Ctx) error {
	return ctx.JSON(c.state.Chart())
}

// History godoc
//
//	@Summary	Recorded conversions, newest first
//	@Tags		history
//	@Produce	json
//	@Success	200	{array}	model.HistoryEntry
//	@Router		/api/history [get]
func (c *Controller) History(ctx *fiber.Ctx) error {
	return ctx.JSON(c.state.History())
}

// ClearHistory godoc
//
//	@Summary	Remove every recorded conversion
//	@Tags		history
//	@Success	204
//	@Router		/api/history [delete]
func (c *Controller) ClearHistory(ctx *fiber.Ctx) error {
	c.state.ClearHistory()
	return ctx.SendStatus(http.StatusNoContent)
}

// Restore godoc
//
//	@Summary	Restore a recorded conversion
//	@Tags		history
//	@Produce	json
//	@Param		id	path		string	true	"entry id"
//	@Success	200	{object}	core.View
//	@Failure	404	{object}	map[string]string
//	@Router		/api/history/{id}/restore [post]
func (c *Controller) Restore(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	if _, err := c.state.Restore(id); err != nil {
		if errors.Is(err, core.ErrUnknownEntry) {
			return ctx.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return badRequest(ctx, err)
	}

	log.Debug().Str("id", id).Msg("history entry restored")

	return ctx.JSON(c.state.View())
}

// ToggleTheme godoc
//
//	@Summary	Flip between dark and light theme
//	@Tags		preferences
//	@Produce	json
//	@Success	200	{object}	ThemeResponse
//	@Router		/api/theme/toggle [post]
func (c *Controller) ToggleTheme(ctx *fiber.Ctx) error {
	return ctx.JSON(ThemeResponse{Theme: c.state.ToggleTheme()})
}

func anchorOf(side string) (model.Anchor, error) {
	switch side {
	case SideFrom:
		return model.Source, nil
	case SideTo:
		return model.Target, nil
	}
	return "", fmt.Errorf("%w: side must be %q or %q", core.ErrValidation, SideFrom, SideTo)
}

func badRequest(ctx *fiber.Ctx, err error) error {
	log.Debug().Err(err).Str("path", ctx.Path()).Msg("rejecting request")
	return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
