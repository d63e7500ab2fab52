package converter

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/kylycht/flux/converter"
	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
	"github.com/rs/zerolog/log"
)

// RateLookup resolves the multiplier of a pair
type RateLookup interface {
	Rate(ctx context.Context, from, to string) (rate float64, updated string, err error)
}

func New(rates RateLookup) *Converter {
	return &Converter{rates: rates}
}

type Converter struct {
	rates RateLookup
}

// Response of a one-off conversion
type Response struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Amount  string  `json:"amount"`
	Result  string  `json:"result"`
	Rate    float64 `json:"rate"`
	Updated string  `json:"updated"`
}

// Convert godoc
//
//	@Summary		Convert an amount between two currencies
//	@Description	stateless conversion using the latest rates of the source currency
//	@Tags			converter
//	@Produce		json
//	@Param			from	query		string	true	"From Currency"	example(USD)
//	@Param			to		query		string	true	"To Currency"	example(KZT)
//	@Param			amount	query		string	false	"Amount"		example(100)
//	@Success		200		{object}	Response
//	@Failure		400		{object}	map[string]string	"invalid conversion for pair: USD/XYZ"
//	@Failure		502		{object}	map[string]string
//	@Router			/convert [get]
func (c *Converter) Convert(ctx *fiber.Ctx) error {
	from := model.NormalizeCode(ctx.Query("from"))
	to := model.NormalizeCode(ctx.Query("to"))
	amount := ctx.Query("amount", "1")

	rate, updated, err := c.rates.Rate(ctx.UserContext(), from, to)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrClient) || errors.Is(err, service.ErrNotFound) {
			status = http.StatusBadRequest
		}
		log.Error().Err(err).Str("pair", from+"/"+to).Msg("unable to resolve rate")
		return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	result := converter.Convert(amount, model.Source, rate, true)
	if result.To == "" {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid amount: " + amount})
	}

	log.Debug().Str(from, to).Str("amount", amount).Msg("converting")

	return ctx.JSON(Response{
		From:    from,
		To:      to,
		Amount:  amount,
		Result:  result.To,
		Rate:    rate,
		Updated: updated,
	})
}
