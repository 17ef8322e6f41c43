package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-health/portal-api/internal/dto"
	"github.com/medico-health/portal-api/internal/prediction"
)

type PredictionHandler struct {
	client *prediction.Client
}

func NewPredictionHandler(client *prediction.Client) *PredictionHandler {
	return &PredictionHandler{client: client}
}

// Predict proxies the typed numeric form fields to the model service
// and returns the banded risk. Failures surface as a blocking error;
// no partial result is shown.
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	condition := c.Params("condition")

	var fields map[string]float64
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return badRequest(c, "All fields must be numeric")
	}

	result, err := h.client.Predict(c.Context(), condition, fields)
	if err != nil {
		var missing *prediction.MissingFieldsError
		switch {
		case errors.Is(err, prediction.ErrUnknownCondition):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown condition: " + condition,
			})
		case errors.As(err, &missing):
			fieldErrs := make([]dto.FieldError, len(missing.Missing))
			for i, name := range missing.Missing {
				fieldErrs[i] = dto.FieldError{Field: name, Message: "Required"}
			}
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Please fill all fields", Fields: fieldErrs,
			})
		case errors.Is(err, prediction.ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Prediction service unavailable. Please try again later.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Prediction failed",
		})
	}

	return c.JSON(dto.PredictResponse{
		Condition:   condition,
		Prediction:  result.Prediction,
		Probability: result.Probability,
		Risk:        string(result.Risk),
		Percent:     result.Percent(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Conditions lists the supported condition types and their required
// fields so the client can build its forms.
func (h *PredictionHandler) Conditions(c *fiber.Ctx) error {
	out := make(map[string][]string)
	for _, name := range prediction.Conditions() {
		fields, _ := prediction.FieldsFor(name)
		out[name] = fields
	}
	return c.JSON(out)
}
