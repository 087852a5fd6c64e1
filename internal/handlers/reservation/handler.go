package reservation

import (
	"errors"
	"net/http"

	"turfbook/infras/otel"
	"turfbook/internal/domains/reservation/model"
	"turfbook/internal/domains/reservation/model/dto"
	"turfbook/internal/domains/reservation/service"
	"turfbook/shared/constant"
	"turfbook/shared/failure"
	"turfbook/shared/validator"
	"turfbook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Reserve)
		routerGroup.Post("/verify", handler.Verify)
	})
}

// Reserve places or releases temporary holds on slots.
// @Summary Reserve or release slots
// @Description Place short-lived exclusive holds on the requested slots, or release the caller's holds on a turf.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.ReserveRequest true "Reserve Request"
// @Success 200 {object} dto.ReserveResponse "Holds placed or released"
// @Failure 400 {object} response.Error
// @Failure 409 {object} dto.ConflictResponse
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) Reserve(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reserve")
	defer scope.End()

	var req dto.ReserveRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	switch req.Action {
	case dto.ActionRelease:
		if err := handler.service.Release(ctx, req.TurfID); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to release reservations")

			response.WithError(writer, err)

			return
		}

		scope.AddEvent("Reservations released successfully")

		response.WithPayload(writer, http.StatusOK, dto.ReserveResponse{Success: true})

	case dto.ActionReserve:
		if len(req.Slots) == 0 {
			response.WithError(writer, failure.BadRequestFromString("at least one slot is required"))

			return
		}

		res, err := handler.service.Reserve(ctx, req)
		if err != nil {
			scope.TraceError(err)

			var conflict *model.ConflictError
			if errors.As(err, &conflict) {
				var body dto.ConflictResponse
				body.FromConflict(conflict)

				response.WithPayload(writer, http.StatusConflict, body)

				return
			}

			log.Error().Err(err).Msg("failed to reserve slots")

			response.WithError(writer, err)

			return
		}

		scope.AddEvent("Reservations placed successfully")

		response.WithPayload(writer, http.StatusOK, res)

	default:
		response.WithError(writer, failure.BadRequestFromString("unknown action"))
	}
}

// Verify reports the availability of the requested slots.
// @Summary Verify slot availability
// @Description Report whether each requested slot is free, booked, or held by another customer.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Verify Request"
// @Success 200 {object} dto.VerifyResponse "Availability report"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/verify [post]
// @Security BearerAuth
func (handler *Handler) Verify(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Verify")
	defer scope.End()

	var req dto.VerifyRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Verify(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify slots")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Slots verified successfully")

	response.WithPayload(writer, http.StatusOK, res)
}
