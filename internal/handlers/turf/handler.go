package turf

import (
	"net/http"
	"turfbook/infras/otel"
	"turfbook/internal/domains/turf/model"
	"turfbook/internal/domains/turf/model/dto"
	"turfbook/internal/domains/turf/service"
	"turfbook/shared"
	"turfbook/shared/constant"
	gDto "turfbook/shared/dto"
	"turfbook/shared/validator"
	"turfbook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Turf
	otel    otel.Otel
}

func New(service service.Turf, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/turfs", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTurf)
		routerGroup.Get("/", handler.GetTurfs)
		routerGroup.Get("/{id}", handler.GetTurfByID)
		routerGroup.Patch("/{id}", handler.UpdateTurf)
		routerGroup.Delete("/{id}", handler.DeleteTurf)
	})
}

// CreateTurf handles the creation of a new turf.
// @Summary Create a new turf
// @Description Create a new turf listing owned by the authenticated user.
// @Tags Turf
// @Accept json
// @Produce json
// @Param request body dto.CreateTurfRequest true "Create Turf Request"
// @Success 201 {object} response.Message "Turf created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turfs [post]
// @Security BearerAuth
func (handler *Handler) CreateTurf(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTurf")
	defer scope.End()

	var req dto.CreateTurfRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create turf")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Turf created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Turf created successfully")
}

// GetTurfs retrieves all turfs based on query parameters.
// @Summary Get all turfs
// @Description Retrieve all turfs with optional filtering and pagination.
// @Tags Turf
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetTurfsResponse] "List of turfs"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turfs [get]
func (handler *Handler) GetTurfs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTurfs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	name := r.URL.Query().Get(model.FieldName)
	location := r.URL.Query().Get(model.FieldLocation)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    name,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldLocation,
				Operator: gDto.FilterOperatorLike,
				Value:    location,
				Table:    model.TableName,
			},
		},
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	turfs, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get turfs")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Turfs retrieved successfully")

	response.WithJSON(w, http.StatusOK, turfs)
}

// GetTurfByID retrieves a turf by its ID.
// @Summary Get a turf by ID
// @Description Retrieve a turf by its unique identifier.
// @Tags Turf
// @Accept json
// @Produce json
// @Param id path string true "Turf ID"
// @Success 200 {object} response.Data[dto.TurfResponse] "Turf details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turfs/{id} [get]
func (handler *Handler) GetTurfByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTurfByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	turf, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get turf by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Turf retrieved successfully")

	response.WithJSON(w, http.StatusOK, turf)
}

// UpdateTurf updates an existing turf by its ID.
// @Summary Update a turf by ID
// @Description Update the details of an existing turf. Owner or admin only.
// @Tags Turf
// @Accept json
// @Produce json
// @Param id path string true "Turf ID"
// @Param request body dto.UpdateTurfRequest true "Update Turf Request"
// @Success 200 {object} response.Message "Turf updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turfs/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTurf(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTurf")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.UpdateTurfRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update turf")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Turf updated successfully")

	response.WithMessage(w, http.StatusOK, "Turf updated successfully")
}

// DeleteTurf deletes a turf by its ID.
// @Summary Delete a turf by ID
// @Description Delete an existing turf. Owner or admin only.
// @Tags Turf
// @Accept json
// @Produce json
// @Param id path string true "Turf ID"
// @Success 200 {object} response.Message "Turf deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turfs/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTurf(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTurf")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete turf")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Turf deleted successfully")

	response.WithMessage(w, http.StatusOK, "Turf deleted successfully")
}
