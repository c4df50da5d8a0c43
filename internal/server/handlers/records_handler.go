package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/domain/apperrors"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/domain/validation"
	"github.com/mamadbah2/poultry-api/internal/service/records"
)

const validationFailed = "Validation failed"

// OutcomeRecorder counts creation outcomes per entity.
type OutcomeRecorder interface {
	RecordCreated(entity string)
	RecordFailure(entity, kind string)
}

// RecordsHandler exposes one POST endpoint per entity.
type RecordsHandler struct {
	svc      records.Creator
	recorder OutcomeRecorder
	logger   *zap.Logger
}

// NewRecordsHandler constructs the HTTP adapter around the records service.
func NewRecordsHandler(svc records.Creator, recorder OutcomeRecorder, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, recorder: recorder, logger: logger}
}

// Register mounts every entity endpoint on group, with and without a trailing slash.
func (h *RecordsHandler) Register(group *gin.RouterGroup) {
	routes := map[models.Entity]gin.HandlerFunc{
		models.EntityUser:                 createHandler(h, models.EntityUser, h.svc.CreateUser),
		models.EntityFarm:                 createHandler(h, models.EntityFarm, h.svc.CreateFarm),
		models.EntityBatch:                createHandler(h, models.EntityBatch, h.svc.CreateBatch),
		models.EntityAnimal:               createHandler(h, models.EntityAnimal, h.svc.CreateAnimal),
		models.EntityGrowthSample:         createHandler(h, models.EntityGrowthSample, h.svc.CreateGrowthSample),
		models.EntityConsumptionRecord:    createHandler(h, models.EntityConsumptionRecord, h.svc.CreateConsumptionRecord),
		models.EntityFeedingRecord:        createHandler(h, models.EntityFeedingRecord, h.svc.CreateFeedingRecord),
		models.EntityEnvironmentalReading: createHandler(h, models.EntityEnvironmentalReading, h.svc.CreateEnvironmentalReading),
		models.EntityMortalityEvent:       createHandler(h, models.EntityMortalityEvent, h.svc.CreateMortalityEvent),
		models.EntityThermalMap:           createHandler(h, models.EntityThermalMap, h.svc.CreateThermalMap),
	}

	for _, entity := range models.Entities() {
		path := entity.Info().Path
		group.POST(path, routes[entity])
		group.POST(path+"/", routes[entity])
	}
}

func createHandler[In any, Out any](h *RecordsHandler, entity models.Entity, create func(context.Context, In) (Out, error)) gin.HandlerFunc {
	info := entity.Info()

	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.logger.Warn("failed to read request body", zap.String("entity", entity.String()), zap.Error(err))
			h.fail(entity, apperrors.KindValidation)
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   validationFailed,
				Details: map[string]string{"body": "unable to read request body"},
			})
			return
		}

		var in In
		if err := validation.Decode(raw, &in); err != nil {
			h.respondError(c, info, err)
			return
		}

		out, err := create(c.Request.Context(), in)
		if err != nil {
			h.respondError(c, info, err)
			return
		}

		if h.recorder != nil {
			h.recorder.RecordCreated(entity.String())
		}
		c.JSON(http.StatusCreated, models.APIResponse{
			Success: true,
			Message: info.SuccessMessage(),
			Data:    out,
		})
	}
}

func (h *RecordsHandler) respondError(c *gin.Context, info models.EntityInfo, err error) {
	kind := apperrors.Classify(err)
	h.fail(info.Entity, kind)

	var verr *validation.ValidationError
	if kind == apperrors.KindValidation && errors.As(err, &verr) {
		h.logger.Debug("request rejected",
			zap.String("entity", info.Entity.String()),
			zap.Any("details", verr.Detail()))
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   validationFailed,
			Details: verr.Detail(),
		})
		return
	}

	h.logger.Error("failed to create record",
		zap.String("entity", info.Entity.String()),
		zap.String("kind", kind.String()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: "Error creating " + info.Subject + ": " + apperrors.Message(err),
	})
}

func (h *RecordsHandler) fail(entity models.Entity, kind apperrors.Kind) {
	if h.recorder != nil {
		h.recorder.RecordFailure(entity.String(), kind.String())
	}
}
