package records

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/poultry-api/internal/domain/apperrors"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/domain/validation"
)

// Store persists a validated document and hands back its identifier and creation time.
// Implementations must return unique identifiers under concurrent calls and wrap backend
// failures with apperrors.ErrStorage.
type Store interface {
	Store(ctx context.Context, entity models.Entity, doc any) (models.Receipt, error)
}

// RecordObserver is told about every record that was created. Observers must not block.
type RecordObserver interface {
	RecordCreated(ctx context.Context, entity models.Entity, record any)
}

// Creator is the operation set exposed to the HTTP layer.
type Creator interface {
	CreateUser(ctx context.Context, in models.UserCreate) (models.User, error)
	CreateFarm(ctx context.Context, in models.FarmCreate) (models.Farm, error)
	CreateBatch(ctx context.Context, in models.BatchCreate) (models.Batch, error)
	CreateAnimal(ctx context.Context, in models.AnimalCreate) (models.Animal, error)
	CreateGrowthSample(ctx context.Context, in models.GrowthSampleCreate) (models.GrowthSample, error)
	CreateConsumptionRecord(ctx context.Context, in models.ConsumptionRecordCreate) (models.ConsumptionRecord, error)
	CreateFeedingRecord(ctx context.Context, in models.FeedingRecordCreate) (models.FeedingRecord, error)
	CreateEnvironmentalReading(ctx context.Context, in models.EnvironmentalReadingCreate) (models.EnvironmentalReading, error)
	CreateMortalityEvent(ctx context.Context, in models.MortalityEventCreate) (models.MortalityEvent, error)
	CreateThermalMap(ctx context.Context, in models.ThermalMapCreate) (models.ThermalMap, error)
}

// Service validates inputs, persists them once and returns the enriched records.
type Service struct {
	store        Store
	observers    []RecordObserver
	logger       *zap.Logger
	passwordCost int
}

var _ Creator = (*Service)(nil)

// NewService wires the orchestrator around an explicit store.
func NewService(store Store, logger *zap.Logger, observers ...RecordObserver) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		observers:    observers,
		logger:       logger,
		passwordCost: bcrypt.DefaultCost,
	}
}

// CreateUser stores a user. Only the persisted document carries the hashed password.
func (s *Service) CreateUser(ctx context.Context, in models.UserCreate) (models.User, error) {
	return create(ctx, s, models.EntityUser, in, s.userDocument, models.NewUser)
}

// CreateFarm stores a farm.
func (s *Service) CreateFarm(ctx context.Context, in models.FarmCreate) (models.Farm, error) {
	return create(ctx, s, models.EntityFarm, in, nil, models.NewFarm)
}

// CreateBatch stores a batch, defaulting its status to active.
func (s *Service) CreateBatch(ctx context.Context, in models.BatchCreate) (models.Batch, error) {
	return create(ctx, s, models.EntityBatch, in, nil, models.NewBatch)
}

// CreateAnimal stores an animal, defaulting its health status to healthy.
func (s *Service) CreateAnimal(ctx context.Context, in models.AnimalCreate) (models.Animal, error) {
	return create(ctx, s, models.EntityAnimal, in, nil, models.NewAnimal)
}

func (s *Service) CreateGrowthSample(ctx context.Context, in models.GrowthSampleCreate) (models.GrowthSample, error) {
	return create(ctx, s, models.EntityGrowthSample, in, nil, models.NewGrowthSample)
}

func (s *Service) CreateConsumptionRecord(ctx context.Context, in models.ConsumptionRecordCreate) (models.ConsumptionRecord, error) {
	return create(ctx, s, models.EntityConsumptionRecord, in, nil, models.NewConsumptionRecord)
}

func (s *Service) CreateFeedingRecord(ctx context.Context, in models.FeedingRecordCreate) (models.FeedingRecord, error) {
	return create(ctx, s, models.EntityFeedingRecord, in, nil, models.NewFeedingRecord)
}

func (s *Service) CreateEnvironmentalReading(ctx context.Context, in models.EnvironmentalReadingCreate) (models.EnvironmentalReading, error) {
	return create(ctx, s, models.EntityEnvironmentalReading, in, nil, models.NewEnvironmentalReading)
}

func (s *Service) CreateMortalityEvent(ctx context.Context, in models.MortalityEventCreate) (models.MortalityEvent, error) {
	return create(ctx, s, models.EntityMortalityEvent, in, nil, models.NewMortalityEvent)
}

// CreateThermalMap stores a thermal map. Rows of different lengths are accepted.
func (s *Service) CreateThermalMap(ctx context.Context, in models.ThermalMapCreate) (models.ThermalMap, error) {
	return create(ctx, s, models.EntityThermalMap, in, nil, models.NewThermalMap)
}

// create runs validate -> store -> enrich for one entity. Nothing is written when
// validation fails and nothing is compensated when the store fails.
func create[In any, Out any](
	ctx context.Context,
	s *Service,
	entity models.Entity,
	in In,
	document func(In) (any, error),
	enrich func(In, models.Receipt) Out,
) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = s.fail(entity, fmt.Errorf("panic while creating record: %v", r))
		}
	}()

	if d, ok := any(&in).(models.Defaulter); ok {
		d.ApplyDefaults()
	}

	if err := validation.Struct(in); err != nil {
		return out, s.fail(entity, err)
	}

	var doc any = in
	if document != nil {
		if doc, err = document(in); err != nil {
			return out, s.fail(entity, err)
		}
	}

	receipt, err := s.store.Store(ctx, entity, doc)
	if err != nil {
		return out, s.fail(entity, err)
	}

	out = enrich(in, receipt)
	s.logger.Info("record created",
		zap.String("entity", entity.String()),
		zap.Int64("id", receipt.ID))

	for _, o := range s.observers {
		o.RecordCreated(ctx, entity, out)
	}

	return out, nil
}

func (s *Service) fail(entity models.Entity, err error) error {
	createErr := apperrors.NewCreateError(entity, err)

	fields := []zap.Field{
		zap.String("entity", entity.String()),
		zap.String("kind", createErr.Kind.String()),
		zap.Error(err),
	}
	if createErr.Kind == apperrors.KindValidation {
		s.logger.Warn("record rejected", fields...)
	} else {
		s.logger.Error("record creation failed", fields...)
	}

	return createErr
}

// bcrypt only reads the first 72 bytes of a password.
const bcryptMaxBytes = 72

func (s *Service) userDocument(in models.UserCreate) (any, error) {
	secret := []byte(in.Password)
	if len(secret) > bcryptMaxBytes {
		sum := sha256.Sum256(secret)
		secret = []byte(base64.StdEncoding.EncodeToString(sum[:]))
	}

	hash, err := bcrypt.GenerateFromPassword(secret, s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	in.Password = string(hash)
	return in, nil
}
