package models

import "time"

// UserCreate is the payload accepted when registering a platform user.
type UserCreate struct {
	Name     string  `json:"nombre" bson:"nombre" binding:"required,min=1,max=100"`
	Contact  *string `json:"contacto" bson:"contacto,omitempty" binding:"omitempty,max=100"`
	Phone    *string `json:"telefono" bson:"telefono,omitempty" binding:"omitempty,max=20"`
	Email    string  `json:"email" bson:"email" binding:"required,max=100"`
	Address  *string `json:"direccion" bson:"direccion,omitempty" binding:"omitempty,max=200"`
	Password string  `json:"contraseña" bson:"contrasena" binding:"required,min=8"`
}

// User is a persisted user.
type User struct {
	UserID int64 `json:"usuario_id"`
	UserCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewUser assembles the enriched user record.
func NewUser(in UserCreate, r Receipt) User {
	return User{UserID: r.ID, UserCreate: in, CreatedAt: r.CreatedAt}
}

// FarmCreate is the payload accepted when registering a farm (granja).
type FarmCreate struct {
	Name        string  `json:"nombre" bson:"nombre" binding:"required,min=1,max=100"`
	Capacity    int64   `json:"capacidad" bson:"capacidad" binding:"required,gt=0"`
	Location    *string `json:"ubicacion" bson:"ubicacion,omitempty" binding:"omitempty,max=200"`
	OwnerUserID int64   `json:"usuario_id" bson:"usuario_id" binding:"required,gt=0"`
}

// Farm is a persisted farm.
type Farm struct {
	FarmID int64 `json:"granja_id"`
	FarmCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewFarm assembles the enriched farm record.
func NewFarm(in FarmCreate, r Receipt) Farm {
	return Farm{FarmID: r.ID, FarmCreate: in, CreatedAt: r.CreatedAt}
}

// BatchCreate is the payload accepted when registering a batch (lote) of birds.
type BatchCreate struct {
	Code         string      `json:"codigo" bson:"codigo" binding:"required,min=1,max=50"`
	IntakeDate   Date        `json:"fecha_ingreso" bson:"fecha_ingreso" binding:"required"`
	InitialCount int64       `json:"cantidad_inicial" bson:"cantidad_inicial" binding:"required,gt=0"`
	Breed        string      `json:"raza" bson:"raza" binding:"required,min=1,max=100"`
	FarmID       int64       `json:"granja_id" bson:"granja_id" binding:"required,gt=0"`
	Status       BatchStatus `json:"estado" bson:"estado" binding:"oneof=activo inactivo vendido"`
}

// ApplyDefaults sets the status of a new batch to active when omitted.
func (b *BatchCreate) ApplyDefaults() {
	if b.Status == "" {
		b.Status = BatchActive
	}
}

// Batch is a persisted batch.
type Batch struct {
	BatchID int64 `json:"lote_id"`
	BatchCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewBatch assembles the enriched batch record.
func NewBatch(in BatchCreate, r Receipt) Batch {
	return Batch{BatchID: r.ID, BatchCreate: in, CreatedAt: r.CreatedAt}
}

// AnimalCreate is the payload accepted for an individually tracked bird (pollo).
type AnimalCreate struct {
	BatchID      int64        `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Tag          string       `json:"identificador" bson:"identificador" binding:"required,min=1,max=50"`
	WeightGrams  float64      `json:"peso" bson:"peso" binding:"required,gt=0"`
	HealthStatus HealthStatus `json:"estado_salud" bson:"estado_salud" binding:"oneof=saludable enfermo recuperandose"`
	RecordedAt   DateTime     `json:"fecha_registro" bson:"fecha_registro" binding:"required"`
}

// ApplyDefaults marks the animal healthy when no health status is given.
func (a *AnimalCreate) ApplyDefaults() {
	if a.HealthStatus == "" {
		a.HealthStatus = HealthHealthy
	}
}

// Animal is a persisted animal.
type Animal struct {
	AnimalID int64 `json:"pollo_id"`
	AnimalCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewAnimal assembles the enriched animal record.
func NewAnimal(in AnimalCreate, r Receipt) Animal {
	return Animal{AnimalID: r.ID, AnimalCreate: in, CreatedAt: r.CreatedAt}
}
