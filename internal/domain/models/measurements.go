package models

import "time"

// GrowthSampleCreate captures a weighing of a batch sample (crecimiento).
type GrowthSampleCreate struct {
	BatchID        int64    `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Date           Date     `json:"fecha" bson:"fecha" binding:"required"`
	AvgWeightGrams float64  `json:"peso_promedio" bson:"peso_promedio" binding:"required,gt=0"`
	DailyGainGrams *float64 `json:"ganancia_diaria" bson:"ganancia_diaria,omitempty" binding:"omitempty,gte=0"`
	UniformityPct  *float64 `json:"uniformidad" bson:"uniformidad,omitempty" binding:"omitempty,gte=0,lte=100"`
}

// GrowthSample is a persisted growth sample.
type GrowthSample struct {
	GrowthSampleID int64 `json:"crecimiento_id"`
	GrowthSampleCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewGrowthSample assembles the enriched growth sample.
func NewGrowthSample(in GrowthSampleCreate, r Receipt) GrowthSample {
	return GrowthSample{GrowthSampleID: r.ID, GrowthSampleCreate: in, CreatedAt: r.CreatedAt}
}

// ConsumptionRecordCreate captures water, feed and energy use of a batch (consumo).
type ConsumptionRecordCreate struct {
	BatchID     int64    `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Timestamp   DateTime `json:"fecha_hora" bson:"fecha_hora" binding:"required"`
	WaterLiters float64  `json:"cantidad_agua" bson:"cantidad_agua" binding:"required,gt=0"`
	FeedKg      float64  `json:"cantidad_alimento" bson:"cantidad_alimento" binding:"required,gt=0"`
	FeedType    FeedType `json:"tipo_alimento" bson:"tipo_alimento" binding:"required,oneof=Pre-iniciador Iniciador Crecimiento Finalizador"`
	WasteKg     *float64 `json:"desperdicio" bson:"desperdicio,omitempty" binding:"omitempty,gte=0"`
	EnergyKWh   *float64 `json:"kwh" bson:"kwh,omitempty" binding:"omitempty,gte=0"`
}

// ConsumptionRecord is a persisted consumption record.
type ConsumptionRecord struct {
	ConsumptionID int64 `json:"consumo_id"`
	ConsumptionRecordCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewConsumptionRecord assembles the enriched consumption record.
func NewConsumptionRecord(in ConsumptionRecordCreate, r Receipt) ConsumptionRecord {
	return ConsumptionRecord{ConsumptionID: r.ID, ConsumptionRecordCreate: in, CreatedAt: r.CreatedAt}
}

// FeedingRecordCreate captures a feed distribution (alimentacion). TimeOfDay is a
// free-form HH:MM string and is not parsed.
type FeedingRecordCreate struct {
	BatchID     int64    `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Timestamp   DateTime `json:"fecha" bson:"fecha" binding:"required"`
	FeedType    FeedType `json:"tipo_alimento" bson:"tipo_alimento" binding:"required,oneof=Pre-iniciador Iniciador Crecimiento Finalizador"`
	AmountKg    float64  `json:"cantidad_suministrada" bson:"cantidad_suministrada" binding:"required,gt=0"`
	TimeOfDay   *string  `json:"hora_suministro" bson:"hora_suministro,omitempty"`
	Responsible string   `json:"responsable" bson:"responsable" binding:"required,min=1,max=100"`
}

// FeedingRecord is a persisted feeding record.
type FeedingRecord struct {
	FeedingID int64 `json:"alimentacion_id"`
	FeedingRecordCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewFeedingRecord assembles the enriched feeding record.
func NewFeedingRecord(in FeedingRecordCreate, r Receipt) FeedingRecord {
	return FeedingRecord{FeedingID: r.ID, FeedingRecordCreate: in, CreatedAt: r.CreatedAt}
}

// EnvironmentalReadingCreate is a sensor reading taken inside a house (medicion ambiental).
type EnvironmentalReadingCreate struct {
	BatchID         int64    `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Timestamp       DateTime `json:"fecha_hora" bson:"fecha_hora" binding:"required"`
	TemperatureC    *float64 `json:"temperatura" bson:"temperatura" binding:"required,gte=-50,lte=100"`
	HumidityPct     *float64 `json:"humedad" bson:"humedad" binding:"required,gte=0,lte=100"`
	Location        *string  `json:"ubicacion" bson:"ubicacion,omitempty" binding:"omitempty,max=100"`
	CO2ppm          *float64 `json:"co2" bson:"co2,omitempty" binding:"omitempty,gte=0"`
	AmmoniaPPM      *float64 `json:"amoniaco" bson:"amoniaco,omitempty" binding:"omitempty,gte=0"`
	IlluminationLux *float64 `json:"iluminacion" bson:"iluminacion,omitempty" binding:"omitempty,gte=0"`
	Notes           *string  `json:"observaciones" bson:"observaciones,omitempty" binding:"omitempty,max=500"`
}

// EnvironmentalReading is a persisted environmental reading.
type EnvironmentalReading struct {
	ReadingID int64 `json:"medicion_id"`
	EnvironmentalReadingCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewEnvironmentalReading assembles the enriched environmental reading.
func NewEnvironmentalReading(in EnvironmentalReadingCreate, r Receipt) EnvironmentalReading {
	return EnvironmentalReading{ReadingID: r.ID, EnvironmentalReadingCreate: in, CreatedAt: r.CreatedAt}
}

// MortalityEventCreate records dead birds found in a batch (mortalidad).
type MortalityEventCreate struct {
	BatchID int64   `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Date    Date    `json:"fecha" bson:"fecha" binding:"required"`
	Count   int64   `json:"cantidad" bson:"cantidad" binding:"required,gt=0"`
	Cause   *string `json:"causa" bson:"causa,omitempty" binding:"omitempty,max=200"`
}

// MortalityEvent is a persisted mortality event.
type MortalityEvent struct {
	MortalityID int64 `json:"mortalidad_id"`
	MortalityEventCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewMortalityEvent assembles the enriched mortality event.
func NewMortalityEvent(in MortalityEventCreate, r Receipt) MortalityEvent {
	return MortalityEvent{MortalityID: r.ID, MortalityEventCreate: in, CreatedAt: r.CreatedAt}
}

// ThermalMapCreate is a thermal camera capture of a house (mapa termico).
type ThermalMapCreate struct {
	BatchID      int64           `json:"lote_id" bson:"lote_id" binding:"required,gt=0"`
	Timestamp    DateTime        `json:"fecha" bson:"fecha" binding:"required"`
	Temperatures TemperatureGrid `json:"temperaturas" bson:"temperaturas" binding:"required,min=1"`
}

// ThermalMap is a persisted thermal map.
type ThermalMap struct {
	MapID int64 `json:"mapa_id"`
	ThermalMapCreate
	CreatedAt time.Time `json:"created_at"`
}

// NewThermalMap assembles the enriched thermal map.
func NewThermalMap(in ThermalMapCreate, r Receipt) ThermalMap {
	return ThermalMap{MapID: r.ID, ThermalMapCreate: in, CreatedAt: r.CreatedAt}
}
