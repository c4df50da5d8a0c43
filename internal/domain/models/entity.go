package models

import "time"

// Entity enumerates the record types accepted by the ingestion API.
type Entity string

const (
	EntityUser                 Entity = "usuario"
	EntityFarm                 Entity = "granja"
	EntityBatch                Entity = "lote"
	EntityAnimal               Entity = "pollo"
	EntityGrowthSample         Entity = "crecimiento"
	EntityConsumptionRecord    Entity = "consumo"
	EntityFeedingRecord        Entity = "alimentacion"
	EntityEnvironmentalReading Entity = "medicion_ambiental"
	EntityMortalityEvent       Entity = "mortalidad"
	EntityThermalMap           Entity = "mapa_termico"
)

// EntityInfo describes how an entity is exposed over HTTP.
type EntityInfo struct {
	Entity  Entity
	Path    string // relative to /api/v1
	IDField string
	Label   string // used in the success message
	Subject string // used in "Error creating <subject>: ..."
}

// SuccessMessage is the message returned alongside a freshly created record.
func (i EntityInfo) SuccessMessage() string {
	return i.Label + " created successfully"
}

var registry = []EntityInfo{
	{EntityUser, "/usuarios", "usuario_id", "Usuario", "usuario"},
	{EntityFarm, "/granjas", "granja_id", "Granja", "granja"},
	{EntityBatch, "/lotes", "lote_id", "Lote", "lote"},
	{EntityAnimal, "/pollos", "pollo_id", "Pollo", "pollo"},
	{EntityGrowthSample, "/crecimiento", "crecimiento_id", "Crecimiento record", "crecimiento"},
	{EntityConsumptionRecord, "/consumo", "consumo_id", "Consumo record", "consumo"},
	{EntityFeedingRecord, "/alimentacion", "alimentacion_id", "Alimentacion record", "alimentacion"},
	{EntityEnvironmentalReading, "/medicion-ambiental", "medicion_id", "Medicion ambiental record", "medicion ambiental"},
	{EntityMortalityEvent, "/mortalidad", "mortalidad_id", "Mortalidad record", "mortalidad"},
	{EntityThermalMap, "/mapa-termico", "mapa_id", "Mapa termico record", "mapa termico"},
}

// Entities lists every entity in registration order.
func Entities() []Entity {
	out := make([]Entity, 0, len(registry))
	for _, info := range registry {
		out = append(out, info.Entity)
	}
	return out
}

// Info returns the HTTP description of the entity. Unknown entities yield a zero value.
func (e Entity) Info() EntityInfo {
	for _, info := range registry {
		if info.Entity == e {
			return info
		}
	}
	return EntityInfo{}
}

// Valid reports whether e is one of the registered entities.
func (e Entity) Valid() bool {
	return e.Info().Entity != ""
}

func (e Entity) String() string { return string(e) }

// Receipt is what the persistence layer hands back for a stored record.
type Receipt struct {
	ID        int64
	CreatedAt time.Time
}
