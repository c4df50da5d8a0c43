package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.Error(t, err)
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T: %v", err, err)
	return verr
}

func TestDecode_BatchDefaultsToActive(t *testing.T) {
	body := `{"codigo":"B1","fecha_ingreso":"2024-01-01","cantidad_inicial":500,"raza":"Cobb500","granja_id":1}`

	var in models.BatchCreate
	require.NoError(t, Decode([]byte(body), &in))

	assert.Equal(t, "B1", in.Code)
	assert.Equal(t, models.NewDate(2024, time.January, 1), in.IntakeDate)
	assert.Equal(t, int64(500), in.InitialCount)
	assert.Equal(t, "Cobb500", in.Breed)
	assert.Equal(t, int64(1), in.FarmID)
	assert.Equal(t, models.BatchActive, in.Status)
}

func TestDecode_BatchNullStatusKeepsDefault(t *testing.T) {
	body := `{"codigo":"B1","fecha_ingreso":"2024-01-01","cantidad_inicial":5,"raza":"Ross","granja_id":1,"estado":null}`

	var in models.BatchCreate
	require.NoError(t, Decode([]byte(body), &in))
	assert.Equal(t, models.BatchActive, in.Status)
}

func TestDecode_AnimalDefaultsToHealthy(t *testing.T) {
	body := `{"lote_id":3,"identificador":"P-001","peso":42.5,"fecha_registro":"2024-03-01T08:30:00Z"}`

	var in models.AnimalCreate
	require.NoError(t, Decode([]byte(body), &in))

	assert.Equal(t, models.HealthHealthy, in.HealthStatus)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), in.RecordedAt.Time())
}

func TestDecode_ReportsEveryMissingField(t *testing.T) {
	var in models.BatchCreate
	verr := requireValidationError(t, Decode([]byte(`{}`), &in))

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
		assert.Equal(t, "field required", f.Message)
	}
	assert.Equal(t, []string{"codigo", "fecha_ingreso", "cantidad_inicial", "raza", "granja_id"}, fields)
}

func TestDecode_NullRequiredFieldIsMissing(t *testing.T) {
	body := `{"nombre":null,"capacidad":10,"usuario_id":1}`

	var in models.FarmCreate
	verr := requireValidationError(t, Decode([]byte(body), &in))
	assert.Equal(t, map[string]string{"nombre": "field required"}, verr.Detail())
}

func TestDecode_SingleBoundViolations(t *testing.T) {
	tests := []struct {
		name    string
		target  any
		body    string
		field   string
		message string
	}{
		{
			name:    "farm capacity must be strictly positive",
			target:  &models.FarmCreate{},
			body:    `{"nombre":"Granja Norte","capacidad":0,"usuario_id":1}`,
			field:   "capacidad",
			message: "must be greater than 0",
		},
		{
			name:    "farm owner must be positive",
			target:  &models.FarmCreate{},
			body:    `{"nombre":"Granja Norte","capacidad":100,"usuario_id":-4}`,
			field:   "usuario_id",
			message: "must be greater than 0",
		},
		{
			name:    "humidity above 100",
			target:  &models.EnvironmentalReadingCreate{},
			body:    `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00","temperatura":25,"humedad":101}`,
			field:   "humedad",
			message: "must be less than or equal to 100",
		},
		{
			name:    "temperature below -50",
			target:  &models.EnvironmentalReadingCreate{},
			body:    `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00","temperatura":-50.5,"humedad":60}`,
			field:   "temperatura",
			message: "must be greater than or equal to -50",
		},
		{
			name:    "unknown batch status",
			target:  &models.BatchCreate{},
			body:    `{"codigo":"B1","fecha_ingreso":"2024-01-01","cantidad_inicial":1,"raza":"Ross","granja_id":1,"estado":"unknown"}`,
			field:   "estado",
			message: "must be one of: activo, inactivo, vendido",
		},
		{
			name:    "empty batch status",
			target:  &models.BatchCreate{},
			body:    `{"codigo":"B1","fecha_ingreso":"2024-01-01","cantidad_inicial":1,"raza":"Ross","granja_id":1,"estado":""}`,
			field:   "estado",
			message: "must be one of: activo, inactivo, vendido",
		},
		{
			name:    "unknown feed type",
			target:  &models.ConsumptionRecordCreate{},
			body:    `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00Z","cantidad_agua":10,"cantidad_alimento":5,"tipo_alimento":"starter"}`,
			field:   "tipo_alimento",
			message: "must be one of: Pre-iniciador, Iniciador, Crecimiento, Finalizador",
		},
		{
			name:    "negative waste",
			target:  &models.ConsumptionRecordCreate{},
			body:    `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00Z","cantidad_agua":10,"cantidad_alimento":5,"tipo_alimento":"Iniciador","desperdicio":-1}`,
			field:   "desperdicio",
			message: "must be greater than or equal to 0",
		},
		{
			name:    "uniformity above 100",
			target:  &models.GrowthSampleCreate{},
			body:    `{"lote_id":1,"fecha":"2024-01-10","peso_promedio":180,"uniformidad":100.1}`,
			field:   "uniformidad",
			message: "must be less than or equal to 100",
		},
		{
			name:    "zero average weight",
			target:  &models.GrowthSampleCreate{},
			body:    `{"lote_id":1,"fecha":"2024-01-10","peso_promedio":0}`,
			field:   "peso_promedio",
			message: "must be greater than 0",
		},
		{
			name:    "short password",
			target:  &models.UserCreate{},
			body:    `{"nombre":"Ana","email":"ana@example.com","contraseña":"1234567"}`,
			field:   "contraseña",
			message: "must be at least 8 characters long",
		},
		{
			name:    "long phone",
			target:  &models.UserCreate{},
			body:    `{"nombre":"Ana","email":"ana@example.com","contraseña":"12345678","telefono":"` + strings.Repeat("9", 21) + `"}`,
			field:   "telefono",
			message: "must be at most 20 characters long",
		},
		{
			name:    "empty responsible",
			target:  &models.FeedingRecordCreate{},
			body:    `{"lote_id":1,"fecha":"2024-01-01T06:00:00Z","tipo_alimento":"Crecimiento","cantidad_suministrada":25,"responsable":""}`,
			field:   "responsable",
			message: "must be at least 1 characters long",
		},
		{
			name:    "zero mortality count",
			target:  &models.MortalityEventCreate{},
			body:    `{"lote_id":1,"fecha":"2024-01-01","cantidad":0}`,
			field:   "cantidad",
			message: "must be greater than 0",
		},
		{
			name:    "cause too long",
			target:  &models.MortalityEventCreate{},
			body:    `{"lote_id":1,"fecha":"2024-01-01","cantidad":2,"causa":"` + strings.Repeat("x", 201) + `"}`,
			field:   "causa",
			message: "must be at most 200 characters long",
		},
		{
			name:    "notes too long",
			target:  &models.EnvironmentalReadingCreate{},
			body:    `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00Z","temperatura":25,"humedad":60,"observaciones":"` + strings.Repeat("n", 501) + `"}`,
			field:   "observaciones",
			message: "must be at most 500 characters long",
		},
		{
			name:    "non positive animal weight",
			target:  &models.AnimalCreate{},
			body:    `{"lote_id":1,"identificador":"P1","peso":-3,"fecha_registro":"2024-01-01T10:00:00Z"}`,
			field:   "peso",
			message: "must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := requireValidationError(t, Decode([]byte(tt.body), tt.target))
			assert.Equal(t, map[string]string{tt.field: tt.message}, verr.Detail())
		})
	}
}

func TestDecode_InclusiveBoundsAccepted(t *testing.T) {
	body := `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00Z","temperatura":-50,"humedad":0,"co2":0,"amoniaco":0,"iluminacion":0}`

	var in models.EnvironmentalReadingCreate
	require.NoError(t, Decode([]byte(body), &in))
	require.NotNil(t, in.HumidityPct)
	assert.Equal(t, 0.0, *in.HumidityPct)
	assert.Equal(t, -50.0, *in.TemperatureC)

	body = `{"lote_id":1,"fecha_hora":"2024-01-01T10:00:00Z","temperatura":100,"humedad":100}`
	in = models.EnvironmentalReadingCreate{}
	require.NoError(t, Decode([]byte(body), &in))
}

func TestDecode_OptionalFieldsStayAbsent(t *testing.T) {
	body := `{"lote_id":1,"fecha":"2024-01-10","peso_promedio":180}`

	var in models.GrowthSampleCreate
	require.NoError(t, Decode([]byte(body), &in))
	assert.Nil(t, in.DailyGainGrams)
	assert.Nil(t, in.UniformityPct)
}

func TestDecode_StringLengthCountsCharacters(t *testing.T) {
	body := `{"nombre":"` + strings.Repeat("ñ", 100) + `","capacidad":1,"usuario_id":1}`

	var in models.FarmCreate
	require.NoError(t, Decode([]byte(body), &in))
}

func TestDecode_TypeAndConstraintErrorsReportedTogether(t *testing.T) {
	body := `{"codigo":"","fecha_ingreso":"2024-13-01","cantidad_inicial":"many","raza":"Ross","granja_id":1.5}`

	var in models.BatchCreate
	verr := requireValidationError(t, Decode([]byte(body), &in))

	detail := verr.Detail()
	assert.Len(t, detail, 4)
	assert.Equal(t, "must be at least 1 characters long", detail["codigo"])
	assert.Contains(t, detail["fecha_ingreso"], "invalid date")
	assert.Equal(t, "must be an integer", detail["cantidad_inicial"])
	assert.Equal(t, "must be an integer", detail["granja_id"])
}

func TestDecode_ThermalGrid(t *testing.T) {
	tests := []struct {
		name    string
		grid    string
		wantErr bool
	}{
		{name: "rectangular grid", grid: `[[1,2],[3,4]]`},
		{name: "ragged rows accepted", grid: `[[1,2,3],[4]]`},
		{name: "floats and negatives", grid: `[[-1.5,20.25],[30,0]]`},
		{name: "empty grid", grid: `[]`, wantErr: true},
		{name: "non numeric cell", grid: `[[1,2],["x",3]]`, wantErr: true},
		{name: "null cell", grid: `[[1,null]]`, wantErr: true},
		{name: "row is not a list", grid: `[[1,2],3]`, wantErr: true},
		{name: "flat list", grid: `[1,2]`, wantErr: true},
		{name: "not a list", grid: `"hot"`, wantErr: true},
		{name: "absent", grid: ``, wantErr: true},
		{name: "null", grid: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"lote_id":1,"fecha":"2024-01-01T12:00:00Z"`
			if tt.grid != "" {
				body += `,"temperaturas":` + tt.grid
			}
			body += `}`

			var in models.ThermalMapCreate
			err := Decode([]byte(body), &in)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotEmpty(t, in.Temperatures)
				return
			}
			verr := requireValidationError(t, err)
			assert.True(t, verr.Has("temperaturas"), "got %v", verr.Detail())
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestDecode_BodyMustBeObject(t *testing.T) {
	for _, body := range []string{`[1,2]`, `not json`, `"text"`} {
		var in models.FarmCreate
		verr := requireValidationError(t, Decode([]byte(body), &in))
		assert.Equal(t, map[string]string{"body": "request body must be a JSON object"}, verr.Detail())
	}
}

func TestDecode_RejectsNonPointerTarget(t *testing.T) {
	err := Decode([]byte(`{}`), models.FarmCreate{})
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestDecode_DateTimeLayouts(t *testing.T) {
	layouts := map[string]time.Time{
		`"2024-05-06T07:08:09Z"`:      time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		`"2024-05-06T07:08:09"`:       time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		`"2024-05-06 07:08:09"`:       time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		`"2024-05-06T07:08:09.5"`:     time.Date(2024, 5, 6, 7, 8, 9, 500000000, time.UTC),
		`"2024-05-06"`:                time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		`"2024-05-06T07:08:09+02:00"`: time.Date(2024, 5, 6, 5, 8, 9, 0, time.UTC),
	}

	for raw, want := range layouts {
		var in models.AnimalCreate
		payload := `{"lote_id":1,"identificador":"A","peso":1,"fecha_registro":` + raw + `}`
		require.NoError(t, Decode([]byte(payload), &in), raw)
		assert.True(t, want.Equal(in.RecordedAt.Time()), "%s parsed as %s", raw, in.RecordedAt)
	}
}

func TestStruct_GuardsTypedInput(t *testing.T) {
	err := Struct(models.FarmCreate{Name: "Granja", Capacity: 0, OwnerUserID: 1})
	verr := requireValidationError(t, err)
	assert.True(t, verr.Has("capacidad"))

	require.NoError(t, Struct(models.FarmCreate{Name: "Granja", Capacity: 10, OwnerUserID: 1}))
}

func TestValidationError_Message(t *testing.T) {
	var in models.MortalityEventCreate
	err := Decode([]byte(`{"lote_id":0,"fecha":"2024-01-01","cantidad":1}`), &in)
	require.Error(t, err)
	assert.Equal(t, "validation failed: lote_id: must be greater than 0", err.Error())
}
