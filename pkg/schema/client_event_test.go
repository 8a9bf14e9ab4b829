package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEventV1(t *testing.T) {
	vMarshal := ClientEventV1{
		SessionID:  "testSessionID",
		EventType:  "cart_add",
		VehicleID:  "testVehicleID",
		PartID:     "testPartID",
		Query:      "filtro",
		Category:   "Mantenimiento",
		OccurredAt: time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
	}

	var eventSchema avro.Schema

	require.NotPanics(t, func() {
		eventSchema = avro.MustParse(ClientEventSchemaTextV1)
	})

	data, err := avro.Marshal(eventSchema, vMarshal)
	require.NoError(t, err)

	var vUnmarshal ClientEventV1
	err = avro.Unmarshal(eventSchema, data, &vUnmarshal)
	require.NoError(t, err)

	assert.Equal(t, vMarshal.SessionID, vUnmarshal.SessionID)
	assert.Equal(t, vMarshal.EventType, vUnmarshal.EventType)
	assert.Equal(t, vMarshal.VehicleID, vUnmarshal.VehicleID)
	assert.Equal(t, vMarshal.PartID, vUnmarshal.PartID)
	assert.Equal(t, vMarshal.Query, vUnmarshal.Query)
	assert.Equal(t, vMarshal.Category, vUnmarshal.Category)
	assert.True(t, vMarshal.OccurredAt.Equal(vUnmarshal.OccurredAt))
}
