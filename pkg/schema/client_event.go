package schema

import "time"

const ClientEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "partfinder",
	"name": "client_event",
	"fields" : [
		{"name": "session_id", "type": "string"},
		{"name": "event_type", "type": "string"},
		{"name": "vehicle_id", "type": "string"},
		{"name": "part_id", "type": "string"},
		{"name": "query", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "occurred_at", "type": {
			"type": "long", "logicalType": "timestamp-millis"
		}}
	]
}`

type ClientEventV1 struct {
	SessionID  string    `avro:"session_id"`
	EventType  string    `avro:"event_type"`
	VehicleID  string    `avro:"vehicle_id"`
	PartID     string    `avro:"part_id"`
	Query      string    `avro:"query"`
	Category   string    `avro:"category"`
	OccurredAt time.Time `avro:"occurred_at"`
}
