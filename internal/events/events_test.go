package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(TypeReliabilityComputed, "user-1", map[string]float64{"overall_score": 67.5})
	require.NoError(t, err)

	assert.Equal(t, TypeReliabilityComputed, event.Type)
	assert.Equal(t, "user-1", event.SubjectID)
	assert.NotEmpty(t, event.ID)
	assert.JSONEq(t, `{"overall_score":67.5}`, string(event.Data))
}

func TestNewEvent_RejectsUnencodableData(t *testing.T) {
	_, err := NewEvent(TypeRiskAssessed, "opp-1", make(chan int))
	assert.Error(t, err)
}

func TestToMessage(t *testing.T) {
	event, err := NewEvent(TypeLeaderEvaluated, "row-7", map[string]int{"meetings_called": 3})
	require.NoError(t, err)

	msg, err := toMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("row-7"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(TypeLeaderEvaluated), msg.Headers[0].Value)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Type, decoded.Type)
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "insights.events")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "insights.events")
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
