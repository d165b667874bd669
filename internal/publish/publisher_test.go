package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"

	"github.com/alicebob/miniredis/v2"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	return EventOf("sess-1", domain.RiskAssessment{
		ID:          "assess-1",
		Probability: 0.42,
		Tier:        domain.TierMedium,
		Summary:     domain.InputSummary{Age: 61, Sex: "Female"},
		AssessedAt:  time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	})
}

func TestStreamPublisher_XAdd(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewStreamPublisher(client, "heartguard:assessments", 100)
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	msgs, err := client.XRange(context.Background(), "heartguard:assessments", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "medium", msgs[0].Values["tier"])

	var e Event
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &e))
	assert.Equal(t, "sess-1", e.SessionID)
	assert.Equal(t, 61, e.Age)
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	payload []byte
}

// fakeMQTT 只实现测试用到的方法
type fakeMQTT struct {
	mqtt.Client
	sent         []published
	err          error
	disconnected bool
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.sent = append(f.sent, published{topic: topic, payload: payload.([]byte)})
	return &fakeToken{err: f.err}
}

func (f *fakeMQTT) Disconnect(uint) { f.disconnected = true }

func TestMQTTPublisher_TopicPerTier(t *testing.T) {
	fake := &fakeMQTT{}
	p := NewMQTTPublisher(fake, "heartguard/assessments", 1)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "heartguard/assessments/medium", fake.sent[0].topic)
	assert.Contains(t, string(fake.sent[0].payload), `"assessment_id":"assess-1"`)

	p.Close()
	assert.True(t, fake.disconnected)
}

func TestMQTTPublisher_Error(t *testing.T) {
	fake := &fakeMQTT{err: errors.New("broker down")}
	p := NewMQTTPublisher(fake, "t", 0)
	err := p.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

type failing struct{ calls int }

func (f *failing) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("nope")
}

func TestMulti_PublishesToAll(t *testing.T) {
	a, b := &failing{}, &failing{}
	err := Multi{a, Nop{}, b}.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)

	assert.NoError(t, Multi{Nop{}}.Publish(context.Background(), sampleEvent()))
}
