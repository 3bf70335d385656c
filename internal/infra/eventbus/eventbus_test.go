package eventbus

import (
	"testing"
	"time"
)

func TestEventBus_PublishAndSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(TopicAudioGenerated)

	bus.Publish(TopicAudioGenerated, AudioGenerated{ID: "a1", ContentType: "audio/wav"})

	select {
	case evt := <-ch:
		if evt.Topic != TopicAudioGenerated {
			t.Errorf("expected topic %q, got %q", TopicAudioGenerated, evt.Topic)
		}
		p, ok := evt.Payload.(AudioGenerated)
		if !ok || p.ID != "a1" {
			t.Errorf("unexpected payload %#v", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout: expected event to be received within 100ms")
	}
}

func TestEventBus_MultipleSubscribers_AllReceive(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe(TopicVoiceCloned)
	ch2 := bus.Subscribe(TopicVoiceCloned)

	bus.Publish(TopicVoiceCloned, VoiceCloned{SpeakerID: "spk"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Payload.(VoiceCloned).SpeakerID != "spk" {
				t.Errorf("subscriber %d: unexpected payload %v", i, evt.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestEventBus_DifferentTopics_NoInterference(t *testing.T) {
	bus := New()
	chA := bus.Subscribe(TopicAudioGenerated)
	chB := bus.Subscribe(TopicVoiceCloned)

	bus.Publish(TopicAudioGenerated, "for-a")

	select {
	case evt := <-chA:
		if evt.Payload != "for-a" {
			t.Errorf("%s: unexpected payload %v", TopicAudioGenerated, evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for event")
	}

	select {
	case evt := <-chB:
		t.Errorf("%s: received unexpected event: %v", TopicVoiceCloned, evt)
	default:
	}
}

func TestEventBus_NonBlockingPublish_FullBuffer(t *testing.T) {
	bus := New()
	_ = bus.Subscribe("overflow.topic")

	done := make(chan struct{})
	go func() {
		for i := 0; i <= defaultBufferSize+10; i++ {
			bus.Publish("overflow.topic", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Error("Publish blocked when buffer was full")
	}
}

func TestEventBus_Close_EndsSubscriptions(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(TopicAudioGenerated)

	bus.Close()
	bus.Close() // idempotent

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("channel not closed")
	}

	// publish after close is a no-op, not a panic
	bus.Publish(TopicAudioGenerated, "late")

	late := bus.Subscribe(TopicVoiceCloned)
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
