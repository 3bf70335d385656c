package eventbus

import "time"

// Topics published by the connectivity service.
const (
	TopicAudioGenerated = "audio.generated"
	TopicVoiceCloned    = "voice.cloned"
)

// AudioGenerated is the payload of TopicAudioGenerated.
type AudioGenerated struct {
	ID          string
	Text        string
	SpeakerID   string
	ContentType string
	Audio       []byte
	CreatedAt   time.Time
}

// VoiceCloned is the payload of TopicVoiceCloned. Audio holds the decoded reference sample.
type VoiceCloned struct {
	SpeakerID string
	VoiceName string
	Audio     []byte
	CreatedAt time.Time
}
