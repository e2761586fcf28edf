package amqp

import (
	"encoding/json"
	"time"
)

// SyncRequestMessage asks the push worker to upload a fresh snapshot.
// It carries only the trigger reason and the originating device; the
// worker reads current state from the store when it runs.
type SyncRequestMessage struct {
	Reason    string    `json:"reason"`
	DeviceID  string    `json:"deviceId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncRequestMessage(reason, deviceID string) *SyncRequestMessage {
	return &SyncRequestMessage{
		Reason:    reason,
		DeviceID:  deviceID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SyncRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncRequestMessageFromJSON creates a message from JSON bytes
func SyncRequestMessageFromJSON(data []byte) (*SyncRequestMessage, error) {
	var msg SyncRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
