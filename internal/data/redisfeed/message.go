package redisfeed

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// Message is the JSON body published after every successful local mutation.
type Message struct {
	Origin string    `json:"origin"`
	Op     string    `json:"op"`
	ID     int64     `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

// ChannelName returns the pub/sub channel for topic.
func ChannelName(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + ":" + topic
}

func encodeMessage(m Message) (string, error) {
	data, err := sonic.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode change message: %w", err)
	}
	return string(data), nil
}

func decodeMessage(payload string) (Message, error) {
	var m Message
	if err := sonic.UnmarshalString(payload, &m); err != nil {
		return Message{}, fmt.Errorf("decode change message: %w", err)
	}
	return m, nil
}
