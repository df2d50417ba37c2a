package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic id.
type EventType string

const (
	EventResultsPublished   EventType = "results-published"
	EventResultsUnpublished EventType = "results-unpublished"
)

// ResultsMessage announces a change to the published results of an event.
type ResultsMessage struct {
	SocietyID string    `msgpack:"society_id"`
	EventID   string    `msgpack:"event_id"`
	EventName string    `msgpack:"event_name"`
	Count     int       `msgpack:"count"`
	At        time.Time `msgpack:"at"`
}

// PushEnvelope is the JSON body of a Pub/Sub push delivery.
type PushEnvelope struct {
	Message struct {
		Data        string            `json:"data"`
		MessageID   string            `json:"messageId"`
		Attributes  map[string]string `json:"attributes"`
		PublishTime time.Time         `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
