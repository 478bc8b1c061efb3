package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Writer records activity events as structured log entries.
type Writer struct {
	Log *logrus.Logger
	Now func() time.Time
}

type EventPayload map[string]any

func (w Writer) Append(ctx context.Context, evtType, projectID, entityKind, entityID, actorID string, payload EventPayload) error {
	if w.Log == nil {
		return nil
	}
	if w.Now == nil {
		w.Now = time.Now
	}
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	fields := logrus.Fields{
		"event":       evtType,
		"entity_kind": entityKind,
		"actor_id":    actorID,
		"ts":          w.Now().UTC().Format(time.RFC3339),
		"payload":     string(data),
	}
	if projectID != "" {
		fields["project_id"] = projectID
	}
	if entityID != "" {
		fields["entity_id"] = entityID
	}
	w.Log.WithContext(ctx).WithFields(fields).Info(evtType)
	return nil
}
