package messaging

import (
	"encoding/json"
	"errors"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
)

var ErrInvalidJob = errors.New("invalid notification job")

// EncodeJob serializes a notification job for the wire.
func EncodeJob(job models.NotificationJob) ([]byte, error) {
	return json.Marshal(job)
}

// DecodeJob parses a delivery body and rejects jobs missing routing fields.
func DecodeJob(body []byte) (models.NotificationJob, error) {
	var job models.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		return models.NotificationJob{}, errors.Join(ErrInvalidJob, err)
	}
	if job.Email == "" || job.City == "" || job.UnsubscribeToken == "" {
		return models.NotificationJob{}, ErrInvalidJob
	}
	return job, nil
}
