package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"campuspass.io/application/constants"
	"campuspass.io/infrastructure/logger"
	mq_types "campuspass.io/infrastructure/message_queue/types"
	"campuspass.io/infrastructure/messaging/emails"
	"github.com/hibiken/asynq"
)

var HandleVerifiedNotificationTaskName mq_types.Queues = "send_verified_notification"

type VerifiedNotificationPayload struct {
	Email      string
	FirstName  string
	StudentID  string
	Similarity float64
	VerifiedAt string
}

func HandleVerifiedNotificationTask(ctx context.Context, t *asynq.Task) error {
	var payload VerifiedNotificationPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling verified notification queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	success := emails.EmailService.SendEmail(payload.Email, "Your identity was verified", "verification_succeeded", map[string]any{
		"FirstName":    payload.FirstName,
		"VerifiedAt":   payload.VerifiedAt,
		"Similarity":   fmt.Sprintf("%.1f%%", payload.Similarity*100),
		"SupportEmail": constants.SUPPORT_EMAIL,
	})
	if !success {
		logger.Error("failed to send verified notification email", logger.LoggerOptions{
			Key:  "toEmail",
			Data: payload.Email,
		}, logger.LoggerOptions{
			Key:  "studentID",
			Data: payload.StudentID,
		})
		return fmt.Errorf("failed to send verified notification to %s", payload.Email)
	}
	return nil
}
