package notifier

import (
	"encoding/json"
	"time"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
	messagequeue "campuspass.io/infrastructure/message_queue"
	queue_tasks "campuspass.io/infrastructure/message_queue/tasks"
	mq_types "campuspass.io/infrastructure/message_queue/types"
)

// QueueNotifier hands verified-session notifications to the task queue so
// email delivery never blocks the verification path.
type QueueNotifier struct {
}

func (n *QueueNotifier) NotifyVerified(student *entities.StudentRecord, result *entities.VerificationResult) {
	if student.Email == "" {
		return
	}
	payload, err := json.Marshal(queue_tasks.VerifiedNotificationPayload{
		Email:      student.Email,
		FirstName:  student.FirstName,
		StudentID:  student.StudentID,
		Similarity: result.Similarity,
		VerifiedAt: result.VerifiedAt.Format(time.RFC1123),
	})
	if err != nil {
		logger.Error("failed to marshal verified notification payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	messagequeue.TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleVerifiedNotificationTaskName,
		Payload:  payload,
		Priority: mq_types.Low,
		MaxRetry: 3,
	})
}
