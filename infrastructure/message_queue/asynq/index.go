package asynq

import (
	"os"
	"sync"
	"time"

	"campuspass.io/infrastructure/logger"
	queue_tasks "campuspass.io/infrastructure/message_queue/tasks"
	mq_types "campuspass.io/infrastructure/message_queue/types"
	"github.com/hibiken/asynq"
)

type AsynqBroker struct {
	clientOnce sync.Once
	Client     *asynq.Client
}

func redisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// connect initializes the enqueue client on first use. Enqueue can run on
// the verification path before Start's server goroutine has been scheduled,
// so the client must not depend on Start having run.
func (aq *AsynqBroker) connect() {
	aq.clientOnce.Do(func() {
		aq.Client = asynq.NewClient(redisConnOpt())
	})
}

func (aq *AsynqBroker) Start() {
	aq.connect()

	srv := asynq.NewServer(
		redisConnOpt(),
		asynq.Config{
			Concurrency: 20,
			Queues: map[string]int{
				string(mq_types.High):   7,
				string(mq_types.Medium): 2,
				string(mq_types.Low):    1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(queue_tasks.HandleVerifiedNotificationTaskName), queue_tasks.HandleVerifiedNotificationTask)

	if err := srv.Run(mux); err != nil {
		logger.Error("task queue server stopped", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}

func (aq *AsynqBroker) Enqueue(task mq_types.QueueTask) {
	aq.connect()
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	_, err := aq.Client.Enqueue(asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(time.Duration(task.ProcessIn)*time.Second),
		asynq.MaxRetry(task.MaxRetry),
		asynq.Timeout(time.Second*time.Duration(task.TimeOut)),
		asynq.Queue(string(task.Priority)))
	if err != nil {
		logger.Error("failed to enqueue task", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "task",
			Data: task.Name,
		})
	}
}
