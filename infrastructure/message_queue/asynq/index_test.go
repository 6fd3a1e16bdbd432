package asynq

import (
	"testing"

	mq_types "campuspass.io/infrastructure/message_queue/types"
)

// Enqueue can be reached from the verification path before Start's server
// goroutine has run. The broker must initialize its client on first use
// instead of relying on Start.
func TestEnqueueBeforeStartInitializesClient(t *testing.T) {
	broker := &AsynqBroker{}

	broker.Enqueue(mq_types.QueueTask{
		Name:     "noop_task",
		Payload:  []byte("{}"),
		Priority: mq_types.Low,
	})

	if broker.Client == nil {
		t.Fatal("client not initialized on first Enqueue")
	}

	first := broker.Client
	broker.Enqueue(mq_types.QueueTask{
		Name:     "noop_task",
		Payload:  []byte("{}"),
		Priority: mq_types.Low,
	})
	if broker.Client != first {
		t.Fatal("client reinitialized on second Enqueue")
	}
}
