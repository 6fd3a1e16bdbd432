package verification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestIDAcquisitionLoopFindsIdentifier(t *testing.T) {
	camera := newFakeCamera()
	ocr := &fakeOCR{script: []string{"", "no card", "ID: 2201547 CARD"}}
	loop := &IDAcquisitionLoop{
		Camera: camera,
		OCR:    ocr,
		Config: IDAcquisitionConfig{Interval: time.Millisecond, MaxAttempts: 10},
	}

	id, err := loop.Run(context.Background(), []string{"2201547"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if id != "2201547" {
		t.Fatalf("Run returned %q, want 2201547", id)
	}
	if ocr.calls != 3 {
		t.Fatalf("expected loop to stop after the successful tick, got %d OCR calls", ocr.calls)
	}
	if !camera.balanced() {
		t.Fatal("camera stream not released after Run")
	}
}

func TestIDAcquisitionLoopBudgetExhaustion(t *testing.T) {
	camera := newFakeCamera()
	ocr := &fakeOCR{script: []string{"nothing readable"}}
	loop := &IDAcquisitionLoop{
		Camera: camera,
		OCR:    ocr,
		Config: IDAcquisitionConfig{Interval: time.Millisecond, MaxAttempts: 4},
	}

	_, err := loop.Run(context.Background(), []string{"2201547"})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("Run error = %v, want ErrAttemptsExhausted", err)
	}
	if ocr.calls != 4 {
		t.Fatalf("expected exactly 4 attempts, got %d", ocr.calls)
	}
	if !camera.balanced() {
		t.Fatal("camera stream not released after budget exhaustion")
	}
}

func TestIDAcquisitionLoopTransientErrorsAbsorbed(t *testing.T) {
	camera := newFakeCamera()
	ocr := &fakeOCR{script: []string{"2201547"}, errEveryOther: true}
	loop := &IDAcquisitionLoop{
		Camera: camera,
		OCR:    ocr,
		Config: IDAcquisitionConfig{Interval: time.Millisecond, MaxAttempts: 10},
	}

	// Odd-numbered calls fail; the loop must carry on to the next tick and
	// succeed on the second.
	id, err := loop.Run(context.Background(), []string{"2201547"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if id != "2201547" {
		t.Fatalf("Run returned %q, want 2201547", id)
	}
}

func TestIDAcquisitionLoopTicksNeverOverlap(t *testing.T) {
	camera := newFakeCamera()
	ocr := &fakeOCR{script: []string{""}, delay: 8 * time.Millisecond}
	loop := &IDAcquisitionLoop{
		Camera: camera,
		OCR:    ocr,
		Config: IDAcquisitionConfig{Interval: time.Millisecond, MaxAttempts: 5},
	}

	_, err := loop.Run(context.Background(), []string{"2201547"})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("Run error = %v, want ErrAttemptsExhausted", err)
	}
	if max := atomic.LoadInt32(&ocr.maxInFlight); max > 1 {
		t.Fatalf("recognition calls overlapped: max in flight %d", max)
	}
}

func TestIDAcquisitionLoopCancellation(t *testing.T) {
	camera := newFakeCamera()
	ocr := &fakeOCR{script: []string{""}}
	loop := &IDAcquisitionLoop{
		Camera: camera,
		OCR:    ocr,
		Config: IDAcquisitionConfig{Interval: 5 * time.Millisecond, MaxAttempts: 1000},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()

	_, err := loop.Run(ctx, []string{"2201547"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if !camera.balanced() {
		t.Fatal("camera stream not released after cancellation")
	}
}
