package camera

import (
	"context"
	"fmt"
	"sync"

	"campuspass.io/entities"
	"campuspass.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// WebcamStream captures still frames from a local video device through
// OpenCV. At most one loop owns the stream at a time; Open and Release
// bracket that ownership.
type WebcamStream struct {
	DeviceID int

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

func NewWebcamStream(deviceID int) *WebcamStream {
	return &WebcamStream{DeviceID: deviceID}
}

func (w *WebcamStream) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capture != nil {
		return fmt.Errorf("capture device %d already open", w.DeviceID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	capture, err := gocv.OpenVideoCapture(w.DeviceID)
	if err != nil {
		return fmt.Errorf("opening capture device %d: %w", w.DeviceID, err)
	}
	w.capture = capture
	logger.Info("camera capture stream opened", logger.LoggerOptions{
		Key:  "device_id",
		Data: w.DeviceID,
	})
	return nil
}

func (w *WebcamStream) Capture(ctx context.Context) (*entities.Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capture == nil {
		return nil, fmt.Errorf("capture device %d is not open", w.DeviceID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := gocv.NewMat()
	defer img.Close()
	if ok := w.capture.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("failed to read frame from device %d", w.DeviceID)
	}

	encoded, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encoding captured frame: %w", err)
	}
	defer encoded.Close()

	data := make([]byte, len(encoded.GetBytes()))
	copy(data, encoded.GetBytes())

	return &entities.Frame{
		Data:   data,
		Width:  img.Cols(),
		Height: img.Rows(),
	}, nil
}

func (w *WebcamStream) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capture == nil {
		return
	}
	if err := w.capture.Close(); err != nil {
		logger.Warning("error closing capture device", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	w.capture = nil
	logger.Info("camera capture stream released", logger.LoggerOptions{
		Key:  "device_id",
		Data: w.DeviceID,
	})
}
