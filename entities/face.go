package entities

// FaceDescriptor is a fixed-length vector summarising the identity-relevant
// features of one detected face. The dlib resnet model emits 128 floats.
// Descriptors are value types; they are compared, never mutated.
type FaceDescriptor []float32

// DetectionResult is one face found in a single frame. Results are ephemeral;
// only the descriptor that decides a verification outlives its tick.
type DetectionResult struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Confidence float64        `json:"confidence"`
	Descriptor FaceDescriptor `json:"-"`
}

// CenterX returns the horizontal center of the bounding box.
func (d DetectionResult) CenterX() float64 {
	return float64(d.X) + float64(d.Width)/2
}

// Frame is one still image captured from the camera stream, encoded as PNG
// or JPEG bytes so it can cross the OCR and face-engine boundaries without
// dragging the capture backend's types along.
type Frame struct {
	Data   []byte
	Width  int
	Height int
}
